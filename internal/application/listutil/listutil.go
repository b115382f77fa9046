package listutil

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// SortParams carries sorting parameters parsed from a request.
type SortParams struct {
	Sort string // column name
	Dir  string // "asc" or "desc"
}

// FilterParams carries search and filter parameters.
type FilterParams struct {
	Search  string            // free-text search query
	Filters map[string]string // exact-match filters (e.g. attention=1)
}

// ListParams combines all list view parameters.
type ListParams struct {
	SortParams
	FilterParams
}

// MaxSearchLength caps the free-text query; longer input is truncated.
const MaxSearchLength = 100

// ParseSortParams extracts sort and dir from URL query values.
// PRE: defaultSort is one of allowedColumns or ""
// POST: returns SortParams; Dir is always "asc" or "desc"
func ParseSortParams(q url.Values, allowedColumns []string, defaultSort string) SortParams {
	sort := q.Get("sort")
	dir := q.Get("dir")

	if !isAllowedColumn(sort, allowedColumns) {
		sort = defaultSort
	}
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}
	return SortParams{Sort: sort, Dir: dir}
}

// Desc reports whether the direction is descending.
func (s SortParams) Desc() bool {
	return s.Dir == "desc"
}

// NextDir is the direction a column header link should request:
// clicking the active ascending column flips it, anything else starts ascending.
func (s SortParams) NextDir(column string) string {
	if s.Sort == column && s.Dir == "asc" {
		return "desc"
	}
	return "asc"
}

// ParseFilterParams extracts search and named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised keys and a trimmed search
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  truncate(strings.TrimSpace(q.Get("q")), MaxSearchLength),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// ParseListParams parses all list parameters from URL query values.
func ParseListParams(q url.Values, allowedSortCols []string, defaultSort string, filterKeys []string) ListParams {
	return ListParams{
		SortParams:   ParseSortParams(q, allowedSortCols, defaultSort),
		FilterParams: ParseFilterParams(q, filterKeys),
	}
}

// ContainsFold reports whether needle occurs in s, ignoring case.
// An empty needle matches everything.
func ContainsFold(s, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(needle))
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func isAllowedColumn(col string, allowed []string) bool {
	for _, a := range allowed {
		if col == a {
			return true
		}
	}
	return false
}
