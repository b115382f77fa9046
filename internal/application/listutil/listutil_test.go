package listutil

import (
	"net/url"
	"strings"
	"testing"
)

// TestParseSortParams_Valid verifies correct parsing of sort column and direction.
func TestParseSortParams_Valid(t *testing.T) {
	q := url.Values{"sort": {"name"}, "dir": {"desc"}}
	s := ParseSortParams(q, []string{"name", "email"}, "")
	if s.Sort != "name" {
		t.Errorf("expected sort=name, got %s", s.Sort)
	}
	if !s.Desc() {
		t.Errorf("expected dir=desc, got %s", s.Dir)
	}
}

// TestParseSortParams_Defaults verifies unknown columns fall back and dir defaults to asc.
func TestParseSortParams_Defaults(t *testing.T) {
	q := url.Values{"sort": {"password"}, "dir": {"sideways"}}
	s := ParseSortParams(q, []string{"name", "email"}, "name")
	if s.Sort != "name" {
		t.Errorf("expected default sort=name, got %q", s.Sort)
	}
	if s.Dir != "asc" {
		t.Errorf("expected dir=asc, got %q", s.Dir)
	}
}

// TestSortParams_NextDir verifies header links toggle only the active column.
func TestSortParams_NextDir(t *testing.T) {
	s := SortParams{Sort: "name", Dir: "asc"}
	if got := s.NextDir("name"); got != "desc" {
		t.Errorf("NextDir(active asc) = %s, want desc", got)
	}
	if got := s.NextDir("email"); got != "asc" {
		t.Errorf("NextDir(other) = %s, want asc", got)
	}
	s.Dir = "desc"
	if got := s.NextDir("name"); got != "asc" {
		t.Errorf("NextDir(active desc) = %s, want asc", got)
	}
}

// TestParseFilterParams verifies search trimming and key whitelisting.
func TestParseFilterParams(t *testing.T) {
	q := url.Values{"q": {"  ann  "}, "attention": {"1"}, "role": {"coach"}}
	fp := ParseFilterParams(q, []string{"attention"})
	if fp.Search != "ann" {
		t.Errorf("Search = %q, want ann", fp.Search)
	}
	if fp.Filters["attention"] != "1" {
		t.Errorf("attention filter missing: %v", fp.Filters)
	}
	if _, ok := fp.Filters["role"]; ok {
		t.Error("unrecognised filter key kept")
	}
}

// TestParseFilterParams_Truncates verifies overly long searches are capped.
func TestParseFilterParams_Truncates(t *testing.T) {
	q := url.Values{"q": {strings.Repeat("é", MaxSearchLength+20)}}
	fp := ParseFilterParams(q, nil)
	if n := len([]rune(fp.Search)); n != MaxSearchLength {
		t.Errorf("search length = %d, want %d", n, MaxSearchLength)
	}
}

// TestContainsFold verifies case-insensitive substring matching.
func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, needle string
		want      bool
	}{
		{"Ann Lee", "an", true},
		{"Ann Lee", "LEE", true},
		{"Bob", "an", false},
		{"Bob", "", true},
		{"", "x", false},
	}
	for _, tt := range tests {
		if got := ContainsFold(tt.s, tt.needle); got != tt.want {
			t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.s, tt.needle, got, tt.want)
		}
	}
}

// TestParseListParams verifies the combined parse.
func TestParseListParams(t *testing.T) {
	q := url.Values{"q": {"bob"}, "sort": {"status"}, "dir": {"desc"}}
	lp := ParseListParams(q, []string{"name", "status"}, "name", nil)
	if lp.Search != "bob" || lp.Sort != "status" || lp.Dir != "desc" {
		t.Errorf("got %+v", lp)
	}
}
