package projections

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"swimhealth/internal/adapters/storage/inbody"
	"swimhealth/internal/adapters/storage/medical"
	"swimhealth/internal/adapters/storage/profile"
	"swimhealth/internal/application/listutil"
	domainAccount "swimhealth/internal/domain/account"
	domainInBody "swimhealth/internal/domain/inbody"
	domainMedical "swimhealth/internal/domain/medical"
	domainProfile "swimhealth/internal/domain/profile"
)

// Roster sort columns.
const (
	SortByName   = "name"
	SortByEmail  = "email"
	SortByExam   = "exam"
	SortByStatus = "status"
)

// RosterSortColumns lists the accepted ?sort= values.
var RosterSortColumns = []string{SortByName, SortByEmail, SortByExam, SortByStatus}

// RosterEntry is one swimmer with their most recent records.
// Latest pointers are nil when the swimmer has no record of that kind.
type RosterEntry struct {
	Profile       domainProfile.Profile
	LatestInBody  *domainInBody.Examination
	LatestMedical *domainMedical.Result
}

// NeedsAttention reports whether the latest stored medical status asks for follow-up.
func (e RosterEntry) NeedsAttention() bool {
	return e.LatestMedical != nil && e.LatestMedical.Status.NeedsAttention()
}

// HasRecords reports whether any examination exists for the swimmer.
func (e RosterEntry) HasRecords() bool {
	return e.LatestInBody != nil || e.LatestMedical != nil
}

// LastExamined is the most recent examination date of either kind, zero when none.
func (e RosterEntry) LastExamined() time.Time {
	var last time.Time
	if e.LatestInBody != nil {
		last = e.LatestInBody.ExaminationDate
	}
	if e.LatestMedical != nil && e.LatestMedical.ExaminationDate.After(last) {
		last = e.LatestMedical.ExaminationDate
	}
	return last
}

// RosterSummary carries the dashboard counters, computed over the unfiltered roster.
type RosterSummary struct {
	TotalSwimmers  int
	NeedsAttention int
	WithRecords    int
}

// BuildRoster joins swimmer profiles with their latest records.
// PRE: inbodyDesc and medicalDesc are sorted by examination date, newest first
// POST: one entry per profile whose ID is in swimmerIDs, in profile order;
// the latest record of each kind is the first one seen for that swimmer
func BuildRoster(
	profiles []domainProfile.Profile,
	swimmerIDs []string,
	inbodyDesc []domainInBody.Examination,
	medicalDesc []domainMedical.Result,
) []RosterEntry {
	if len(swimmerIDs) == 0 {
		return []RosterEntry{}
	}
	swimmers := make(map[string]bool, len(swimmerIDs))
	for _, id := range swimmerIDs {
		swimmers[id] = true
	}

	latestInBody := make(map[string]*domainInBody.Examination)
	for i := range inbodyDesc {
		e := &inbodyDesc[i]
		if _, seen := latestInBody[e.SwimmerID]; !seen {
			latestInBody[e.SwimmerID] = e
		}
	}
	latestMedical := make(map[string]*domainMedical.Result)
	for i := range medicalDesc {
		r := &medicalDesc[i]
		if _, seen := latestMedical[r.SwimmerID]; !seen {
			latestMedical[r.SwimmerID] = r
		}
	}

	roster := make([]RosterEntry, 0, len(swimmerIDs))
	for _, p := range profiles {
		if !swimmers[p.ID] {
			continue
		}
		roster = append(roster, RosterEntry{
			Profile:       p,
			LatestInBody:  latestInBody[p.ID],
			LatestMedical: latestMedical[p.ID],
		})
	}
	return roster
}

// NeedsAttention returns the entries whose latest medical status is attention or critical.
// Computed readings never promote an entry; only the stored status counts.
func NeedsAttention(roster []RosterEntry) []RosterEntry {
	out := []RosterEntry{}
	for _, e := range roster {
		if e.NeedsAttention() {
			out = append(out, e)
		}
	}
	return out
}

// FilterRoster keeps entries whose full name or email contains query, ignoring case.
// An empty query returns the roster unchanged.
func FilterRoster(roster []RosterEntry, query string) []RosterEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return roster
	}
	out := []RosterEntry{}
	for _, e := range roster {
		if listutil.ContainsFold(e.Profile.FullName, query) || listutil.ContainsFold(e.Profile.Email, query) {
			out = append(out, e)
		}
	}
	return out
}

// Summarize counts the dashboard cards.
func Summarize(roster []RosterEntry) RosterSummary {
	s := RosterSummary{TotalSwimmers: len(roster)}
	for _, e := range roster {
		if e.NeedsAttention() {
			s.NeedsAttention++
		}
		if e.HasRecords() {
			s.WithRecords++
		}
	}
	return s
}

// statusRank orders statuses by urgency; swimmers without a result sort lowest.
func statusRank(e RosterEntry) int {
	if e.LatestMedical == nil {
		return 0
	}
	switch e.LatestMedical.Status {
	case domainMedical.StatusCritical:
		return 4
	case domainMedical.StatusAttention:
		return 3
	case domainMedical.StatusPending:
		return 2
	}
	return 1
}

// SortRoster orders the roster in place. Ties fall back to name, ascending.
// Unknown columns leave the profile order untouched.
func SortRoster(roster []RosterEntry, params listutil.SortParams) {
	byName := func(a, b RosterEntry) int {
		return strings.Compare(strings.ToLower(a.Profile.FullName), strings.ToLower(b.Profile.FullName))
	}
	var cmp func(a, b RosterEntry) int
	switch params.Sort {
	case SortByName:
		cmp = byName
	case SortByEmail:
		cmp = func(a, b RosterEntry) int {
			return strings.Compare(strings.ToLower(a.Profile.Email), strings.ToLower(b.Profile.Email))
		}
	case SortByExam:
		cmp = func(a, b RosterEntry) int { return a.LastExamined().Compare(b.LastExamined()) }
	case SortByStatus:
		cmp = func(a, b RosterEntry) int { return statusRank(a) - statusRank(b) }
	default:
		return
	}
	sort.SliceStable(roster, func(i, j int) bool {
		c := cmp(roster[i], roster[j])
		if params.Desc() {
			c = -c
		}
		if c == 0 {
			c = byName(roster[i], roster[j])
		}
		return c < 0
	})
}

// GetCoachRosterQuery carries query parameters.
type GetCoachRosterQuery struct {
	Search string
	Sort   listutil.SortParams
}

// GetCoachRosterResult carries the query result.
// Complete is false when a fetch failed and some rows are missing.
type GetCoachRosterResult struct {
	Entries   []RosterEntry
	Attention []RosterEntry
	Summary   RosterSummary
	Complete  bool
}

// GetCoachRosterDeps holds dependencies for GetCoachRoster.
type GetCoachRosterDeps struct {
	ProfileStore ProfileStore
	RoleStore    RoleStore
	InBodyStore  InBodyStore
	MedicalStore MedicalStore
}

// QueryGetCoachRoster builds the coach dashboard.
// PRE: caller holds the coach role
// POST: Entries are filtered by Search and sorted; Attention and Summary cover every swimmer
// INVARIANT: fetch failures are logged and degrade to empty lists, never to an error page
func QueryGetCoachRoster(ctx context.Context, query GetCoachRosterQuery, deps GetCoachRosterDeps) (GetCoachRosterResult, error) {
	if err := ctx.Err(); err != nil {
		return GetCoachRosterResult{}, err
	}
	complete := true

	swimmerIDs, err := deps.RoleStore.ListUserIDsByRole(ctx, domainAccount.RoleSwimmer)
	if err != nil {
		slog.Error("fetch_failed", "source", "user_roles", "error", err)
		swimmerIDs, complete = []string{}, false
	}

	var profiles []domainProfile.Profile
	if len(swimmerIDs) > 0 {
		profiles, err = deps.ProfileStore.List(ctx, profile.ListFilter{IDs: swimmerIDs})
		if err != nil {
			slog.Error("fetch_failed", "source", "profiles", "error", err)
			profiles, complete = nil, false
		}
	}

	exams, results, ok := fetchPair(ctx,
		"inbody_examinations", func(ctx context.Context) ([]domainInBody.Examination, error) {
			return deps.InBodyStore.List(ctx, inbody.ListFilter{})
		},
		"medical_results", func(ctx context.Context) ([]domainMedical.Result, error) {
			return deps.MedicalStore.List(ctx, medical.ListFilter{})
		},
	)
	complete = complete && ok

	roster := BuildRoster(profiles, swimmerIDs, exams, results)
	entries := append([]RosterEntry{}, FilterRoster(roster, query.Search)...)
	SortRoster(entries, query.Sort)

	return GetCoachRosterResult{
		Entries:   entries,
		Attention: NeedsAttention(roster),
		Summary:   Summarize(roster),
		Complete:  complete,
	}, nil
}
