package projections

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"swimhealth/internal/adapters/storage/inbody"
	"swimhealth/internal/adapters/storage/medical"
	"swimhealth/internal/adapters/storage/profile"
	domainAccount "swimhealth/internal/domain/account"
	domainInBody "swimhealth/internal/domain/inbody"
	domainMedical "swimhealth/internal/domain/medical"
	domainProfile "swimhealth/internal/domain/profile"
)

var errBackend = errors.New("backend unavailable")

type mockProfileStore struct {
	profiles []domainProfile.Profile
	err      error
}

// GetByID returns a seeded profile by ID.
// PRE: id is non-empty
// POST: Returns the seeded profile or an error
func (m *mockProfileStore) GetByID(_ context.Context, id string) (domainProfile.Profile, error) {
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return domainProfile.Profile{}, errors.New("profile not found")
}

// List returns seeded profiles restricted to filter.IDs when set.
// PRE: filter is valid
// POST: Returns matching profiles or the configured error
func (m *mockProfileStore) List(_ context.Context, filter profile.ListFilter) ([]domainProfile.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if filter.IDs == nil {
		return m.profiles, nil
	}
	want := map[string]bool{}
	for _, id := range filter.IDs {
		want[id] = true
	}
	var out []domainProfile.Profile
	for _, p := range m.profiles {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockRoleStore struct {
	roles map[string]domainAccount.Role
	err   error
}

// GetByUserID returns the seeded role.
// PRE: userID is non-empty
// POST: Returns the assignment or an error when none is seeded
func (m *mockRoleStore) GetByUserID(_ context.Context, userID string) (domainAccount.Assignment, error) {
	r, ok := m.roles[userID]
	if !ok {
		return domainAccount.Assignment{}, errors.New("role not found")
	}
	return domainAccount.Assignment{UserID: userID, Role: r}, nil
}

// ListUserIDsByRole returns seeded user IDs holding role, sorted.
// PRE: role is valid
// POST: Returns IDs or the configured error
func (m *mockRoleStore) ListUserIDsByRole(_ context.Context, role domainAccount.Role) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := []string{}
	for id, r := range m.roles {
		if r == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type mockInBodyStore struct {
	exams []domainInBody.Examination
	err   error
	calls atomic.Int32
}

// List returns seeded examinations for the swimmer, in seeded order.
// PRE: seeded exams are newest first
// POST: Returns matching exams honouring Limit, or the configured error
func (m *mockInBodyStore) List(_ context.Context, filter inbody.ListFilter) ([]domainInBody.Examination, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	out := []domainInBody.Examination{}
	for _, e := range m.exams {
		if filter.SwimmerID == "" || e.SwimmerID == filter.SwimmerID {
			out = append(out, e)
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type mockMedicalStore struct {
	results []domainMedical.Result
	err     error
	calls   atomic.Int32
}

// List returns seeded results for the swimmer, in seeded order.
// PRE: seeded results are newest first
// POST: Returns matching results honouring Limit, or the configured error
func (m *mockMedicalStore) List(_ context.Context, filter medical.ListFilter) ([]domainMedical.Result, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	out := []domainMedical.Result{}
	for _, r := range m.results {
		if filter.SwimmerID == "" || r.SwimmerID == filter.SwimmerID {
			out = append(out, r)
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func intp(v int) *int { return &v }

func exam(id, swimmer string, d int, weight float64) domainInBody.Examination {
	return domainInBody.Examination{ID: id, SwimmerID: swimmer, ExaminationDate: day(d), Weight: weight}
}

func result(id, swimmer string, d int, status domainMedical.Status) domainMedical.Result {
	return domainMedical.Result{ID: id, SwimmerID: swimmer, ExaminationDate: day(d), Status: status}
}
