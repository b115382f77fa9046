package web

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"swimhealth/internal/adapters/http/middleware"
	inbodyStore "swimhealth/internal/adapters/storage/inbody"
	medicalStore "swimhealth/internal/adapters/storage/medical"
	profileStore "swimhealth/internal/adapters/storage/profile"
	"swimhealth/internal/application/preferences"
	accountDomain "swimhealth/internal/domain/account"
	inbodyDomain "swimhealth/internal/domain/inbody"
	medicalDomain "swimhealth/internal/domain/medical"
	preferenceDomain "swimhealth/internal/domain/preference"
	profileDomain "swimhealth/internal/domain/profile"
)

// --- Mock stores ---

type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]accountDomain.Account
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return accountDomain.Account{}, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(_ context.Context, a accountDomain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

type mockRoleStore struct {
	mu    sync.Mutex
	roles map[string]accountDomain.Assignment
}

func (m *mockRoleStore) GetByUserID(_ context.Context, userID string) (accountDomain.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.roles[userID]
	if !ok {
		return accountDomain.Assignment{}, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockRoleStore) ListUserIDsByRole(_ context.Context, role accountDomain.Role) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, a := range m.roles {
		if a.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockRoleStore) Save(_ context.Context, a accountDomain.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[a.UserID] = a
	return nil
}

type mockProfileStore struct {
	mu       sync.Mutex
	profiles map[string]profileDomain.Profile
}

func (m *mockProfileStore) GetByID(_ context.Context, id string) (profileDomain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return profileDomain.Profile{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockProfileStore) GetByEmail(_ context.Context, email string) (profileDomain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return profileDomain.Profile{}, sql.ErrNoRows
}

func (m *mockProfileStore) List(_ context.Context, filter profileStore.ListFilter) ([]profileDomain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[string]bool{}
	for _, id := range filter.IDs {
		want[id] = true
	}
	var out []profileDomain.Profile
	for _, p := range m.profiles {
		if filter.IDs == nil || want[p.ID] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *mockProfileStore) Save(_ context.Context, p profileDomain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return nil
}

type mockInBodyStore struct {
	mu    sync.Mutex
	exams map[string]inbodyDomain.Examination
}

func (m *mockInBodyStore) GetByID(_ context.Context, id string) (inbodyDomain.Examination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[id]
	if !ok {
		return inbodyDomain.Examination{}, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockInBodyStore) List(_ context.Context, filter inbodyStore.ListFilter) ([]inbodyDomain.Examination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []inbodyDomain.Examination
	for _, e := range m.exams {
		if filter.SwimmerID == "" || e.SwimmerID == filter.SwimmerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExaminationDate.After(out[j].ExaminationDate) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockInBodyStore) Save(_ context.Context, e inbodyDomain.Examination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams[e.ID] = e
	return nil
}

func (m *mockInBodyStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.exams, id)
	return nil
}

type mockMedicalStore struct {
	mu      sync.Mutex
	results map[string]medicalDomain.Result
}

func (m *mockMedicalStore) GetByID(_ context.Context, id string) (medicalDomain.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[id]
	if !ok {
		return medicalDomain.Result{}, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockMedicalStore) List(_ context.Context, filter medicalStore.ListFilter) ([]medicalDomain.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []medicalDomain.Result
	for _, r := range m.results {
		if filter.SwimmerID == "" || r.SwimmerID == filter.SwimmerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExaminationDate.After(out[j].ExaminationDate) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockMedicalStore) Save(_ context.Context, r medicalDomain.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[r.ID] = r
	return nil
}

func (m *mockMedicalStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.results, id)
	return nil
}

type mockPreferenceStore struct {
	mu    sync.Mutex
	prefs map[string]preferenceDomain.Preference
}

func (m *mockPreferenceStore) List(_ context.Context) ([]preferenceDomain.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]preferenceDomain.Preference, 0, len(m.prefs))
	for _, p := range m.prefs {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPreferenceStore) Save(_ context.Context, p preferenceDomain.Preference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[p.AccountID] = p
	return nil
}

// newFullStores creates a Stores with every mock initialized.
func newFullStores() *Stores {
	return &Stores{
		AccountStore: &mockAccountStore{accounts: make(map[string]accountDomain.Account)},
		RoleStore:    &mockRoleStore{roles: make(map[string]accountDomain.Assignment)},
		ProfileStore: &mockProfileStore{profiles: make(map[string]profileDomain.Profile)},
		InBodyStore:  &mockInBodyStore{exams: make(map[string]inbodyDomain.Examination)},
		MedicalStore: &mockMedicalStore{results: make(map[string]medicalDomain.Result)},
	}
}

// setupWeb resets the package-level dependencies for one test.
func setupWeb(t *testing.T) {
	t.Helper()
	stores = newFullStores()
	sessions = middleware.NewSessionStore()
	tokens = middleware.NewTokenIssuer([]byte("test-secret-test-secret-test-sec"), time.Hour)
	settings = preferences.New(&mockPreferenceStore{prefs: make(map[string]preferenceDomain.Preference)}, preferenceDomain.Default())
	if err := settings.Init(context.Background()); err != nil {
		t.Fatalf("settings.Init: %v", err)
	}
	SetEmailSender(nil, "", "")
}

// seedAccount stores an account, its role and a profile. Password hashing is skipped
// unless password is non-empty.
func seedAccount(t *testing.T, id, name, email, password string, role accountDomain.Role) {
	t.Helper()
	ctx := context.Background()
	a := accountDomain.Account{ID: id, Email: email, CreatedAt: time.Now()}
	if password != "" {
		if err := a.SetPassword(password); err != nil {
			t.Fatalf("SetPassword: %v", err)
		}
	}
	if err := stores.AccountStore.Save(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := stores.RoleStore.Save(ctx, accountDomain.Assignment{ID: "r-" + id, UserID: id, Role: role}); err != nil {
		t.Fatal(err)
	}
	if err := stores.ProfileStore.Save(ctx, profileDomain.Profile{ID: id, Email: email, FullName: name}); err != nil {
		t.Fatal(err)
	}
}

func seedMedical(t *testing.T, id, swimmerID string, daysAgo int, status medicalDomain.Status) {
	t.Helper()
	seedReadings(t, id, swimmerID, daysAgo, status, 120, 80, 70)
}

// seedReadings stores a medical result with the given blood pressure and heart rate.
func seedReadings(t *testing.T, id, swimmerID string, daysAgo int, status medicalDomain.Status, sys, dia, hr int) {
	t.Helper()
	err := stores.MedicalStore.Save(context.Background(), medicalDomain.Result{
		ID:                     id,
		SwimmerID:              swimmerID,
		ExaminationDate:        time.Now().AddDate(0, 0, -daysAgo),
		BloodPressureSystolic:  &sys,
		BloodPressureDiastolic: &dia,
		HeartRate:              &hr,
		Status:                 status,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func seedInBody(t *testing.T, id, swimmerID string, daysAgo int, weight float64) {
	t.Helper()
	err := stores.InBodyStore.Save(context.Background(), inbodyDomain.Examination{
		ID:              id,
		SwimmerID:       swimmerID,
		ExaminationDate: time.Now().AddDate(0, 0, -daysAgo),
		Weight:          weight,
	})
	if err != nil {
		t.Fatal(err)
	}
}
