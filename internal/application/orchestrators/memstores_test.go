package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	emailAdapter "swimhealth/internal/adapters/email"
	"swimhealth/internal/domain/account"
	"swimhealth/internal/domain/inbody"
	"swimhealth/internal/domain/medical"
	"swimhealth/internal/domain/profile"
)

// --- in-memory test doubles ---

type memAccountStore struct {
	accounts map[string]account.Account // keyed by lower-case email
	saveErr  error
	deleted  []string
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{accounts: make(map[string]account.Account)}
}

// GetByEmail retrieves an account by email from memory.
// PRE: email is non-empty
// POST: returns account or error if not found
func (s *memAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return account.Account{}, fmt.Errorf("account not found")
	}
	return a, nil
}

// Save persists an account in memory.
// PRE: account has valid email
// POST: account is stored unless saveErr is set
func (s *memAccountStore) Save(_ context.Context, a account.Account) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.accounts[strings.ToLower(a.Email)] = a
	return nil
}

// Delete removes an account by ID.
// PRE: id is non-empty
// POST: account no longer stored
func (s *memAccountStore) Delete(_ context.Context, id string) error {
	for k, a := range s.accounts {
		if a.ID == id {
			delete(s.accounts, k)
		}
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type memRoleStore struct {
	roles   map[string]account.Assignment
	saveErr error
}

func newMemRoleStore() *memRoleStore {
	return &memRoleStore{roles: make(map[string]account.Assignment)}
}

// GetByUserID returns the stored assignment.
// PRE: userID is non-empty
// POST: returns assignment or error if none
func (s *memRoleStore) GetByUserID(_ context.Context, userID string) (account.Assignment, error) {
	a, ok := s.roles[userID]
	if !ok {
		return account.Assignment{}, errors.New("role not found")
	}
	return a, nil
}

// Save stores the assignment, replacing any previous role.
// PRE: a.Role is valid
// POST: one assignment per user
func (s *memRoleStore) Save(_ context.Context, a account.Assignment) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.roles[a.UserID] = a
	return nil
}

type memProfileStore struct {
	profiles map[string]profile.Profile
	saveErr  error
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[string]profile.Profile)}
}

// Save stores a profile in memory.
// PRE: p has been validated
// POST: profile stored unless saveErr is set
func (s *memProfileStore) Save(_ context.Context, p profile.Profile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.profiles[p.ID] = p
	return nil
}

type memInBodyStore struct {
	exams []inbody.Examination
}

// Save appends an examination.
// PRE: e has been validated
// POST: e is stored
func (s *memInBodyStore) Save(_ context.Context, e inbody.Examination) error {
	s.exams = append(s.exams, e)
	return nil
}

type memMedicalStore struct {
	results []medical.Result
}

// Save appends a result.
// PRE: r has been validated
// POST: r is stored
func (s *memMedicalStore) Save(_ context.Context, r medical.Result) error {
	s.results = append(s.results, r)
	return nil
}

type captureSender struct {
	mu   sync.Mutex
	sent []emailAdapter.SendRequest
	err  error
}

// Send records the request.
// PRE: req has recipients
// POST: req captured; returns configured error
func (s *captureSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, req)
	if s.err != nil {
		return emailAdapter.SendResult{}, s.err
	}
	return emailAdapter.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type signUpFixture struct {
	accounts *memAccountStore
	roles    *memRoleStore
	profiles *memProfileStore
	sender   *captureSender
	deps     SignUpDeps
}

func newSignUpFixture() *signUpFixture {
	f := &signUpFixture{
		accounts: newMemAccountStore(),
		roles:    newMemRoleStore(),
		profiles: newMemProfileStore(),
		sender:   &captureSender{},
	}
	f.deps = SignUpDeps{
		AccountStore: f.accounts,
		RoleStore:    f.roles,
		ProfileStore: f.profiles,
		EmailSender:  f.sender,
		FromAddress:  "SwimHealth <noreply@swimhealth.test>",
		GenerateID:   sequentialIDs(),
		Now:          func() time.Time { return fixedNow },
	}
	return f
}
