// Package preferences holds the process-wide view of account display settings.
package preferences

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domain "swimhealth/internal/domain/preference"
)

// Store is the persistence needed by Settings.
type Store interface {
	List(ctx context.Context) ([]domain.Preference, error)
	Save(ctx context.Context, value domain.Preference) error
}

// Settings caches every account's preference in memory.
// Reads never touch the database; writes persist first, then update the cache.
type Settings struct {
	store    Store
	fallback domain.Preference
	now      func() time.Time

	mu    sync.RWMutex
	prefs map[string]domain.Preference
}

// New creates Settings. fallback is returned for accounts that never chose;
// an invalid fallback is replaced by domain.Default().
func New(store Store, fallback domain.Preference) *Settings {
	if !domain.ValidLanguage(fallback.Language) || !domain.ValidTheme(fallback.Theme) {
		fallback = domain.Default()
	}
	fallback.AccountID = ""
	return &Settings{
		store:    store,
		fallback: fallback,
		now:      time.Now,
		prefs:    make(map[string]domain.Preference),
	}
}

// Init loads persisted preferences once at start-up.
// PRE: database is migrated
// POST: Get reflects every stored row
func (s *Settings) Init(ctx context.Context) error {
	stored, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	loaded := make(map[string]domain.Preference, len(stored))
	for _, p := range stored {
		loaded[p.AccountID] = p
	}
	s.mu.Lock()
	s.prefs = loaded
	s.mu.Unlock()
	slog.Info("preferences_loaded", "count", len(loaded))
	return nil
}

// Set validates and persists pref for accountID, then updates the cache.
// PRE: accountID is non-empty
// POST: Get(accountID) returns pref; the cache is unchanged when the save fails
func (s *Settings) Set(ctx context.Context, accountID string, pref domain.Preference) (domain.Preference, error) {
	pref.AccountID = accountID
	pref.UpdatedAt = s.now().UTC()
	if err := pref.Validate(); err != nil {
		return domain.Preference{}, err
	}
	if err := s.store.Save(ctx, pref); err != nil {
		return domain.Preference{}, fmt.Errorf("save preference: %w", err)
	}
	s.mu.Lock()
	s.prefs[accountID] = pref
	s.mu.Unlock()
	return pref, nil
}

// Get returns the account's preference, or the fallback.
func (s *Settings) Get(accountID string) domain.Preference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prefs[accountID]; ok && accountID != "" {
		return p
	}
	return s.fallback
}

// Default returns the preference used for anonymous visitors.
func (s *Settings) Default() domain.Preference {
	return s.fallback
}
