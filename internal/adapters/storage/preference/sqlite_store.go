package preference

import (
	"context"
	"database/sql"
	"fmt"

	"swimhealth/internal/adapters/storage"
	domain "swimhealth/internal/domain/preference"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PreferenceStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the stored preference for an account.
// PRE: accountID is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) Get(ctx context.Context, accountID string) (domain.Preference, error) {
	row := s.db.QueryRowContext(ctx, "SELECT account_id, language, theme, updated_at FROM preference WHERE account_id = ?", accountID)
	p, err := scanPreference(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Preference{}, fmt.Errorf("preference not found: %w", err)
	}
	return p, err
}

// List returns every stored preference.
// PRE: none
// POST: Returns all rows ordered by account
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Preference, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT account_id, language, theme, updated_at FROM preference ORDER BY account_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Preference
	for rows.Next() {
		p, err := scanPreference(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// Save upserts the preference of one account.
// PRE: value has been validated
// POST: row for value.AccountID reflects value
func (s *SQLiteStore) Save(ctx context.Context, value domain.Preference) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preference (account_id, language, theme, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET language=excluded.language, theme=excluded.theme, updated_at=excluded.updated_at`,
		value.AccountID, value.Language, value.Theme, storage.FormatTime(value.UpdatedAt),
	)
	return err
}

func scanPreference(scan func(dest ...any) error) (domain.Preference, error) {
	var p domain.Preference
	var updatedAt string
	if err := scan(&p.AccountID, &p.Language, &p.Theme, &updatedAt); err != nil {
		return domain.Preference{}, err
	}
	p.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return p, nil
}
