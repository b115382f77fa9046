package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"swimhealth/internal/adapters/storage"
	domain "swimhealth/internal/domain/account"
)

const (
	accountColumns = "id, email, password_hash, created_at, failed_logins, locked_until"

	// Upsert keeps created_at from the first insert.
	upsertAccount = `INSERT INTO account (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash,
			failed_logins = excluded.failed_logins,
			locked_until = excluded.locked_until`
)

// SQLiteStore implements Store on the account table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates an account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID returns the account with id.
// POST: a missing row is reported as a wrapped sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetByEmail returns the account registered under email, ignoring case and
// surrounding whitespace.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getOne(ctx, "email = ? COLLATE NOCASE", strings.TrimSpace(email))
}

func (s *SQLiteStore) getOne(ctx context.Context, where string, arg any) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE "+where, arg)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return a, err
}

// Save inserts a new account or updates credentials and lockout state of an
// existing one.
// PRE: a.Validate() succeeded
// POST: the row matches a; an email owned by another account yields domain.ErrEmailTaken
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	_, err := s.db.ExecContext(ctx, upsertAccount,
		a.ID,
		a.Email,
		a.PasswordHash,
		storage.FormatTime(a.CreatedAt),
		a.FailedLogins,
		storage.NullableTime(a.LockedUntil),
	)
	if err != nil && isUniqueEmailViolation(err) {
		return fmt.Errorf("save account %s: %w", a.ID, domain.ErrEmailTaken)
	}
	return err
}

// Delete removes an account. Role assignment, profile, examinations and
// preferences go with it through ON DELETE CASCADE.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

func isUniqueEmailViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "account.email")
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		a           domain.Account
		createdAt   string
		lockedUntil sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &createdAt, &a.FailedLogins, &lockedUntil); err != nil {
		return domain.Account{}, err
	}
	var err error
	if a.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Account{}, fmt.Errorf("account %s created_at: %w", a.ID, err)
	}
	a.LockedUntil = storage.ParseNullTime(lockedUntil)
	return a, nil
}
