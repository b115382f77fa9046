package role

import (
	"context"
	"database/sql"
	"fmt"

	"swimhealth/internal/adapters/storage"
	domain "swimhealth/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new RoleStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUserID returns the role assignment of an account.
// PRE: userID is non-empty
// POST: Returns the assignment or an error if the account has no role
func (s *SQLiteStore) GetByUserID(ctx context.Context, userID string) (domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, user_id, role, created_at FROM user_roles WHERE user_id = ?", userID)

	var a domain.Assignment
	var role, createdAt string
	err := row.Scan(&a.ID, &a.UserID, &role, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Assignment{}, fmt.Errorf("role not found: %w", err)
	}
	if err != nil {
		return domain.Assignment{}, err
	}
	a.Role, err = domain.ParseRole(role)
	if err != nil {
		return domain.Assignment{}, err
	}
	a.CreatedAt, _ = storage.ParseTime(createdAt)
	return a, nil
}

// ListUserIDsByRole returns the IDs of every account holding role, oldest first.
// PRE: role is valid
// POST: Returns IDs; empty slice when nobody holds the role
func (s *SQLiteStore) ListUserIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM user_roles WHERE role = ? ORDER BY created_at, user_id", role.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Save assigns a role. Saving again for the same user replaces the role.
// PRE: value.Role is valid
// POST: exactly one user_roles row exists for value.UserID
func (s *SQLiteStore) Save(ctx context.Context, value domain.Assignment) error {
	if !value.Role.Valid() {
		return domain.ErrInvalidRole
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_roles (id, user_id, role, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET role=excluded.role`,
		value.ID, value.UserID, value.Role.String(), storage.FormatTime(value.CreatedAt),
	)
	return err
}
