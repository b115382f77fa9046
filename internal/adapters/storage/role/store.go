package role

import (
	"context"

	domain "swimhealth/internal/domain/account"
)

// Store persists role assignments. Each account holds at most one role.
type Store interface {
	GetByUserID(ctx context.Context, userID string) (domain.Assignment, error)
	ListUserIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
	Save(ctx context.Context, value domain.Assignment) error
}
