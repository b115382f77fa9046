package profile

import (
	"context"

	domain "swimhealth/internal/domain/profile"
)

// Store persists Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
}

// ListFilter carries filtering parameters for List operations.
// A nil IDs slice lists every profile; an empty non-nil slice lists none.
type ListFilter struct {
	IDs []string
}
