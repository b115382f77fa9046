package medical

import (
	"context"

	domain "swimhealth/internal/domain/medical"
)

// Store persists medical results.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Result, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Result, error)
	Save(ctx context.Context, value domain.Result) error
	Delete(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
// Results are always newest first. Limit <= 0 means no limit.
type ListFilter struct {
	SwimmerID string
	Limit     int
}
