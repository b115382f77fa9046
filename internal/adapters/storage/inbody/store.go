package inbody

import (
	"context"

	domain "swimhealth/internal/domain/inbody"
)

// Store persists InBody examinations.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Examination, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Examination, error)
	Save(ctx context.Context, value domain.Examination) error
	Delete(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
// Results are always newest examination first. Limit <= 0 means no limit.
type ListFilter struct {
	SwimmerID string
	Limit     int
}
