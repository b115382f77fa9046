package preference

import (
	"context"

	domain "swimhealth/internal/domain/preference"
)

// Store persists per-account display preferences.
type Store interface {
	Get(ctx context.Context, accountID string) (domain.Preference, error)
	List(ctx context.Context) ([]domain.Preference, error)
	Save(ctx context.Context, value domain.Preference) error
}
