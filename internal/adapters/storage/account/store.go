package account

import (
	"context"

	domain "swimhealth/internal/domain/account"
)

// Store persists accounts. Lookups by email ignore case.
// Save reports a second account with the same email as domain.ErrEmailTaken.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, a domain.Account) error
	Delete(ctx context.Context, id string) error
}
