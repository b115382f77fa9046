package projections

import (
	"context"

	"swimhealth/internal/adapters/storage/inbody"
	"swimhealth/internal/adapters/storage/medical"
	"swimhealth/internal/adapters/storage/profile"
	domainAccount "swimhealth/internal/domain/account"
	domainInBody "swimhealth/internal/domain/inbody"
	domainMedical "swimhealth/internal/domain/medical"
	domainProfile "swimhealth/internal/domain/profile"
)

// ProfileStore interface for profile queries.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (domainProfile.Profile, error)
	List(ctx context.Context, filter profile.ListFilter) ([]domainProfile.Profile, error)
}

// RoleStore interface for role assignment queries.
type RoleStore interface {
	GetByUserID(ctx context.Context, userID string) (domainAccount.Assignment, error)
	ListUserIDsByRole(ctx context.Context, role domainAccount.Role) ([]string, error)
}

// InBodyStore interface for in-body examination queries.
type InBodyStore interface {
	List(ctx context.Context, filter inbody.ListFilter) ([]domainInBody.Examination, error)
}

// MedicalStore interface for medical result queries.
type MedicalStore interface {
	List(ctx context.Context, filter medical.ListFilter) ([]domainMedical.Result, error)
}
