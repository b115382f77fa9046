package projections

import (
	"context"
	"errors"
	"fmt"

	"swimhealth/internal/adapters/storage/inbody"
	"swimhealth/internal/adapters/storage/medical"
	domainAccount "swimhealth/internal/domain/account"
	domainInBody "swimhealth/internal/domain/inbody"
	domainMedical "swimhealth/internal/domain/medical"
	domainProfile "swimhealth/internal/domain/profile"
)

// ErrSwimmerNotFound is returned when the id does not name a swimmer.
var ErrSwimmerNotFound = errors.New("swimmer not found")

// GetSwimmerDetailQuery carries query parameters.
type GetSwimmerDetailQuery struct {
	SwimmerID string
}

// GetSwimmerDetailResult carries the query result.
type GetSwimmerDetailResult struct {
	Profile  domainProfile.Profile
	InBody   []domainInBody.Examination
	Medical  []domainMedical.Result
	Complete bool
}

// GetSwimmerDetailDeps holds dependencies for GetSwimmerDetail.
type GetSwimmerDetailDeps struct {
	ProfileStore ProfileStore
	RoleStore    RoleStore
	InBodyStore  InBodyStore
	MedicalStore MedicalStore
}

// QueryGetSwimmerDetail loads the full history of one swimmer for a coach.
// PRE: caller holds the coach role
// POST: both histories are newest first; ErrSwimmerNotFound when the id is not a swimmer
func QueryGetSwimmerDetail(ctx context.Context, query GetSwimmerDetailQuery, deps GetSwimmerDetailDeps) (GetSwimmerDetailResult, error) {
	if query.SwimmerID == "" {
		return GetSwimmerDetailResult{}, ErrSwimmerNotFound
	}
	assignment, err := deps.RoleStore.GetByUserID(ctx, query.SwimmerID)
	if err != nil || assignment.Role != domainAccount.RoleSwimmer {
		return GetSwimmerDetailResult{}, ErrSwimmerNotFound
	}
	p, err := deps.ProfileStore.GetByID(ctx, query.SwimmerID)
	if err != nil {
		return GetSwimmerDetailResult{}, fmt.Errorf("%w: %v", ErrSwimmerNotFound, err)
	}

	exams, results, ok := fetchPair(ctx,
		"inbody_examinations", func(ctx context.Context) ([]domainInBody.Examination, error) {
			return deps.InBodyStore.List(ctx, inbody.ListFilter{SwimmerID: query.SwimmerID})
		},
		"medical_results", func(ctx context.Context) ([]domainMedical.Result, error) {
			return deps.MedicalStore.List(ctx, medical.ListFilter{SwimmerID: query.SwimmerID})
		},
	)

	return GetSwimmerDetailResult{
		Profile:  p,
		InBody:   exams,
		Medical:  results,
		Complete: ok,
	}, nil
}
