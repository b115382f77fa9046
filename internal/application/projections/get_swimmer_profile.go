package projections

import (
	"context"
	"errors"
	"fmt"

	"swimhealth/internal/adapters/storage/inbody"
	"swimhealth/internal/adapters/storage/medical"
	domainInBody "swimhealth/internal/domain/inbody"
	domainMedical "swimhealth/internal/domain/medical"
	domainProfile "swimhealth/internal/domain/profile"
)

// RecentMedicalLimit is how many medical results the profile page lists.
const RecentMedicalLimit = 5

// ErrProfileNotFound is returned when a signed-in swimmer has no profile row.
var ErrProfileNotFound = errors.New("profile not found")

// GetSwimmerProfileQuery carries query parameters.
type GetSwimmerProfileQuery struct {
	SwimmerID string
}

// GetSwimmerProfileResult carries the query result.
type GetSwimmerProfileResult struct {
	Profile       domainProfile.Profile
	LatestInBody  *domainInBody.Examination
	RecentMedical []domainMedical.Result
}

// GetSwimmerProfileDeps holds dependencies for GetSwimmerProfile.
type GetSwimmerProfileDeps struct {
	ProfileStore ProfileStore
	InBodyStore  InBodyStore
	MedicalStore MedicalStore
}

// QueryGetSwimmerProfile loads the signed-in swimmer's own profile page.
// PRE: SwimmerID is the session account
// POST: RecentMedical holds at most RecentMedicalLimit results, newest first
func QueryGetSwimmerProfile(ctx context.Context, query GetSwimmerProfileQuery, deps GetSwimmerProfileDeps) (GetSwimmerProfileResult, error) {
	p, err := deps.ProfileStore.GetByID(ctx, query.SwimmerID)
	if err != nil {
		return GetSwimmerProfileResult{}, fmt.Errorf("%w: %v", ErrProfileNotFound, err)
	}

	exams, results, _ := fetchPair(ctx,
		"inbody_examinations", func(ctx context.Context) ([]domainInBody.Examination, error) {
			return deps.InBodyStore.List(ctx, inbody.ListFilter{SwimmerID: query.SwimmerID, Limit: 1})
		},
		"medical_results", func(ctx context.Context) ([]domainMedical.Result, error) {
			return deps.MedicalStore.List(ctx, medical.ListFilter{SwimmerID: query.SwimmerID, Limit: RecentMedicalLimit})
		},
	)

	result := GetSwimmerProfileResult{Profile: p, RecentMedical: results}
	if len(exams) > 0 {
		result.LatestInBody = &exams[0]
	}
	if len(result.RecentMedical) > RecentMedicalLimit {
		result.RecentMedical = result.RecentMedical[:RecentMedicalLimit]
	}
	return result, nil
}
