package projections

import (
	"context"

	"swimhealth/internal/adapters/storage/inbody"
	"swimhealth/internal/adapters/storage/medical"
	domainInBody "swimhealth/internal/domain/inbody"
	domainMedical "swimhealth/internal/domain/medical"
)

// GetSwimmerExaminationsQuery carries query parameters.
type GetSwimmerExaminationsQuery struct {
	SwimmerID string
}

// GetSwimmerExaminationsResult carries the query result.
type GetSwimmerExaminationsResult struct {
	InBody        []domainInBody.Examination
	Medical       []domainMedical.Result
	LatestInBody  *domainInBody.Examination
	LatestMedical *domainMedical.Result
	Complete      bool
}

// GetSwimmerExaminationsDeps holds dependencies for GetSwimmerExaminations.
type GetSwimmerExaminationsDeps struct {
	InBodyStore  InBodyStore
	MedicalStore MedicalStore
}

// QueryGetSwimmerExaminations loads the swimmer's own examination history.
// PRE: SwimmerID is the session account
// POST: Latest pointers are the head of each newest-first list, nil when empty
func QueryGetSwimmerExaminations(ctx context.Context, query GetSwimmerExaminationsQuery, deps GetSwimmerExaminationsDeps) (GetSwimmerExaminationsResult, error) {
	if err := ctx.Err(); err != nil {
		return GetSwimmerExaminationsResult{}, err
	}
	exams, results, ok := fetchPair(ctx,
		"inbody_examinations", func(ctx context.Context) ([]domainInBody.Examination, error) {
			return deps.InBodyStore.List(ctx, inbody.ListFilter{SwimmerID: query.SwimmerID})
		},
		"medical_results", func(ctx context.Context) ([]domainMedical.Result, error) {
			return deps.MedicalStore.List(ctx, medical.ListFilter{SwimmerID: query.SwimmerID})
		},
	)

	result := GetSwimmerExaminationsResult{InBody: exams, Medical: results, Complete: ok}
	if len(exams) > 0 {
		result.LatestInBody = &exams[0]
	}
	if len(results) > 0 {
		result.LatestMedical = &results[0]
	}
	return result, nil
}
