package inbody

import (
	"errors"
	"math"
	"time"
)

// Domain errors
var (
	ErrMissingSwimmer = errors.New("examination must belong to a swimmer")
	ErrMissingDate    = errors.New("examination date is required")
	ErrInvalidWeight  = errors.New("weight must be greater than zero")
	ErrNegativeValue  = errors.New("measurements cannot be negative")
	ErrPercentRange   = errors.New("percentages must be between 0 and 100")
	ErrNotFinite      = errors.New("measurements must be finite numbers")
)

// Examination is one body-composition snapshot.
// Weight is always measured; every other nil field was not measured.
type Examination struct {
	ID                  string
	SwimmerID           string
	ExaminationDate     time.Time
	Weight              float64
	Height              *float64
	MuscleMass          *float64
	BodyFatPercentage   *float64
	BodyWaterPercentage *float64
	BoneMass            *float64
	BMI                 *float64
	BasalMetabolicRate  *float64
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks if the Examination has valid data.
// PRE: Examination struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Examination) Validate() error {
	if e.SwimmerID == "" {
		return ErrMissingSwimmer
	}
	if e.ExaminationDate.IsZero() {
		return ErrMissingDate
	}
	if !finite(e.Weight) {
		return ErrNotFinite
	}
	if e.Weight <= 0 {
		return ErrInvalidWeight
	}
	for _, v := range []*float64{e.Height, e.MuscleMass, e.BodyFatPercentage, e.BodyWaterPercentage, e.BoneMass, e.BMI, e.BasalMetabolicRate} {
		if v != nil && !finite(*v) {
			return ErrNotFinite
		}
	}
	for _, v := range []*float64{e.Height, e.MuscleMass, e.BoneMass, e.BMI, e.BasalMetabolicRate} {
		if v != nil && *v < 0 {
			return ErrNegativeValue
		}
	}
	for _, v := range []*float64{e.BodyFatPercentage, e.BodyWaterPercentage} {
		if v != nil && (*v < 0 || *v > 100) {
			return ErrPercentRange
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ComputedBMI returns the stored BMI, or derives it from weight and height (cm)
// when only those are present. Returns nil when neither is possible.
func (e *Examination) ComputedBMI() *float64 {
	if e.BMI != nil {
		return e.BMI
	}
	if e.Height == nil || *e.Height <= 0 {
		return nil
	}
	m := *e.Height / 100
	bmi := e.Weight / (m * m)
	return &bmi
}
