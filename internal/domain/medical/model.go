package medical

import (
	"errors"
	"strings"
	"time"
)

// Reference ranges for advisory flagging. Readings outside them are abnormal.
const (
	SystolicMin  = 90
	SystolicMax  = 140
	DiastolicMin = 60
	DiastolicMax = 90
	HeartRateMin = 60
	HeartRateMax = 100
)

// Status is the clinician-assigned state stored with a result.
type Status string

const (
	StatusPending   Status = "pending"
	StatusNormal    Status = "normal"
	StatusAttention Status = "attention"
	StatusCritical  Status = "critical"
)

// Domain errors
var (
	ErrMissingSwimmer = errors.New("medical result must belong to a swimmer")
	ErrMissingDate    = errors.New("examination date is required")
	ErrInvalidReading = errors.New("readings must be positive when present")
	ErrInvalidStatus  = errors.New("status must be one of: pending, normal, attention, critical")
	ErrDiastolicAbove = errors.New("diastolic pressure cannot exceed systolic pressure")
)

// ParseStatus maps a stored value to a Status. Absent or unknown values are pending.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusNormal:
		return StatusNormal
	case StatusAttention:
		return StatusAttention
	case StatusCritical:
		return StatusCritical
	}
	return StatusPending
}

// ParseStatusStrict is ParseStatus for user input: empty is pending, unknown is an error.
func ParseStatusStrict(s string) (Status, error) {
	if strings.TrimSpace(s) == "" {
		return StatusPending, nil
	}
	st := ParseStatus(s)
	if st == StatusPending && Status(strings.ToLower(strings.TrimSpace(s))) != StatusPending {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// NeedsAttention reports whether the stored status asks for coach follow-up.
func (s Status) NeedsAttention() bool {
	return s == StatusAttention || s == StatusCritical
}

// Label is the display form of the status.
func (s Status) Label() string {
	switch s {
	case StatusNormal:
		return "Normal"
	case StatusAttention:
		return "Attention"
	case StatusCritical:
		return "Critical"
	}
	return "Pending"
}

// Result is one clinical snapshot. Nil readings were not measured.
type Result struct {
	ID                     string
	SwimmerID              string
	ExaminationDate        time.Time
	BloodPressureSystolic  *int
	BloodPressureDiastolic *int
	HeartRate              *int
	Notes                  string
	Status                 Status
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Validate checks if the Result has valid data.
// PRE: Result struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Result) Validate() error {
	if r.SwimmerID == "" {
		return ErrMissingSwimmer
	}
	if r.ExaminationDate.IsZero() {
		return ErrMissingDate
	}
	for _, v := range []*int{r.BloodPressureSystolic, r.BloodPressureDiastolic, r.HeartRate} {
		if v != nil && *v <= 0 {
			return ErrInvalidReading
		}
	}
	if r.BloodPressureSystolic != nil && r.BloodPressureDiastolic != nil && *r.BloodPressureDiastolic > *r.BloodPressureSystolic {
		return ErrDiastolicAbove
	}
	switch r.Status {
	case StatusPending, StatusNormal, StatusAttention, StatusCritical:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// IsAbnormalBloodPressure reports an out-of-range pressure.
// Returns false unless both values are present.
func IsAbnormalBloodPressure(systolic, diastolic *int) bool {
	if systolic == nil || diastolic == nil {
		return false
	}
	s, d := *systolic, *diastolic
	return s > SystolicMax || s < SystolicMin || d > DiastolicMax || d < DiastolicMin
}

// IsAbnormalHeartRate reports an out-of-range heart rate. Returns false when absent.
func IsAbnormalHeartRate(heartRate *int) bool {
	if heartRate == nil {
		return false
	}
	return *heartRate > HeartRateMax || *heartRate < HeartRateMin
}

// BloodPressureAbnormal applies IsAbnormalBloodPressure to the result.
func (r *Result) BloodPressureAbnormal() bool {
	return IsAbnormalBloodPressure(r.BloodPressureSystolic, r.BloodPressureDiastolic)
}

// HeartRateAbnormal applies IsAbnormalHeartRate to the result.
func (r *Result) HeartRateAbnormal() bool {
	return IsAbnormalHeartRate(r.HeartRate)
}

// ReadingsAbnormal is the advisory flag computed from raw readings.
// It is independent of the stored Status and never changes it.
func (r *Result) ReadingsAbnormal() bool {
	return r.BloodPressureAbnormal() || r.HeartRateAbnormal()
}

// StatusDisagrees reports a stored normal status alongside abnormal readings.
func (r *Result) StatusDisagrees() bool {
	return r.Status == StatusNormal && r.ReadingsAbnormal()
}
