package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"swimhealth/internal/domain/account"
	"swimhealth/internal/domain/inbody"
	"swimhealth/internal/domain/medical"
	"swimhealth/internal/domain/signup"
)

// ErrUnknownSwimmer is returned when records target an account that is not a swimmer.
var ErrUnknownSwimmer = errors.New("target is not a swimmer")

// Field messages for record entry.
const (
	MsgDateRequired  = "Examination date is required"
	MsgDateFuture    = "Examination date cannot be in the future"
	MsgNumber        = "Enter a number"
	MsgWeight        = "Weight must be greater than zero"
	MsgNotNegative   = "Cannot be negative"
	MsgPercent       = "Must be between 0 and 100"
	MsgWholeNumber   = "Enter a whole number"
	MsgReading       = "Must be greater than zero"
	MsgDiastolicHigh = "Diastolic cannot exceed systolic"
	MsgStatus        = "Choose a valid status"
)

// InBodyStoreForRecord defines the store interface needed by RecordInBody.
type InBodyStoreForRecord interface {
	Save(ctx context.Context, e inbody.Examination) error
}

// MedicalStoreForRecord defines the store interface needed by RecordMedical.
type MedicalStoreForRecord interface {
	Save(ctx context.Context, r medical.Result) error
}

// RecordInBodyInput carries the raw form values; blank optional fields mean not measured.
type RecordInBodyInput struct {
	SwimmerID           string
	RecordedBy          string
	ExaminationDate     string
	Weight              string
	Height              string
	MuscleMass          string
	BodyFatPercentage   string
	BodyWaterPercentage string
	BoneMass            string
	BMI                 string
	BasalMetabolicRate  string
	Notes               string
}

// RecordInBodyDeps holds dependencies for RecordInBody.
type RecordInBodyDeps struct {
	RoleStore   RoleLookup
	InBodyStore InBodyStoreForRecord
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteRecordInBody creates one in-body examination.
// PRE: caller holds the coach role
// POST: a new row exists; existing rows are never changed
func ExecuteRecordInBody(ctx context.Context, input RecordInBodyInput, deps RecordInBodyDeps) (inbody.Examination, error) {
	if err := requireSwimmer(ctx, deps.RoleStore, input.SwimmerID); err != nil {
		return inbody.Examination{}, err
	}
	now := deps.Now()
	errs := signup.FieldErrors{}

	e := inbody.Examination{
		ID:        deps.GenerateID(),
		SwimmerID: input.SwimmerID,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.ExaminationDate = parseExamDate(errs, "examination_date", input.ExaminationDate, now)

	if w := parseOptionalFloat(errs, "weight", input.Weight); w == nil || *w <= 0 {
		if errs.Get("weight") == "" {
			errs["weight"] = MsgWeight
		}
	} else {
		e.Weight = *w
	}
	e.Height = nonNegative(errs, "height", parseOptionalFloat(errs, "height", input.Height))
	e.MuscleMass = nonNegative(errs, "muscle_mass", parseOptionalFloat(errs, "muscle_mass", input.MuscleMass))
	e.BodyFatPercentage = percent(errs, "body_fat_percentage", parseOptionalFloat(errs, "body_fat_percentage", input.BodyFatPercentage))
	e.BodyWaterPercentage = percent(errs, "body_water_percentage", parseOptionalFloat(errs, "body_water_percentage", input.BodyWaterPercentage))
	e.BoneMass = nonNegative(errs, "bone_mass", parseOptionalFloat(errs, "bone_mass", input.BoneMass))
	e.BMI = nonNegative(errs, "bmi", parseOptionalFloat(errs, "bmi", input.BMI))
	e.BasalMetabolicRate = nonNegative(errs, "basal_metabolic_rate", parseOptionalFloat(errs, "basal_metabolic_rate", input.BasalMetabolicRate))

	if !errs.Empty() {
		return inbody.Examination{}, &ValidationError{Fields: errs}
	}
	if e.BMI == nil {
		if bmi := e.ComputedBMI(); bmi != nil && !math.IsInf(*bmi, 0) {
			rounded := math.Round(*bmi*10) / 10
			e.BMI = &rounded
		}
	}
	if err := e.Validate(); err != nil {
		return inbody.Examination{}, err
	}
	if err := deps.InBodyStore.Save(ctx, e); err != nil {
		return inbody.Examination{}, fmt.Errorf("save inbody examination: %w", err)
	}

	slog.Info("record_event", "event", "inbody_recorded", "swimmer_id", e.SwimmerID, "examination_id", e.ID, "recorded_by", input.RecordedBy)
	return e, nil
}

// RecordMedicalInput carries the raw form values; blank readings mean not measured.
type RecordMedicalInput struct {
	SwimmerID              string
	RecordedBy             string
	ExaminationDate        string
	BloodPressureSystolic  string
	BloodPressureDiastolic string
	HeartRate              string
	Status                 string
	Notes                  string
}

// RecordMedicalDeps holds dependencies for RecordMedical.
type RecordMedicalDeps struct {
	RoleStore    RoleLookup
	MedicalStore MedicalStoreForRecord
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRecordMedical creates one medical result.
// PRE: caller holds the coach role
// POST: a new row exists with a status from the closed set; blank status is pending
func ExecuteRecordMedical(ctx context.Context, input RecordMedicalInput, deps RecordMedicalDeps) (medical.Result, error) {
	if err := requireSwimmer(ctx, deps.RoleStore, input.SwimmerID); err != nil {
		return medical.Result{}, err
	}
	now := deps.Now()
	errs := signup.FieldErrors{}

	r := medical.Result{
		ID:        deps.GenerateID(),
		SwimmerID: input.SwimmerID,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.ExaminationDate = parseExamDate(errs, "examination_date", input.ExaminationDate, now)
	r.BloodPressureSystolic = parseReading(errs, "blood_pressure_systolic", input.BloodPressureSystolic)
	r.BloodPressureDiastolic = parseReading(errs, "blood_pressure_diastolic", input.BloodPressureDiastolic)
	r.HeartRate = parseReading(errs, "heart_rate", input.HeartRate)

	status, err := medical.ParseStatusStrict(input.Status)
	if err != nil {
		errs["status"] = MsgStatus
	}
	r.Status = status

	if errs.Empty() && r.BloodPressureSystolic != nil && r.BloodPressureDiastolic != nil &&
		*r.BloodPressureDiastolic > *r.BloodPressureSystolic {
		errs["blood_pressure_diastolic"] = MsgDiastolicHigh
	}
	if !errs.Empty() {
		return medical.Result{}, &ValidationError{Fields: errs}
	}
	if err := r.Validate(); err != nil {
		return medical.Result{}, err
	}
	if err := deps.MedicalStore.Save(ctx, r); err != nil {
		return medical.Result{}, fmt.Errorf("save medical result: %w", err)
	}

	slog.Info("record_event", "event", "medical_recorded", "swimmer_id", r.SwimmerID, "result_id", r.ID,
		"status", string(r.Status), "readings_abnormal", r.ReadingsAbnormal(), "recorded_by", input.RecordedBy)
	return r, nil
}

func requireSwimmer(ctx context.Context, roles RoleLookup, id string) error {
	if id == "" {
		return ErrUnknownSwimmer
	}
	a, err := roles.GetByUserID(ctx, id)
	if err != nil || a.Role != account.RoleSwimmer {
		return ErrUnknownSwimmer
	}
	return nil
}

func parseExamDate(errs signup.FieldErrors, field, raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs[field] = MsgDateRequired
		return time.Time{}
	}
	d, err := time.Parse(signup.DateLayout, raw)
	if err != nil {
		errs[field] = MsgDateRequired
		return time.Time{}
	}
	if d.After(now) {
		errs[field] = MsgDateFuture
	}
	return d
}

func parseOptionalFloat(errs signup.FieldErrors, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		errs[field] = MsgNumber
		return nil
	}
	return &v
}

func nonNegative(errs signup.FieldErrors, field string, v *float64) *float64 {
	if v != nil && *v < 0 {
		errs[field] = MsgNotNegative
	}
	return v
}

func percent(errs signup.FieldErrors, field string, v *float64) *float64 {
	if v != nil && (*v < 0 || *v > 100) {
		errs[field] = MsgPercent
	}
	return v
}

func parseReading(errs signup.FieldErrors, field, raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs[field] = MsgWholeNumber
		return nil
	}
	if v <= 0 {
		errs[field] = MsgReading
	}
	return &v
}
