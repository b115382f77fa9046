package inbody_test

import (
	"math"
	"testing"
	"time"

	"swimhealth/internal/domain/inbody"
)

func floatPtr(v float64) *float64 { return &v }

// TestExamination_Validate tests validation of Examination.
func TestExamination_Validate(t *testing.T) {
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		exam    inbody.Examination
		wantErr error
	}{
		{"weight only", inbody.Examination{SwimmerID: "s1", ExaminationDate: date, Weight: 70}, nil},
		{"no swimmer", inbody.Examination{ExaminationDate: date, Weight: 70}, inbody.ErrMissingSwimmer},
		{"no date", inbody.Examination{SwimmerID: "s1", Weight: 70}, inbody.ErrMissingDate},
		{"zero weight", inbody.Examination{SwimmerID: "s1", ExaminationDate: date}, inbody.ErrInvalidWeight},
		{"negative muscle", inbody.Examination{SwimmerID: "s1", ExaminationDate: date, Weight: 70, MuscleMass: floatPtr(-1)}, inbody.ErrNegativeValue},
		{"NaN weight", inbody.Examination{SwimmerID: "s1", ExaminationDate: date, Weight: math.NaN()}, inbody.ErrNotFinite},
		{"Inf weight", inbody.Examination{SwimmerID: "s1", ExaminationDate: date, Weight: math.Inf(1)}, inbody.ErrNotFinite},
		{"NaN fat", inbody.Examination{SwimmerID: "s1", ExaminationDate: date, Weight: 70, BodyFatPercentage: floatPtr(math.NaN())}, inbody.ErrNotFinite},
		{"Inf BMI", inbody.Examination{SwimmerID: "s1", ExaminationDate: date, Weight: 70, BMI: floatPtr(math.Inf(1))}, inbody.ErrNotFinite},
		{"fat over 100", inbody.Examination{SwimmerID: "s1", ExaminationDate: date, Weight: 70, BodyFatPercentage: floatPtr(101)}, inbody.ErrPercentRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.exam.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestExamination_ComputedBMI prefers the stored value and derives otherwise.
func TestExamination_ComputedBMI(t *testing.T) {
	e := inbody.Examination{Weight: 81, Height: floatPtr(180)}
	got := e.ComputedBMI()
	if got == nil || math.Abs(*got-25) > 1e-9 {
		t.Fatalf("ComputedBMI = %v, want 25", got)
	}

	e.BMI = floatPtr(22.5)
	if got := e.ComputedBMI(); got == nil || *got != 22.5 {
		t.Errorf("stored BMI not preferred: %v", got)
	}

	if got := (&inbody.Examination{Weight: 70}).ComputedBMI(); got != nil {
		t.Errorf("ComputedBMI without height = %v, want nil", *got)
	}
}
