package medical_test

import (
	"testing"
	"time"

	"swimhealth/internal/domain/medical"
)

func intPtr(v int) *int { return &v }

// TestIsAbnormalBloodPressure_MissingValue verifies absent readings never flag.
func TestIsAbnormalBloodPressure_MissingValue(t *testing.T) {
	for _, v := range []int{0, 50, 120, 200} {
		if medical.IsAbnormalBloodPressure(nil, intPtr(v)) {
			t.Errorf("systolic nil, diastolic %d flagged", v)
		}
		if medical.IsAbnormalBloodPressure(intPtr(v), nil) {
			t.Errorf("systolic %d, diastolic nil flagged", v)
		}
	}
	if medical.IsAbnormalBloodPressure(nil, nil) {
		t.Error("both nil flagged")
	}
}

// TestIsAbnormalBloodPressure_Grid walks the full grid around both ranges.
func TestIsAbnormalBloodPressure_Grid(t *testing.T) {
	for s := 60; s <= 200; s++ {
		for d := 30; d <= 130; d++ {
			want := s < 90 || s > 140 || d < 60 || d > 90
			if got := medical.IsAbnormalBloodPressure(intPtr(s), intPtr(d)); got != want {
				t.Fatalf("IsAbnormalBloodPressure(%d, %d) = %v, want %v", s, d, got, want)
			}
		}
	}
}

// TestIsAbnormalBloodPressure_Boundaries pins the inclusive range edges.
func TestIsAbnormalBloodPressure_Boundaries(t *testing.T) {
	tests := []struct {
		s, d int
		want bool
	}{
		{90, 60, false},
		{140, 90, false},
		{89, 70, true},
		{141, 70, true},
		{120, 59, true},
		{120, 91, true},
	}
	for _, tt := range tests {
		if got := medical.IsAbnormalBloodPressure(intPtr(tt.s), intPtr(tt.d)); got != tt.want {
			t.Errorf("IsAbnormalBloodPressure(%d, %d) = %v, want %v", tt.s, tt.d, got, tt.want)
		}
	}
}

// TestIsAbnormalHeartRate covers every rate from 0 to 250 and the nil case.
func TestIsAbnormalHeartRate(t *testing.T) {
	if medical.IsAbnormalHeartRate(nil) {
		t.Error("nil heart rate flagged")
	}
	for hr := 0; hr <= 250; hr++ {
		want := hr < 60 || hr > 100
		if got := medical.IsAbnormalHeartRate(intPtr(hr)); got != want {
			t.Fatalf("IsAbnormalHeartRate(%d) = %v, want %v", hr, got, want)
		}
	}
}

// TestParseStatus verifies unknown and empty values fall back to pending.
func TestParseStatus(t *testing.T) {
	tests := map[string]medical.Status{
		"":          medical.StatusPending,
		"pending":   medical.StatusPending,
		"normal":    medical.StatusNormal,
		"Attention": medical.StatusAttention,
		"critical":  medical.StatusCritical,
		"bogus":     medical.StatusPending,
	}
	for in, want := range tests {
		if got := medical.ParseStatus(in); got != want {
			t.Errorf("ParseStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestParseStatusStrict rejects unknown input instead of defaulting.
func TestParseStatusStrict(t *testing.T) {
	if st, err := medical.ParseStatusStrict(""); err != nil || st != medical.StatusPending {
		t.Errorf("empty = %q, %v", st, err)
	}
	if st, err := medical.ParseStatusStrict("critical"); err != nil || st != medical.StatusCritical {
		t.Errorf("critical = %q, %v", st, err)
	}
	if _, err := medical.ParseStatusStrict("bogus"); err != medical.ErrInvalidStatus {
		t.Errorf("bogus error = %v, want ErrInvalidStatus", err)
	}
}

// TestStatus_NeedsAttention checks which stored statuses reach the attention panel.
func TestStatus_NeedsAttention(t *testing.T) {
	want := map[medical.Status]bool{
		medical.StatusPending:   false,
		medical.StatusNormal:    false,
		medical.StatusAttention: true,
		medical.StatusCritical:  true,
	}
	for st, w := range want {
		if st.NeedsAttention() != w {
			t.Errorf("%q.NeedsAttention() = %v, want %v", st, st.NeedsAttention(), w)
		}
	}
}

// TestResult_ReadingsAbnormalIndependentOfStatus shows the computed flag and stored status coexist.
func TestResult_ReadingsAbnormalIndependentOfStatus(t *testing.T) {
	r := medical.Result{
		BloodPressureSystolic:  intPtr(150),
		BloodPressureDiastolic: intPtr(80),
		HeartRate:              intPtr(72),
		Status:                 medical.StatusNormal,
	}
	if !r.ReadingsAbnormal() || !r.BloodPressureAbnormal() || r.HeartRateAbnormal() {
		t.Errorf("flags = bp:%v hr:%v", r.BloodPressureAbnormal(), r.HeartRateAbnormal())
	}
	if !r.StatusDisagrees() {
		t.Error("normal status with abnormal readings should disagree")
	}
	if r.Status != medical.StatusNormal {
		t.Errorf("stored status changed to %q", r.Status)
	}

	r.Status = medical.StatusAttention
	if r.StatusDisagrees() {
		t.Error("attention status should not be reported as disagreeing")
	}
}

// TestResult_Validate tests validation of Result.
func TestResult_Validate(t *testing.T) {
	date := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		result  medical.Result
		wantErr error
	}{
		{"valid", medical.Result{SwimmerID: "s1", ExaminationDate: date, Status: medical.StatusPending}, nil},
		{"no swimmer", medical.Result{ExaminationDate: date, Status: medical.StatusPending}, medical.ErrMissingSwimmer},
		{"no date", medical.Result{SwimmerID: "s1", Status: medical.StatusPending}, medical.ErrMissingDate},
		{"zero reading", medical.Result{SwimmerID: "s1", ExaminationDate: date, HeartRate: intPtr(0), Status: medical.StatusPending}, medical.ErrInvalidReading},
		{"diastolic above systolic", medical.Result{SwimmerID: "s1", ExaminationDate: date, BloodPressureSystolic: intPtr(80), BloodPressureDiastolic: intPtr(90), Status: medical.StatusPending}, medical.ErrDiastolicAbove},
		{"empty status", medical.Result{SwimmerID: "s1", ExaminationDate: date}, medical.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.result.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
