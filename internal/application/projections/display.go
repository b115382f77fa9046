package projections

import (
	"strconv"
	"strings"
	"time"

	domainInBody "swimhealth/internal/domain/inbody"
	domainMedical "swimhealth/internal/domain/medical"
)

// Placeholders shown for absent values.
const (
	NotAvailable = "N/A"
	NoneReported = "None reported"
	NoValue      = "-"
)

// DisplayDateLayout renders examination and birth dates.
const DisplayDateLayout = "Jan 2, 2006"

// FormatNumber trims trailing zeros: 70 -> "70", 70.50 -> "70.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatWeight renders the weight of an examination as "70 kg", or "-" when there is none.
func FormatWeight(e *domainInBody.Examination) string {
	if e == nil {
		return NoValue
	}
	return FormatNumber(e.Weight) + " kg"
}

// FormatMeasure renders an optional measurement with its unit, or "N/A".
// Units starting with a letter are separated by a space; "%" is not.
func FormatMeasure(v *float64, unit string) string {
	if v == nil {
		return NotAvailable
	}
	s := FormatNumber(*v)
	switch {
	case unit == "":
		return s
	case strings.HasPrefix(unit, "%"):
		return s + unit
	}
	return s + " " + unit
}

// FormatBloodPressure renders "120/80", or "N/A" unless both readings exist.
func FormatBloodPressure(r *domainMedical.Result) string {
	if r == nil || r.BloodPressureSystolic == nil || r.BloodPressureDiastolic == nil {
		return NotAvailable
	}
	return strconv.Itoa(*r.BloodPressureSystolic) + "/" + strconv.Itoa(*r.BloodPressureDiastolic)
}

// FormatHeartRate renders "72 bpm", or "N/A".
func FormatHeartRate(r *domainMedical.Result) string {
	if r == nil || r.HeartRate == nil {
		return NotAvailable
	}
	return strconv.Itoa(*r.HeartRate) + " bpm"
}

// OrNoneReported is used for medical history free text.
func OrNoneReported(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoneReported
	}
	return s
}

// OrNotAvailable is used for optional profile fields.
func OrNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// FormatDate renders a calendar date, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return NoValue
	}
	return t.Format(DisplayDateLayout)
}
