package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Stored time formats. Timestamps keep nanoseconds; calendar dates have no zone.
const (
	TimeLayout = "2006-01-02T15:04:05.999999999Z07:00"
	DateLayout = "2006-01-02"
)

// FormatTime renders a timestamp for a TEXT column.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// NullableTime returns nil for the zero time so the column stores NULL.
func NullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(TimeLayout)
}

// NullableDate is NullableTime for date-only columns.
func NullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(DateLayout)
}

// NullableString returns nil for "" so optional text columns store NULL.
func NullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullableInt dereferences p, or returns nil.
func NullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// NullableFloat dereferences p, or returns nil.
func NullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// ParseTime accepts every format the schema has stored over time.
// PRE: s is non-empty
// POST: returns the parsed time or an error naming the input
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		DateLayout,
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// ParseNullTime returns the zero time for NULL or unparseable values.
func ParseNullTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	t, _ := ParseTime(ns.String)
	return t
}

// IntPtr converts a scanned nullable integer.
func IntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// FloatPtr converts a scanned nullable real.
func FloatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
