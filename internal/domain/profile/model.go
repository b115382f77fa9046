package profile

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
	MaxTextLength = 2000
)

// Domain errors
var (
	ErrEmptyName    = errors.New("full name cannot be empty")
	ErrNameTooLong  = errors.New("full name cannot exceed 100 characters")
	ErrInvalidEmail = errors.New("profile email must be valid")
	ErrTextTooLong  = errors.New("medical history fields cannot exceed 2000 characters")
)

// Profile is the identity and contact record of one account.
// Optional text fields are empty when not provided; DateOfBirth is zero when unknown.
type Profile struct {
	ID               string // same as the account ID
	Email            string
	FullName         string
	DateOfBirth      time.Time
	Phone            string
	EmergencyContact string
	EmergencyPhone   string

	NationalID       string
	Gender           string
	BloodType        string
	FatherName       string
	FatherNationalID string
	MotherName       string
	MotherNationalID string

	Allergies         string
	PreviousSurgeries string
	ChronicDiseases   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(p.FullName) > MaxNameLength {
		return ErrNameTooLong
	}
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	for _, s := range []string{p.Allergies, p.PreviousSurgeries, p.ChronicDiseases} {
		if len(s) > MaxTextLength {
			return ErrTextTooLong
		}
	}
	return nil
}

// Initials returns up to two upper-case initials from the full name.
func (p *Profile) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(p.FullName) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteString(strings.ToUpper(string(r)))
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return b.String()
}

// Age returns the whole years between DateOfBirth and now, or -1 when unknown.
func (p *Profile) Age(now time.Time) int {
	if p.DateOfBirth.IsZero() {
		return -1
	}
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() || (now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

// HasParentInfo reports whether any parent/guardian field is filled in.
func (p *Profile) HasParentInfo() bool {
	return p.FatherName != "" || p.MotherName != "" || p.FatherNationalID != "" || p.MotherNationalID != ""
}
