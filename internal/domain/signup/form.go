package signup

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"swimhealth/internal/domain/account"
)

// Swimmer sign-up is split into three sections. Only the first is required.
const (
	SectionIdentity = 1
	SectionParents  = 2
	SectionMedical  = 3
)

// DateLayout is the wire format of date inputs.
const DateLayout = "2006-01-02"

// Minimum lengths enforced on sign-up.
const (
	MinNameLength       = 2
	MinNationalIDLength = 5
)

// BloodTypes lists accepted blood groups.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Genders lists accepted gender values.
var Genders = []string{"Male", "Female"}

// Field error messages.
const (
	MsgFullName   = "Full name must be at least 2 characters"
	MsgName       = "Name must be at least 2 characters"
	MsgNationalID = "National ID is required"
	MsgDOB        = "Date of birth is required"
	MsgDOBFuture  = "Date of birth cannot be in the future"
	MsgGender     = "Gender is required"
	MsgBloodType  = "Blood type is required"
	MsgEmail      = "Please enter a valid email address"
	MsgPassword   = "Password must be at least 6 characters"
)

// FieldErrors maps form field names to an inline message.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// Get returns the message for field, or "".
func (fe FieldErrors) Get(field string) string { return fe[field] }

// SwimmerForm carries the swimmer sign-up fields across sections.
type SwimmerForm struct {
	Section int

	FullName    string
	NationalID  string
	DateOfBirth string
	Gender      string
	BloodType   string
	Email       string
	Password    string

	FatherName       string
	FatherNationalID string
	MotherName       string
	MotherNationalID string

	Allergies         string
	PreviousSurgeries string
	ChronicDiseases   string
}

// CurrentSection clamps Section into the valid range.
func (f *SwimmerForm) CurrentSection() int {
	switch {
	case f.Section < SectionIdentity:
		return SectionIdentity
	case f.Section > SectionMedical:
		return SectionMedical
	}
	return f.Section
}

// ValidateSection checks the fields owned by one section.
// Sections 2 and 3 are optional and always pass.
func (f *SwimmerForm) ValidateSection(section int, now time.Time) FieldErrors {
	errs := FieldErrors{}
	if section != SectionIdentity {
		return errs
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.FullName)) < MinNameLength {
		errs["fullName"] = MsgFullName
	}
	if len(strings.TrimSpace(f.NationalID)) < MinNationalIDLength {
		errs["nationalId"] = MsgNationalID
	}
	if f.DateOfBirth == "" {
		errs["dateOfBirth"] = MsgDOB
	} else if dob, err := time.Parse(DateLayout, f.DateOfBirth); err != nil {
		errs["dateOfBirth"] = MsgDOB
	} else if dob.After(now) {
		errs["dateOfBirth"] = MsgDOBFuture
	}
	if !contains(Genders, f.Gender) {
		errs["gender"] = MsgGender
	}
	if !contains(BloodTypes, f.BloodType) {
		errs["bloodType"] = MsgBloodType
	}
	if !ValidEmail(f.Email) {
		errs["email"] = MsgEmail
	}
	if len(f.Password) < account.MinPasswordLength {
		errs["password"] = MsgPassword
	}
	return errs
}

// Next validates the current section and advances when it passes.
// The section is unchanged when errors are returned.
func (f *SwimmerForm) Next(now time.Time) FieldErrors {
	cur := f.CurrentSection()
	errs := f.ValidateSection(cur, now)
	if errs.Empty() && cur < SectionMedical {
		f.Section = cur + 1
	} else {
		f.Section = cur
	}
	return errs
}

// Prev moves back one section without validating.
func (f *SwimmerForm) Prev() {
	cur := f.CurrentSection()
	if cur > SectionIdentity {
		cur--
	}
	f.Section = cur
}

// Validate checks every section, as done before the final submit.
func (f *SwimmerForm) Validate(now time.Time) FieldErrors {
	errs := FieldErrors{}
	for s := SectionIdentity; s <= SectionMedical; s++ {
		for k, v := range f.ValidateSection(s, now) {
			errs[k] = v
		}
	}
	return errs
}

// BirthDate parses DateOfBirth. Call only after validation.
func (f *SwimmerForm) BirthDate() time.Time {
	t, _ := time.Parse(DateLayout, f.DateOfBirth)
	return t
}

// CoachForm carries the coach sign-up fields.
type CoachForm struct {
	Name     string
	Email    string
	Password string
}

// Validate checks the coach form.
func (c *CoachForm) Validate() FieldErrors {
	errs := FieldErrors{}
	if utf8.RuneCountInString(strings.TrimSpace(c.Name)) < MinNameLength {
		errs["name"] = MsgName
	}
	if !ValidEmail(c.Email) {
		errs["email"] = MsgEmail
	}
	if len(c.Password) < account.MinPasswordLength {
		errs["password"] = MsgPassword
	}
	return errs
}

// ValidEmail accepts a bare address such as "ann@club.test".
func ValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
