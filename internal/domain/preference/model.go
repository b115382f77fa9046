package preference

import (
	"errors"
	"time"
)

// Supported languages.
const (
	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// Supported themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	ErrInvalidLanguage = errors.New("language must be 'en' or 'ar'")
	ErrInvalidTheme    = errors.New("theme must be 'light' or 'dark'")
	ErrMissingAccount  = errors.New("preference must belong to an account")
)

// Preference holds the display settings of one account.
type Preference struct {
	AccountID string
	Language  string
	Theme     string
	UpdatedAt time.Time
}

// Default is used for visitors and accounts that never chose.
func Default() Preference {
	return Preference{Language: LanguageEnglish, Theme: ThemeLight}
}

// Validate checks required fields for a Preference.
// PRE: Preference struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Preference) Validate() error {
	if p.AccountID == "" {
		return ErrMissingAccount
	}
	if !ValidLanguage(p.Language) {
		return ErrInvalidLanguage
	}
	if !ValidTheme(p.Theme) {
		return ErrInvalidTheme
	}
	return nil
}

// Direction is the text direction implied by the language.
func (p Preference) Direction() string {
	if p.Language == LanguageArabic {
		return "rtl"
	}
	return "ltr"
}

// ToggledLanguage returns the other supported language.
func (p Preference) ToggledLanguage() string {
	if p.Language == LanguageArabic {
		return LanguageEnglish
	}
	return LanguageArabic
}

// ValidLanguage reports whether lang is supported.
func ValidLanguage(lang string) bool {
	return lang == LanguageEnglish || lang == LanguageArabic
}

// ValidTheme reports whether theme is supported.
func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}
