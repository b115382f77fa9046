package orchestrators

import (
	"errors"

	"swimhealth/internal/domain/account"
)

// Messages shown to the user for expected failures.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgAccountLocked      = "Too many failed attempts. Try again in 15 minutes."
	MsgEmailTaken         = "An account with this email already exists"
	MsgNoRole             = "Your account has no role yet. Contact your coach."
	MsgCheckForm          = "Please fix the highlighted fields"
	MsgUnknownSwimmer     = "Swimmer not found"
	MsgGeneric            = "Something went wrong. Please try again."
)

// UserMessage remaps an orchestrator error to display text.
// Unexpected errors never leak their text.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, ErrAccountLocked):
		return MsgAccountLocked
	case errors.Is(err, ErrEmailAlreadyExists):
		return MsgEmailTaken
	case errors.Is(err, ErrNoRole):
		return MsgNoRole
	case errors.Is(err, ErrUnknownSwimmer):
		return MsgUnknownSwimmer
	case errors.Is(err, account.ErrPasswordTooShort):
		return "Password must be at least 6 characters"
	case errors.As(err, &verr):
		return MsgCheckForm
	}
	return MsgGeneric
}
