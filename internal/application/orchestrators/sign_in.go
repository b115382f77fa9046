package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"swimhealth/internal/domain/account"
)

// AccountStoreForSignIn defines the store interface needed by SignIn.
type AccountStoreForSignIn interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// RoleLookup resolves the role held by an account.
type RoleLookup interface {
	GetByUserID(ctx context.Context, userID string) (account.Assignment, error)
}

// SignInInput carries input for the sign-in orchestrator.
type SignInInput struct {
	Email    string
	Password string
}

// SignInResult carries the result of a successful sign-in.
type SignInResult struct {
	AccountID string
	Email     string
	Role      account.Role
}

// SignInDeps holds dependencies for SignIn.
type SignInDeps struct {
	AccountStore AccountStoreForSignIn
	RoleStore    RoleLookup
	Now          func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrNoRole             = errors.New("account has no role assigned")
)

// ExecuteSignIn validates credentials and returns account info for session creation.
// PRE: Valid email and password provided
// POST: Returns account info on success, records failed sign-in on failure
// INVARIANT: Account must not be locked and must hold exactly one role
func ExecuteSignIn(ctx context.Context, input SignInInput, deps SignInDeps) (SignInResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return SignInResult{}, ErrInvalidCredentials
	}
	now := deps.Now()

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return SignInResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return SignInResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "login_failed_save", "email", email, "error", err)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return SignInResult{}, ErrInvalidCredentials
	}

	assignment, err := deps.RoleStore.GetByUserID(ctx, acct.ID)
	if err != nil {
		slog.Warn("auth_event", "event", "login_blocked", "email", email, "reason", "no_role", "error", err)
		return SignInResult{}, ErrNoRole
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "login_reset_failed", "email", email, "error", err)
		}
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "role", assignment.Role.String())

	return SignInResult{
		AccountID: acct.ID,
		Email:     acct.Email,
		Role:      assignment.Role,
	}, nil
}
