package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strings"
	"time"

	emailAdapter "swimhealth/internal/adapters/email"
	"swimhealth/internal/domain/account"
	"swimhealth/internal/domain/profile"
	"swimhealth/internal/domain/signup"
)

// AccountStoreForSignUp defines the store interface needed by SignUp.
type AccountStoreForSignUp interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Delete(ctx context.Context, id string) error
}

// RoleStoreForSignUp defines the store interface needed by SignUp.
type RoleStoreForSignUp interface {
	Save(ctx context.Context, a account.Assignment) error
}

// ProfileStoreForSignUp defines the store interface needed by SignUp.
type ProfileStoreForSignUp interface {
	Save(ctx context.Context, p profile.Profile) error
}

// SignUpInput carries input for the sign-up orchestrator.
// Swimmer is read when Role is RoleSwimmer, Coach when Role is RoleCoach.
type SignUpInput struct {
	Role    account.Role
	Swimmer signup.SwimmerForm
	Coach   signup.CoachForm
}

// SignUpResult carries the created identity.
type SignUpResult struct {
	AccountID string
	Email     string
	Role      account.Role
}

// SignUpDeps holds dependencies for SignUp.
type SignUpDeps struct {
	AccountStore AccountStoreForSignUp
	RoleStore    RoleStoreForSignUp
	ProfileStore ProfileStoreForSignUp
	EmailSender  emailAdapter.Sender // nil disables the welcome email
	FromAddress  string
	ReplyTo      string
	GenerateID   func() string
	Now          func() time.Time
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ValidationError carries per-field messages for inline rendering.
type ValidationError struct {
	Fields signup.FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

// ExecuteSignUp creates an account, its single role assignment and its profile.
// PRE: input.Role is valid
// POST: account, user_roles and profiles rows exist, or none of them do
// INVARIANT: Email must be unique
func ExecuteSignUp(ctx context.Context, input SignUpInput, deps SignUpDeps) (SignUpResult, error) {
	now := deps.Now()

	var email, password string
	var p profile.Profile
	switch input.Role {
	case account.RoleSwimmer:
		f := input.Swimmer
		if errs := f.Validate(now); !errs.Empty() {
			return SignUpResult{}, &ValidationError{Fields: errs}
		}
		email, password = strings.TrimSpace(f.Email), f.Password
		p = profile.Profile{
			FullName:          strings.TrimSpace(f.FullName),
			DateOfBirth:       f.BirthDate(),
			NationalID:        strings.TrimSpace(f.NationalID),
			Gender:            f.Gender,
			BloodType:         f.BloodType,
			FatherName:        strings.TrimSpace(f.FatherName),
			FatherNationalID:  strings.TrimSpace(f.FatherNationalID),
			MotherName:        strings.TrimSpace(f.MotherName),
			MotherNationalID:  strings.TrimSpace(f.MotherNationalID),
			Allergies:         strings.TrimSpace(f.Allergies),
			PreviousSurgeries: strings.TrimSpace(f.PreviousSurgeries),
			ChronicDiseases:   strings.TrimSpace(f.ChronicDiseases),
		}
	case account.RoleCoach:
		f := input.Coach
		if errs := f.Validate(); !errs.Empty() {
			return SignUpResult{}, &ValidationError{Fields: errs}
		}
		email, password = strings.TrimSpace(f.Email), f.Password
		p = profile.Profile{FullName: strings.TrimSpace(f.Name)}
	default:
		return SignUpResult{}, account.ErrInvalidRole
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, email); err == nil {
		slog.Info("auth_event", "event", "signup_rejected", "email", email, "reason", "email_taken")
		return SignUpResult{}, ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     email,
		CreatedAt: now,
	}
	if err := acct.Validate(); err != nil {
		return SignUpResult{}, err
	}
	if err := acct.SetPassword(password); err != nil {
		return SignUpResult{}, err
	}

	p.ID = acct.ID
	p.Email = email
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return SignUpResult{}, err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			return SignUpResult{}, ErrEmailAlreadyExists
		}
		return SignUpResult{}, fmt.Errorf("save account: %w", err)
	}
	assignment := account.Assignment{
		ID:        deps.GenerateID(),
		UserID:    acct.ID,
		Role:      input.Role,
		CreatedAt: now,
	}
	if err := deps.RoleStore.Save(ctx, assignment); err != nil {
		rollbackAccount(ctx, deps.AccountStore, acct.ID)
		return SignUpResult{}, fmt.Errorf("save role: %w", err)
	}
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		rollbackAccount(ctx, deps.AccountStore, acct.ID)
		return SignUpResult{}, fmt.Errorf("save profile: %w", err)
	}

	slog.Info("auth_event", "event", "account_created", "email", email, "role", input.Role.String())

	if input.Role == account.RoleSwimmer && deps.EmailSender != nil {
		sendWelcomeEmail(ctx, deps, p)
	}

	return SignUpResult{AccountID: acct.ID, Email: email, Role: input.Role}, nil
}

// rollbackAccount removes a half-created account; cascades drop its role and profile.
func rollbackAccount(ctx context.Context, store AccountStoreForSignUp, id string) {
	if err := store.Delete(ctx, id); err != nil {
		slog.Error("auth_event", "event", "signup_rollback_failed", "account_id", id, "error", err)
	}
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hi {{.FullName}},</p>
<p>Your swimmer account is ready. Your coach will add in-body and medical examinations as they happen, and you can follow them on your profile.</p>
<p>See you at the pool.</p>`))

// sendWelcomeEmail logs rather than fails: the account already exists.
func sendWelcomeEmail(ctx context.Context, deps SignUpDeps, p profile.Profile) {
	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, p); err != nil {
		slog.Error("email_event", "event", "welcome_render_failed", "error", err)
		return
	}
	res, err := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{p.Email},
		From:    deps.FromAddress,
		Subject: "Welcome to SwimHealth",
		HTML:    body.String(),
		ReplyTo: deps.ReplyTo,
	})
	if err != nil {
		slog.Error("email_event", "event", "welcome_failed", "account_id", p.ID, "error", err)
		return
	}
	slog.Info("email_event", "event", "welcome_sent", "account_id", p.ID, "message_id", res.MessageID)
}
