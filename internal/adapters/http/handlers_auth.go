package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/application/orchestrators"
	"swimhealth/internal/domain/account"
	"swimhealth/internal/domain/signup"
)

// authPageData backs auth.html for both tabs.
type authPageData struct {
	Tab        string // "signin" or "signup"
	Role       string // sign-up role: "swimmer" or "coach"
	Message    string
	Email      string // sign-in prefill
	Swimmer    signup.SwimmerForm
	Coach      signup.CoachForm
	Errors     signup.FieldErrors
	Genders    []string
	BloodTypes []string
}

func newAuthPage(tab, role string) authPageData {
	if tab != "signup" {
		tab = "signin"
	}
	if role != account.RoleCoach.String() {
		role = account.RoleSwimmer.String()
	}
	return authPageData{
		Tab:        tab,
		Role:       role,
		Swimmer:    signup.SwimmerForm{Section: signup.SectionIdentity},
		Errors:     signup.FieldErrors{},
		Genders:    signup.Genders,
		BloodTypes: signup.BloodTypes,
	}
}

// Section is the swimmer form section to show.
func (d *authPageData) Section() int {
	return d.Swimmer.CurrentSection()
}

// redirectHome sends a signed-in visitor to their role's home page.
func redirectHome(w http.ResponseWriter, r *http.Request) bool {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return false
	}
	http.Redirect(w, r, sess.Role.HomePath(), http.StatusSeeOther)
	return true
}

func handleLanding(w http.ResponseWriter, r *http.Request) {
	if redirectHome(w, r) {
		return
	}
	renderTemplate(w, r, "landing.html", nil)
}

func handleAuthPage(w http.ResponseWriter, r *http.Request) {
	if redirectHome(w, r) {
		return
	}
	q := r.URL.Query()
	data := newAuthPage(q.Get("tab"), q.Get("role"))
	renderTemplate(w, r, "auth.html", &data)
}

func handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	email := r.FormValue("email")
	res, err := orchestrators.ExecuteSignIn(r.Context(), orchestrators.SignInInput{
		Email:    email,
		Password: r.FormValue("password"),
	}, orchestrators.SignInDeps{
		AccountStore: stores.AccountStore,
		RoleStore:    stores.RoleStore,
		Now:          timeNow,
	})
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, orchestrators.ErrAccountLocked):
			status = http.StatusTooManyRequests
		case errors.Is(err, orchestrators.ErrNoRole):
			status = http.StatusForbidden
		case !errors.Is(err, orchestrators.ErrInvalidCredentials):
			internalError(w, err)
			return
		}
		data := newAuthPage("signin", "")
		data.Email = email
		data.Message = orchestrators.UserMessage(err)
		renderTemplateStatus(w, r, status, "auth.html", &data)
		return
	}
	startSession(w, r, res.AccountID, res.Email, res.Role)
}

// startSession creates a session, sets its cookie and redirects to the role's home.
func startSession(w http.ResponseWriter, r *http.Request, accountID, email string, role account.Role) {
	token, err := sessions.Create(accountID, email, role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	http.Redirect(w, r, role.HomePath(), http.StatusSeeOther)
}

func swimmerFormFrom(r *http.Request) signup.SwimmerForm {
	section, _ := strconv.Atoi(r.FormValue("section"))
	return signup.SwimmerForm{
		Section:           section,
		FullName:          r.FormValue("fullName"),
		NationalID:        r.FormValue("nationalId"),
		DateOfBirth:       r.FormValue("dateOfBirth"),
		Gender:            r.FormValue("gender"),
		BloodType:         r.FormValue("bloodType"),
		Email:             r.FormValue("email"),
		Password:          r.FormValue("password"),
		FatherName:        r.FormValue("fatherName"),
		FatherNationalID:  r.FormValue("fatherNationalId"),
		MotherName:        r.FormValue("motherName"),
		MotherNationalID:  r.FormValue("motherNationalId"),
		Allergies:         r.FormValue("allergies"),
		PreviousSurgeries: r.FormValue("previousSurgeries"),
		ChronicDiseases:   r.FormValue("chronicDiseases"),
	}
}

// handleSignUp serves every step of the sign-up form.
// Swimmers move between sections with action=next|prev; action=submit creates the account.
func handleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	role, err := account.ParseRole(r.FormValue("role"))
	if err != nil {
		redirectWithFlash(w, r, "/auth?tab=signup", "Choose swimmer or coach")
		return
	}

	data := newAuthPage("signup", role.String())
	input := orchestrators.SignUpInput{Role: role}
	switch role {
	case account.RoleSwimmer:
		form := swimmerFormFrom(r)
		switch r.FormValue("action") {
		case "next":
			data.Errors = form.Next(timeNow())
			data.Swimmer = form
			status := http.StatusOK
			if !data.Errors.Empty() {
				status = http.StatusUnprocessableEntity
			}
			renderTemplateStatus(w, r, status, "auth.html", &data)
			return
		case "prev":
			form.Prev()
			data.Swimmer = form
			renderTemplate(w, r, "auth.html", &data)
			return
		}
		form.Section = form.CurrentSection()
		input.Swimmer = form
		data.Swimmer = form
	case account.RoleCoach:
		input.Coach = signup.CoachForm{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		data.Coach = input.Coach
	}

	res, err := orchestrators.ExecuteSignUp(r.Context(), input, orchestrators.SignUpDeps{
		AccountStore: stores.AccountStore,
		RoleStore:    stores.RoleStore,
		ProfileStore: stores.ProfileStore,
		EmailSender:  emailSender,
		FromAddress:  emailFromAddress,
		ReplyTo:      emailReplyTo,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	var verr *orchestrators.ValidationError
	switch {
	case errors.As(err, &verr):
		data.Errors = verr.Fields
		data.Swimmer.Section = signup.SectionIdentity
		data.Message = orchestrators.UserMessage(err)
		renderTemplateStatus(w, r, http.StatusUnprocessableEntity, "auth.html", &data)
		return
	case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
		data.Errors = signup.FieldErrors{"email": orchestrators.MsgEmailTaken}
		data.Swimmer.Section = signup.SectionIdentity
		renderTemplateStatus(w, r, http.StatusConflict, "auth.html", &data)
		return
	case err != nil:
		internalError(w, err)
		return
	}
	startSession(w, r, res.AccountID, res.Email, res.Role)
}

func handleSignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(c.Value)
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "email", sess.Email)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
