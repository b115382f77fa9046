package web

import (
	"net/http"

	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/domain/account"
)

func registerRoutes(mux *http.ServeMux) {
	swimmerOnly := middleware.RequireRole(account.RoleSwimmer)
	coachOnly := middleware.RequireRole(account.RoleCoach)
	apiSwimmer := middleware.RequireAPIRole(account.RoleSwimmer)
	apiCoach := middleware.RequireAPIRole(account.RoleCoach)

	mux.HandleFunc("GET /{$}", handleLanding)
	mux.HandleFunc("GET /auth", handleAuthPage)
	mux.HandleFunc("POST /auth/signin", handleSignIn)
	mux.HandleFunc("POST /auth/signup", handleSignUp)
	mux.HandleFunc("POST /auth/signout", handleSignOut)
	mux.HandleFunc("POST /preferences", handlePreferences)

	mux.Handle("GET /profile", swimmerOnly(http.HandlerFunc(handleProfile)))
	mux.Handle("GET /examinations", swimmerOnly(http.HandlerFunc(handleExaminations)))

	mux.Handle("GET /dashboard", coachOnly(http.HandlerFunc(handleDashboard)))
	mux.Handle("GET /dashboard/swimmers/{id}", coachOnly(http.HandlerFunc(handleSwimmerDetail)))
	mux.Handle("POST /dashboard/swimmers/{id}/inbody", coachOnly(http.HandlerFunc(handleRecordInBody)))
	mux.Handle("POST /dashboard/swimmers/{id}/medical", coachOnly(http.HandlerFunc(handleRecordMedical)))

	mux.HandleFunc("POST /api/token", handleAPIToken)
	mux.Handle("GET /api/roster", apiCoach(http.HandlerFunc(handleAPIRoster)))
	mux.Handle("GET /api/swimmers/{id}/history", apiCoach(http.HandlerFunc(handleAPISwimmerHistory)))
	mux.Handle("GET /api/me/examinations", apiSwimmer(http.HandlerFunc(handleAPIMyExaminations)))

	mux.HandleFunc("/", handleNotFound)
}
