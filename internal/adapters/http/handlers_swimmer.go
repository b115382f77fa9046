package web

import (
	"errors"
	"net/http"
	"strings"

	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/application/projections"
)

type profilePageData struct {
	projections.GetSwimmerProfileResult
	Age int
}

func handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	res, err := projections.QueryGetSwimmerProfile(r.Context(), projections.GetSwimmerProfileQuery{
		SwimmerID: sess.AccountID,
	}, projections.GetSwimmerProfileDeps{
		ProfileStore: stores.ProfileStore,
		InBodyStore:  stores.InBodyStore,
		MedicalStore: stores.MedicalStore,
	})
	if errors.Is(err, projections.ErrProfileNotFound) {
		renderNotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "profile.html", &profilePageData{
		GetSwimmerProfileResult: res,
		Age:                     res.Profile.Age(timeNow()),
	})
}

func handleExaminations(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	res, err := projections.QueryGetSwimmerExaminations(r.Context(), projections.GetSwimmerExaminationsQuery{
		SwimmerID: sess.AccountID,
	}, projections.GetSwimmerExaminationsDeps{
		InBodyStore:  stores.InBodyStore,
		MedicalStore: stores.MedicalStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "examinations.html", &res)
}

func renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderTemplateStatus(w, r, http.StatusNotFound, "not_found.html", nil)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		middleware.WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}
	renderNotFound(w, r)
}
