package web

import (
	"errors"
	"net/http"
	"net/url"

	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/application/listutil"
	"swimhealth/internal/application/orchestrators"
	"swimhealth/internal/application/projections"
	"swimhealth/internal/domain/medical"
	"swimhealth/internal/domain/signup"
)

const attentionFilter = "attention"

type dashboardPageData struct {
	projections.GetCoachRosterResult
	Search        string
	Sort          listutil.SortParams
	AttentionOnly bool
}

// SortURL is the link for a column header: same filters, toggled direction.
func (d dashboardPageData) SortURL(column string) string {
	q := url.Values{}
	q.Set("sort", column)
	q.Set("dir", d.Sort.NextDir(column))
	if d.Search != "" {
		q.Set("q", d.Search)
	}
	if d.AttentionOnly {
		q.Set(attentionFilter, "1")
	}
	return "/dashboard?" + q.Encode()
}

// SortIndicator marks the active column.
func (d dashboardPageData) SortIndicator(column string) string {
	if d.Sort.Sort != column {
		return ""
	}
	if d.Sort.Desc() {
		return "▼"
	}
	return "▲"
}

func rosterDeps() projections.GetCoachRosterDeps {
	return projections.GetCoachRosterDeps{
		ProfileStore: stores.ProfileStore,
		RoleStore:    stores.RoleStore,
		InBodyStore:  stores.InBodyStore,
		MedicalStore: stores.MedicalStore,
	}
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), projections.RosterSortColumns, projections.SortByName, []string{attentionFilter})
	res, err := projections.QueryGetCoachRoster(r.Context(), projections.GetCoachRosterQuery{
		Search: lp.Search,
		Sort:   lp.SortParams,
	}, rosterDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	data := dashboardPageData{
		GetCoachRosterResult: res,
		Search:               lp.Search,
		Sort:                 lp.SortParams,
		AttentionOnly:        lp.Filters[attentionFilter] == "1",
	}
	if data.AttentionOnly {
		data.Entries = projections.NeedsAttention(data.Entries)
	}
	renderTemplate(w, r, "dashboard.html", &data)
}

const (
	tabInBody  = "inbody"
	tabMedical = "medical"
)

type swimmerDetailPageData struct {
	projections.GetSwimmerDetailResult
	Tab         string
	InBodyForm  orchestrators.RecordInBodyInput
	MedicalForm orchestrators.RecordMedicalInput
	Errors      signup.FieldErrors
	Statuses    []medical.Status
	Today       string
}

func detailTab(raw string) string {
	if raw == tabMedical {
		return tabMedical
	}
	return tabInBody
}

// loadSwimmerDetail renders 404 itself when the id is not a swimmer.
func loadSwimmerDetail(w http.ResponseWriter, r *http.Request, id string) (swimmerDetailPageData, bool) {
	res, err := projections.QueryGetSwimmerDetail(r.Context(), projections.GetSwimmerDetailQuery{SwimmerID: id}, projections.GetSwimmerDetailDeps{
		ProfileStore: stores.ProfileStore,
		RoleStore:    stores.RoleStore,
		InBodyStore:  stores.InBodyStore,
		MedicalStore: stores.MedicalStore,
	})
	if errors.Is(err, projections.ErrSwimmerNotFound) {
		renderNotFound(w, r)
		return swimmerDetailPageData{}, false
	}
	if err != nil {
		internalError(w, err)
		return swimmerDetailPageData{}, false
	}
	return swimmerDetailPageData{
		GetSwimmerDetailResult: res,
		Tab:                    tabInBody,
		Errors:                 signup.FieldErrors{},
		Statuses:               []medical.Status{medical.StatusPending, medical.StatusNormal, medical.StatusAttention, medical.StatusCritical},
		Today:                  timeNow().Format(signup.DateLayout),
	}, true
}

func handleSwimmerDetail(w http.ResponseWriter, r *http.Request) {
	data, ok := loadSwimmerDetail(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	data.Tab = detailTab(r.URL.Query().Get("tab"))
	renderTemplate(w, r, "swimmer_detail.html", &data)
}

func swimmerDetailPath(id, tab string) string {
	return "/dashboard/swimmers/" + url.PathEscape(id) + "?tab=" + tab
}

func handleRecordInBody(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	id := r.PathValue("id")
	input := orchestrators.RecordInBodyInput{
		SwimmerID:           id,
		RecordedBy:          sess.AccountID,
		ExaminationDate:     r.FormValue("examination_date"),
		Weight:              r.FormValue("weight"),
		Height:              r.FormValue("height"),
		MuscleMass:          r.FormValue("muscle_mass"),
		BodyFatPercentage:   r.FormValue("body_fat_percentage"),
		BodyWaterPercentage: r.FormValue("body_water_percentage"),
		BoneMass:            r.FormValue("bone_mass"),
		BMI:                 r.FormValue("bmi"),
		BasalMetabolicRate:  r.FormValue("basal_metabolic_rate"),
		Notes:               r.FormValue("notes"),
	}
	_, err := orchestrators.ExecuteRecordInBody(r.Context(), input, orchestrators.RecordInBodyDeps{
		RoleStore:   stores.RoleStore,
		InBodyStore: stores.InBodyStore,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		handleRecordError(w, r, id, tabInBody, err, func(d *swimmerDetailPageData) { d.InBodyForm = input })
		return
	}
	redirectWithFlash(w, r, swimmerDetailPath(id, tabInBody), "In-body examination saved")
}

func handleRecordMedical(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	id := r.PathValue("id")
	input := orchestrators.RecordMedicalInput{
		SwimmerID:              id,
		RecordedBy:             sess.AccountID,
		ExaminationDate:        r.FormValue("examination_date"),
		BloodPressureSystolic:  r.FormValue("blood_pressure_systolic"),
		BloodPressureDiastolic: r.FormValue("blood_pressure_diastolic"),
		HeartRate:              r.FormValue("heart_rate"),
		Status:                 r.FormValue("status"),
		Notes:                  r.FormValue("notes"),
	}
	_, err := orchestrators.ExecuteRecordMedical(r.Context(), input, orchestrators.RecordMedicalDeps{
		RoleStore:    stores.RoleStore,
		MedicalStore: stores.MedicalStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		handleRecordError(w, r, id, tabMedical, err, func(d *swimmerDetailPageData) { d.MedicalForm = input })
		return
	}
	redirectWithFlash(w, r, swimmerDetailPath(id, tabMedical), "Medical result saved")
}

// handleRecordError re-renders the detail page with inline errors, or maps the failure to a status.
func handleRecordError(w http.ResponseWriter, r *http.Request, id, tab string, err error, keep func(*swimmerDetailPageData)) {
	var verr *orchestrators.ValidationError
	switch {
	case errors.Is(err, orchestrators.ErrUnknownSwimmer):
		renderNotFound(w, r)
	case errors.As(err, &verr):
		data, ok := loadSwimmerDetail(w, r, id)
		if !ok {
			return
		}
		data.Tab = tab
		data.Errors = verr.Fields
		keep(&data)
		renderTemplateStatus(w, r, http.StatusUnprocessableEntity, "swimmer_detail.html", &data)
	default:
		internalError(w, err)
	}
}
