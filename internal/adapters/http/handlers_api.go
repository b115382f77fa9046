package web

import (
	"errors"
	"net/http"
	"time"

	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/application/listutil"
	"swimhealth/internal/application/orchestrators"
	"swimhealth/internal/application/projections"
	"swimhealth/internal/domain/inbody"
	"swimhealth/internal/domain/medical"
	"swimhealth/internal/domain/signup"
)

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
}

// handleAPIToken exchanges credentials for a bearer token.
func handleAPIToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := strictDecode(r, &req); err != nil {
		middleware.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := orchestrators.ExecuteSignIn(r.Context(), orchestrators.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	}, orchestrators.SignInDeps{
		AccountStore: stores.AccountStore,
		RoleStore:    stores.RoleStore,
		Now:          timeNow,
	})
	switch {
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		middleware.WriteJSONError(w, http.StatusUnauthorized, orchestrators.UserMessage(err))
		return
	case errors.Is(err, orchestrators.ErrAccountLocked):
		middleware.WriteJSONError(w, http.StatusTooManyRequests, orchestrators.UserMessage(err))
		return
	case errors.Is(err, orchestrators.ErrNoRole):
		middleware.WriteJSONError(w, http.StatusForbidden, orchestrators.UserMessage(err))
		return
	case err != nil:
		internalError(w, err)
		return
	}
	token, exp, err := tokens.Issue(middleware.Session{AccountID: res.AccountID, Email: res.Email, Role: res.Role})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: exp, Role: res.Role.String()})
}

type inBodyDTO struct {
	ID                  string   `json:"id"`
	ExaminationDate     string   `json:"examination_date"`
	Weight              float64  `json:"weight"`
	Height              *float64 `json:"height"`
	MuscleMass          *float64 `json:"muscle_mass"`
	BodyFatPercentage   *float64 `json:"body_fat_percentage"`
	BodyWaterPercentage *float64 `json:"body_water_percentage"`
	BoneMass            *float64 `json:"bone_mass"`
	BMI                 *float64 `json:"bmi"`
	BasalMetabolicRate  *float64 `json:"basal_metabolic_rate"`
	Notes               string   `json:"notes,omitempty"`
}

type medicalDTO struct {
	ID                     string `json:"id"`
	ExaminationDate        string `json:"examination_date"`
	BloodPressureSystolic  *int   `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int   `json:"blood_pressure_diastolic"`
	HeartRate              *int   `json:"heart_rate"`
	Status                 string `json:"status"`
	ReadingsAbnormal       bool   `json:"readings_abnormal"`
	Notes                  string `json:"notes,omitempty"`
}

type historyResponse struct {
	SwimmerID string       `json:"swimmer_id"`
	FullName  string       `json:"full_name,omitempty"`
	InBody    []inBodyDTO  `json:"inbody"`
	Medical   []medicalDTO `json:"medical"`
	Complete  bool         `json:"complete"`
}

func toInBodyDTOs(exams []inbody.Examination) []inBodyDTO {
	out := make([]inBodyDTO, 0, len(exams))
	for _, e := range exams {
		out = append(out, inBodyDTO{
			ID:                  e.ID,
			ExaminationDate:     e.ExaminationDate.Format(signup.DateLayout),
			Weight:              e.Weight,
			Height:              e.Height,
			MuscleMass:          e.MuscleMass,
			BodyFatPercentage:   e.BodyFatPercentage,
			BodyWaterPercentage: e.BodyWaterPercentage,
			BoneMass:            e.BoneMass,
			BMI:                 e.BMI,
			BasalMetabolicRate:  e.BasalMetabolicRate,
			Notes:               e.Notes,
		})
	}
	return out
}

func toMedicalDTOs(results []medical.Result) []medicalDTO {
	out := make([]medicalDTO, 0, len(results))
	for _, m := range results {
		out = append(out, medicalDTO{
			ID:                     m.ID,
			ExaminationDate:        m.ExaminationDate.Format(signup.DateLayout),
			BloodPressureSystolic:  m.BloodPressureSystolic,
			BloodPressureDiastolic: m.BloodPressureDiastolic,
			HeartRate:              m.HeartRate,
			Status:                 string(m.Status),
			ReadingsAbnormal:       m.ReadingsAbnormal(),
			Notes:                  m.Notes,
		})
	}
	return out
}

type rosterEntryDTO struct {
	ID             string   `json:"id"`
	FullName       string   `json:"full_name"`
	Email          string   `json:"email"`
	LatestWeight   *float64 `json:"latest_weight"`
	LatestStatus   string   `json:"latest_status,omitempty"`
	LastExamined   string   `json:"last_examined,omitempty"`
	NeedsAttention bool     `json:"needs_attention"`
}

type rosterResponse struct {
	Swimmers       []rosterEntryDTO `json:"swimmers"`
	TotalSwimmers  int              `json:"total_swimmers"`
	NeedsAttention int              `json:"needs_attention"`
	WithRecords    int              `json:"with_records"`
	Complete       bool             `json:"complete"`
}

func handleAPIRoster(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), projections.RosterSortColumns, projections.SortByName, []string{attentionFilter})
	res, err := projections.QueryGetCoachRoster(r.Context(), projections.GetCoachRosterQuery{
		Search: lp.Search,
		Sort:   lp.SortParams,
	}, rosterDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	entries := res.Entries
	if lp.Filters[attentionFilter] == "1" {
		entries = projections.NeedsAttention(entries)
	}
	out := rosterResponse{
		Swimmers:       make([]rosterEntryDTO, 0, len(entries)),
		TotalSwimmers:  res.Summary.TotalSwimmers,
		NeedsAttention: res.Summary.NeedsAttention,
		WithRecords:    res.Summary.WithRecords,
		Complete:       res.Complete,
	}
	for _, e := range entries {
		dto := rosterEntryDTO{
			ID:             e.Profile.ID,
			FullName:       e.Profile.FullName,
			Email:          e.Profile.Email,
			NeedsAttention: e.NeedsAttention(),
		}
		if e.LatestInBody != nil {
			weight := e.LatestInBody.Weight
			dto.LatestWeight = &weight
		}
		if e.LatestMedical != nil {
			dto.LatestStatus = string(e.LatestMedical.Status)
		}
		if last := e.LastExamined(); !last.IsZero() {
			dto.LastExamined = last.Format(signup.DateLayout)
		}
		out.Swimmers = append(out.Swimmers, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

func handleAPISwimmerHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, err := projections.QueryGetSwimmerDetail(r.Context(), projections.GetSwimmerDetailQuery{SwimmerID: id}, projections.GetSwimmerDetailDeps{
		ProfileStore: stores.ProfileStore,
		RoleStore:    stores.RoleStore,
		InBodyStore:  stores.InBodyStore,
		MedicalStore: stores.MedicalStore,
	})
	if errors.Is(err, projections.ErrSwimmerNotFound) {
		middleware.WriteJSONError(w, http.StatusNotFound, orchestrators.MsgUnknownSwimmer)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		SwimmerID: id,
		FullName:  res.Profile.FullName,
		InBody:    toInBodyDTOs(res.InBody),
		Medical:   toMedicalDTOs(res.Medical),
		Complete:  res.Complete,
	})
}

func handleAPIMyExaminations(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, historyResponse{
		SwimmerID: sess.AccountID,
		InBody:    toInBodyDTOs(res.InBody),
		Medical:   toMedicalDTOs(res.Medical),
		Complete:  res.Complete,
	})
}
