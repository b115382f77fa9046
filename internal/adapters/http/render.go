package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/application/projections"
	"swimhealth/internal/domain/inbody"
	"swimhealth/internal/domain/medical"
)

//go:embed templates/*.html
var templateFS embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer renders examination notes. Raw HTML in the input is escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("json_write_failed", "error", err)
	}
}

const flashCookieName = "swimhealth_flash"

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the flash cookie.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// redirectWithFlash sets a flash message and sends a 303 to target.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, msg string) {
	setFlash(w, msg)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// localPath accepts only same-origin absolute paths; anything else becomes fallback.
func localPath(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return u.RequestURI()
}

// asExamination lets templates pass either a range element or a pointer.
func asExamination(v any) *inbody.Examination {
	switch e := v.(type) {
	case *inbody.Examination:
		return e
	case inbody.Examination:
		return &e
	}
	return nil
}

func asResult(v any) *medical.Result {
	switch r := v.(type) {
	case *medical.Result:
		return r
	case medical.Result:
		return &r
	}
	return nil
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus renders layout.html, the shared partials and the named page with the given status.
func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role, email := "", ""
	if ok {
		role = sess.Role.String()
		email = sess.Email
	}
	pref := preferenceFor(r)
	flash := takeFlash(w, r)

	funcMap := template.FuncMap{
		"t":               func(key string) string { return translate(pref.Language, key) },
		"lang":            func() string { return pref.Language },
		"dir":             func() string { return pref.Direction() },
		"theme":           func() string { return pref.Theme },
		"toggledLanguage": func() string { return pref.ToggledLanguage() },
		"flash":           func() string { return flash },
		"currentRole":     func() string { return role },
		"currentEmail":    func() string { return email },
		"isLoggedIn":      func() bool { return role != "" },
		"requestPath":     func() string { return r.URL.RequestURI() },
		"csrfToken":       func() string { return csrf.Token(r) },
		"csrfField":       func() template.HTML { return csrf.TemplateField(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"formatDate":          projections.FormatDate,
		"formatWeight":        func(v any) string { return projections.FormatWeight(asExamination(v)) },
		"formatMeasure":       projections.FormatMeasure,
		"formatBloodPressure": func(v any) string { return projections.FormatBloodPressure(asResult(v)) },
		"formatHeartRate":     func(v any) string { return projections.FormatHeartRate(asResult(v)) },
		"orNoneReported":      projections.OrNoneReported,
		"orNotAvailable":      projections.OrNotAvailable,
		"statusClass":         func(s medical.Status) string { return "status-" + string(s) },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/partials.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("render_write_failed", "template", templateName, "error", err)
	}
}
