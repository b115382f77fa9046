package web

import (
	"errors"
	"net/http"

	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/domain/preference"
)

const preferenceCookieAge = 365 * 24 * 60 * 60

// handlePreferences updates language and theme. Blank or unknown values keep the current one.
// Accounts persist through Settings; visitors get cookies.
func handlePreferences(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	pref := preferenceFor(r)
	if lang := r.FormValue("language"); preference.ValidLanguage(lang) {
		pref.Language = lang
	}
	if theme := r.FormValue("theme"); preference.ValidTheme(theme) {
		pref.Theme = theme
	}
	next := localPath(r.FormValue("next"), "/")

	sess, ok := middleware.GetSessionFromContext(r.Context())
	if ok && settings != nil {
		if _, err := settings.Set(r.Context(), sess.AccountID, pref); err != nil {
			if errors.Is(err, preference.ErrInvalidLanguage) || errors.Is(err, preference.ErrInvalidTheme) {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	for name, value := range map[string]string{langCookieName: pref.Language, themeCookieName: pref.Theme} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			MaxAge:   preferenceCookieAge,
			HttpOnly: true,
			Secure:   middleware.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}
