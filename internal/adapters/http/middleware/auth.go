package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"swimhealth/internal/domain/account"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionTTL is how long a sign-in lasts.
const SessionTTL = 24 * time.Hour

// SessionSweepInterval is how often Run drops expired sessions.
const SessionSweepInterval = 10 * time.Minute

// SessionCookieName names the cookie carrying the session token.
const SessionCookieName = "swimhealth_session"

// SecureCookies marks session cookies Secure. Set in production.
var SecureCookies = false

// Session is the signed-in identity attached to a request.
type Session struct {
	AccountID string
	Email     string
	Role      account.Role
	CreatedAt time.Time
}

// SessionStore keeps sessions in memory, keyed by an opaque token.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session), now: time.Now}
}

// Create stores a session and returns its token.
// PRE: accountID is non-empty; role is valid
// POST: Get(token) returns the session until SessionTTL passes
func (ss *SessionStore) Create(accountID, email string, role account.Role) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{AccountID: accountID, Email: email, Role: role, CreatedAt: ss.now()}
	return token, nil
}

// Get returns a live session. Expired sessions are removed.
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	s, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(s.CreatedAt) > SessionTTL {
		ss.Delete(token)
		return Session{}, false
	}
	return s, true
}

// Delete removes a session.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// Len reports how many sessions are held, expired ones included.
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Sweep drops every expired session and reports how many were removed.
func (ss *SessionStore) Sweep() int {
	now := ss.now()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	removed := 0
	for token, s := range ss.sessions {
		if now.Sub(s.CreatedAt) > SessionTTL {
			delete(ss.sessions, token)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (ss *SessionStore) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := ss.Sweep(); n > 0 {
				slog.Debug("session_sweep", "removed", n, "remaining", ss.Len())
			}
		}
	}
}

// Auth attaches the cookie's session to the request context. It never blocks.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
				if s, ok := sessions.Get(c.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a page. No session redirects to /auth; a session with
// another role redirects to that role's home.
func RequireRole(roles ...account.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/auth", http.StatusSeeOther)
				return
			}
			if !hasRole(s.Role, roles) {
				slog.Info("auth_event", "event", "role_redirect", "account_id", s.AccountID, "role", s.Role.String(), "path", r.URL.Path)
				http.Redirect(w, r, s.Role.HomePath(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasRole(role account.Role, roles []account.Role) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// GetSessionFromContext returns the request's session, if any.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	return s, ok
}

// ContextWithSession attaches s to ctx. Used by Auth, BearerAuth and tests.
func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SetSessionCookie writes the session cookie.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
