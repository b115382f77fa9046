package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"swimhealth/internal/domain/account"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("a1", "ann@club.test", account.RoleSwimmer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s, ok := ss.Get(token)
	if !ok || s.AccountID != "a1" || s.Role != account.RoleSwimmer {
		t.Fatalf("Get = %+v, %v", s, ok)
	}
	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Error("session survived Delete")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	ss := NewSessionStore()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }
	token, _ := ss.Create("a1", "ann@club.test", account.RoleCoach)

	now = now.Add(SessionTTL + time.Second)
	if _, ok := ss.Get(token); ok {
		t.Error("expired session returned")
	}
	if ss.Len() != 0 {
		t.Errorf("Len = %d, expired session not removed", ss.Len())
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	ss := NewSessionStore()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }
	stale, _ := ss.Create("a1", "ann@club.test", account.RoleSwimmer)
	ss.Create("a2", "bo@club.test", account.RoleSwimmer)

	now = now.Add(SessionTTL - time.Hour)
	fresh, _ := ss.Create("a3", "cy@club.test", account.RoleCoach)

	now = now.Add(2 * time.Hour)
	if n := ss.Sweep(); n != 2 {
		t.Errorf("Sweep removed %d, want 2", n)
	}
	if ss.Len() != 1 {
		t.Errorf("Len = %d, want 1", ss.Len())
	}
	if _, ok := ss.Get(fresh); !ok {
		t.Error("live session swept")
	}
	if _, ok := ss.Get(stale); ok {
		t.Error("expired session kept")
	}
}

func TestSessionStore_RunSweepsUntilCancelled(t *testing.T) {
	ss := NewSessionStore()
	ss.sessions["old"] = Session{AccountID: "a1", CreatedAt: time.Now().Add(-SessionTTL - time.Minute)}
	ss.sessions["new"] = Session{AccountID: "a2", CreatedAt: time.Now()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ss.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for ss.Len() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ss.Len() != 1 {
		t.Errorf("Len = %d after sweeps, want 1", ss.Len())
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAuth_AttachesSession(t *testing.T) {
	ss := NewSessionStore()
	token, _ := ss.Create("c1", "kim@club.test", account.RoleCoach)

	var got Session
	h := Auth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSessionFromContext(r.Context())
	}))
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got.AccountID != "c1" {
		t.Errorf("session = %+v", got)
	}
}

func TestRequireRole(t *testing.T) {
	swimmer := Session{AccountID: "s1", Role: account.RoleSwimmer}
	coach := Session{AccountID: "c1", Role: account.RoleCoach}
	tests := []struct {
		name     string
		sess     *Session
		allow    account.Role
		wantCode int
		wantLoc  string
	}{
		{"no session", nil, account.RoleCoach, http.StatusSeeOther, "/auth"},
		{"swimmer on coach page", &swimmer, account.RoleCoach, http.StatusSeeOther, "/profile"},
		{"coach on swimmer page", &coach, account.RoleSwimmer, http.StatusSeeOther, "/dashboard"},
		{"coach on coach page", &coach, account.RoleCoach, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/x", nil)
			if tt.sess != nil {
				req = req.WithContext(ContextWithSession(req.Context(), *tt.sess))
			}
			rec := httptest.NewRecorder()
			RequireRole(tt.allow)(okHandler()).ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok")
	ClearSessionCookie(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 2 || cookies[0].Value != "tok" || !cookies[0].HttpOnly || cookies[1].MaxAge >= 0 {
		t.Errorf("cookies = %+v", cookies)
	}
}
