package web

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"swimhealth/internal/adapters/email"
	"swimhealth/internal/adapters/http/middleware"
	"swimhealth/internal/adapters/http/perf"
	accountStore "swimhealth/internal/adapters/storage/account"
	inbodyStore "swimhealth/internal/adapters/storage/inbody"
	medicalStore "swimhealth/internal/adapters/storage/medical"
	profileStore "swimhealth/internal/adapters/storage/profile"
	roleStore "swimhealth/internal/adapters/storage/role"
	"swimhealth/internal/application/preferences"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	RoleStore    roleStore.Store
	ProfileStore profileStore.Store
	InBodyStore  inbodyStore.Store
	MedicalStore medicalStore.Store
}

// Options carries the HTTP settings resolved from configuration.
type Options struct {
	StaticDir          string
	CSRFKey            []byte // 32 bytes; random when empty
	SecureCookies      bool
	TrustedOrigins     []string
	JWTSecret          []byte // random when empty
	JWTTTL             time.Duration
	SlowRequest        time.Duration
	RateLimitPerSecond int
}

// Package-level dependencies, set by NewMux.
var (
	stores        *Stores
	sessions      *middleware.SessionStore
	settings      *preferences.Settings
	tokens        *middleware.TokenIssuer
	perfCollector *perf.Collector
)

// Email configuration, set by SetEmailSender. A nil sender disables welcome mail.
var (
	emailSender      email.Sender
	emailFromAddress string
	emailReplyTo     string
)

// SetEmailSender sets the sender used for account mail.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires routes and middleware. ctx bounds background work such as rate-limit sweeping.
func NewMux(ctx context.Context, opts Options, s *Stores, prefs *preferences.Settings, collector *perf.Collector) http.Handler {
	stores = s
	settings = prefs
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.SecureCookies

	if opts.JWTTTL <= 0 {
		opts.JWTTTL = time.Hour
	}
	tokens = middleware.NewTokenIssuer(secretOrRandom(opts.JWTSecret, "jwt"), opts.JWTTTL)

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	registerRoutes(mux)

	if opts.RateLimitPerSecond <= 0 {
		opts.RateLimitPerSecond = 20
	}
	limiter := middleware.NewRateLimiter(opts.RateLimitPerSecond, time.Second)
	go limiter.Run(ctx)
	go sessions.Run(ctx, middleware.SessionSweepInterval)

	// Outermost last: Timing -> RateLimit -> Auth -> BearerAuth -> CSRF -> SecurityHeaders -> mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(secretOrRandom(opts.CSRFKey, "csrf"), opts.SecureCookies, opts.TrustedOrigins),
		middleware.BearerAuth(tokens),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, opts.SlowRequest),
	)
}

func secretOrRandom(secret []byte, name string) []byte {
	if len(secret) > 0 {
		return secret
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	slog.Warn("random_secret", "name", name, "note", "sessions and tokens will not survive a restart")
	return key
}
