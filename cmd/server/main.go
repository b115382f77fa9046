package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	emailPkg "swimhealth/internal/adapters/email"
	web "swimhealth/internal/adapters/http"
	"swimhealth/internal/adapters/http/perf"
	"swimhealth/internal/adapters/storage"
	accountStore "swimhealth/internal/adapters/storage/account"
	inbodyStore "swimhealth/internal/adapters/storage/inbody"
	medicalStore "swimhealth/internal/adapters/storage/medical"
	preferenceStore "swimhealth/internal/adapters/storage/preference"
	profileStore "swimhealth/internal/adapters/storage/profile"
	roleStore "swimhealth/internal/adapters/storage/role"
	"swimhealth/internal/application/orchestrators"
	"swimhealth/internal/application/preferences"
	"swimhealth/internal/config"
	"swimhealth/internal/domain/preference"
	"swimhealth/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnvironment()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level := slog.LevelInfo
	if !cfg.IsProduction() {
		level = slog.LevelDebug
	}
	logging.Setup(os.Stderr, cfg.IsProduction(), level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// WAL, foreign keys and a busy timeout on every connection.
	dsn := cfg.Database.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db, cfg.Database.Path); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, time.Duration(cfg.Perf.SlowQueryMS)*time.Millisecond)

	stores := &web.Stores{
		AccountStore: accountStore.NewSQLiteStore(timedDB),
		RoleStore:    roleStore.NewSQLiteStore(timedDB),
		ProfileStore: profileStore.NewSQLiteStore(timedDB),
		InBodyStore:  inbodyStore.NewSQLiteStore(timedDB),
		MedicalStore: medicalStore.NewSQLiteStore(timedDB),
	}

	prefs := preferences.New(preferenceStore.NewSQLiteStore(timedDB), preference.Preference{
		Language: cfg.Preferences.Language,
		Theme:    cfg.Preferences.Theme,
	})
	if err := prefs.Init(ctx); err != nil {
		return err
	}

	if cfg.SeedDemo {
		err := orchestrators.ExecuteSeedDemo(ctx, orchestrators.SeedDemoDeps{
			SignUp: orchestrators.SignUpDeps{
				AccountStore: stores.AccountStore,
				RoleStore:    stores.RoleStore,
				ProfileStore: stores.ProfileStore,
				GenerateID:   generateID,
				Now:          time.Now,
			},
			InBodyStore:  stores.InBodyStore,
			MedicalStore: stores.MedicalStore,
		})
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	if cfg.Email.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.Email.ResendKey, cfg.Email.From, 0), cfg.Email.From, cfg.Email.ReplyTo)
		slog.Info("email_sender", "kind", "resend")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.Email.From, cfg.Email.ReplyTo)
		if cfg.IsProduction() {
			slog.Warn("email_sender", "kind", "noop", "note", "SWIMHEALTH_RESEND_KEY is not set, welcome mail is disabled")
		} else {
			slog.Info("email_sender", "kind", "noop")
		}
	}

	handler := web.NewMux(ctx, web.Options{
		StaticDir:     cfg.StaticDir,
		CSRFKey:       []byte(cfg.Security.CSRFKey),
		SecureCookies: cfg.IsProduction(),
		JWTSecret:     []byte(cfg.Security.JWTSecret),
		JWTTTL:        cfg.Security.JWTTTL,
		SlowRequest:   time.Duration(cfg.Perf.SlowRequestMS) * time.Millisecond,
	}, stores, prefs, collector)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	started := time.Now()
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logPerfSnapshot(collector, started)
	return nil
}

func generateID() string {
	return uuid.New().String()
}

// logPerfSnapshot records the request percentiles and slowest routes of this run.
func logPerfSnapshot(c *perf.Collector, since time.Time) {
	snap := c.Snapshot(since, 5)
	slog.Info("perf_snapshot",
		"recorded", snap.TotalRecorded,
		"server_errors", snap.ServerErrors,
		"requests", snap.Requests,
		"p50_ms", snap.RequestP50Ms,
		"p95_ms", snap.RequestP95Ms,
		"p99_ms", snap.RequestP99Ms,
	)
	for _, s := range snap.SlowestPaths {
		slog.Info("perf_slow_path", "route", s.Label, "count", s.Count, "avg_ms", s.AvgMs, "max_ms", s.MaxMs)
	}
	for _, s := range snap.SlowestQueries {
		slog.Info("perf_slow_query", "statement", s.Label, "count", s.Count, "avg_ms", s.AvgMs, "max_ms", s.MaxMs)
	}
}
