package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"swimhealth/internal/adapters/http/perf"
)

// DefaultSlowRequest is used when Timing gets a non-positive threshold.
const DefaultSlowRequest = 200 * time.Millisecond

var requestSeq atomic.Uint64

type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader remembers the status.
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

// Timing logs each request and records it in collector (which may be nil).
// /static/ is skipped. Requests at or above slow log at WARN, the rest at DEBUG.
func Timing(collector *perf.Collector, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			id := requestSeq.Add(1)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			ms := float64(elapsed.Microseconds()) / 1000.0
			level := slog.LevelDebug
			msg := "request"
			if elapsed >= slow {
				level, msg = slog.LevelWarn, "slow_request"
			}
			slog.Log(r.Context(), level, msg,
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", ms,
			)
			if collector != nil {
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Label:      r.Method + " " + routeLabel(r),
					StatusCode: sw.status,
					DurationMs: ms,
					Timestamp:  start,
				})
			}
		})
	}
}

// routeLabel prefers the matched mux pattern so /dashboard/swimmers/{id} groups together.
func routeLabel(r *http.Request) string {
	if p := r.Pattern; p != "" {
		if i := strings.IndexByte(p, ' '); i >= 0 {
			return p[i+1:]
		}
		return p
	}
	return r.URL.Path
}
