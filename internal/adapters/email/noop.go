package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// NoopSender logs instead of delivering. Used in development and when no API key is configured.
type NoopSender struct {
	sent atomic.Int64
}

// NewNoopSender creates a NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the recipients and subject.
// PRE: req has at least one recipient
// POST: nothing is delivered; Sent() grows by one
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	n := s.sent.Add(1)
	slog.Info("email_event", "event", "noop_send", "to", req.To, "subject", req.Subject)
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", n),
		SentAt:    time.Now(),
	}, nil
}

// Sent reports how many messages were accepted.
func (s *NoopSender) Sent() int64 { return s.sent.Load() }
