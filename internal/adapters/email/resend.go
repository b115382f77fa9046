package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ErrNoRecipients is returned when a request has no To address.
var ErrNoRecipients = errors.New("email has no recipients")

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	timeout time.Duration
}

// NewResendSender creates a ResendSender.
// PRE: apiKey is a Resend API key; from is used when a request leaves From empty
func NewResendSender(apiKey, from string, timeout time.Duration) *ResendSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		timeout: timeout,
	}
}

// Send delivers one message.
// PRE: req has at least one recipient and a subject
// POST: the message is queued at Resend; MessageID is Resend's id
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &resend.SendEmailRequest{
		From:    s.fromFor(req),
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("email_event", "event", "resend_failed", "subject", req.Subject, "error", err)
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}

	slog.Info("email_event", "event", "resend_sent", "message_id", sent.Id, "subject", req.Subject)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

func (s *ResendSender) fromFor(req SendRequest) string {
	if req.From != "" {
		return req.From
	}
	return s.from
}
