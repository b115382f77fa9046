package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing message.
type SendRequest struct {
	To      []string
	From    string // "SwimHealth <noreply@swimhealth.test>"; empty uses the sender default
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult identifies an accepted message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers account mail such as the swimmer welcome message.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
