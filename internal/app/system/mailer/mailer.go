// Package mailer renders notifications as emails and hands them to a
// Sender. The default sender writes them to the structured log; notifications
// themselves are the durable outbox.
package mailer

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Email is a rendered message.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"textBody"`
	HTMLBody string `json:"htmlBody"`
}

// ErrNoRecipient is returned when an email has no To address.
var ErrNoRecipient = errors.New("mailer: email has no recipient")

// Sender delivers emails.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// LogSender "delivers" by logging the message at info level.
type LogSender struct {
	Log *zap.Logger
}

// NewLogSender returns a LogSender; a nil logger discards.
func NewLogSender(log *zap.Logger) *LogSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSender{Log: log}
}

func (s *LogSender) Send(_ context.Context, e Email) error {
	if strings.TrimSpace(e.To) == "" {
		return ErrNoRecipient
	}
	s.Log.Info("email queued",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.Int("text_bytes", len(e.TextBody)),
		zap.Int("html_bytes", len(e.HTMLBody)),
	)
	return nil
}
