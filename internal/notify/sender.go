package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Message is a rendered email ready for a transport.
type Message struct {
	To      []string
	From    string
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult contains the transport's acknowledgement.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// NoopSender logs messages instead of delivering them. Used in development.
type NoopSender struct {
	log zerolog.Logger
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender(log zerolog.Logger) *NoopSender {
	return &NoopSender{log: log.With().Str("component", "noop_sender").Logger()}
}

func (s *NoopSender) Send(_ context.Context, msg Message) (SendResult, error) {
	s.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("Email suppressed")
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

// NewSender builds the transport named by provider: smtp, resend or noop.
func NewSender(provider string, cfg SenderConfig, log zerolog.Logger) Sender {
	switch provider {
	case "smtp":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.From)
	case "resend":
		return NewResendSender(cfg.ResendAPIKey, cfg.From)
	default:
		return NewNoopSender(log)
	}
}

// SenderConfig carries the transport credentials.
type SenderConfig struct {
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	ResendAPIKey string
}
