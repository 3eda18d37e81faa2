package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Sender is what the auth flows need from a mail backend.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, email, name string) error
	SendPasswordResetEmail(ctx context.Context, email, resetLink string) error
	SendPasswordChangedEmail(ctx context.Context, email string) error
}

// LogSender writes mails to the log instead of sending them. It is used when
// no Resend key is configured.
type LogSender struct{}

func (LogSender) SendWelcomeEmail(ctx context.Context, email, name string) error {
	log.Info().Str("to", email).Msg("welcome email (not sent: mail disabled)")
	return nil
}

func (LogSender) SendPasswordResetEmail(ctx context.Context, email, resetLink string) error {
	log.Info().Str("to", email).Str("link", resetLink).Msg("password reset email (not sent: mail disabled)")
	return nil
}

func (LogSender) SendPasswordChangedEmail(ctx context.Context, email string) error {
	log.Info().Str("to", email).Msg("password changed email (not sent: mail disabled)")
	return nil
}

// New returns the Resend service when apiKey is set and LogSender otherwise.
func New(apiKey, from string) (Sender, error) {
	if apiKey == "" {
		log.Warn().Msg("RESEND_API_KEY not set, emails will only be logged")
		return LogSender{}, nil
	}
	return NewEmailService(apiKey, from)
}
