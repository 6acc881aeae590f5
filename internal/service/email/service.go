package email

import (
	"context"
	"fmt"
	"strings"

	"donor-finder/internal/config"
	"donor-finder/internal/domain"
)

const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// Mailer delivers one message per call. It never retries.
type Mailer interface {
	Sender() string
	// Validate reports a configuration error when credentials are absent.
	Validate() error
	Send(ctx context.Context, msg domain.Message) error
}

func NewMailer(cfg *config.Config) (Mailer, error) {
	switch strings.ToLower(cfg.MailProvider) {
	case "", ProviderSMTP:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailSender, cfg.EmailAppPassword), nil
	case ProviderResend:
		return NewResendMailer(cfg.ResendAPIKey, cfg.EmailSender), nil
	default:
		return nil, fmt.Errorf("%w: unknown mail provider %q", domain.ErrConfiguration, cfg.MailProvider)
	}
}
