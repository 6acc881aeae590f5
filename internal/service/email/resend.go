package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"donor-finder/internal/domain"
)

type resendMailer struct {
	client *resend.Client
	apiKey string
	sender string
}

func NewResendMailer(apiKey, sender string) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		apiKey: apiKey,
		sender: sender,
	}
}

func (m *resendMailer) Sender() string {
	return m.sender
}

func (m *resendMailer) Validate() error {
	if m.sender == "" || m.apiKey == "" {
		return fmt.Errorf("%w: set EMAIL_SENDER and RESEND_API_KEY", domain.ErrMailNotConfigured)
	}
	return nil
}

func (m *resendMailer) Send(ctx context.Context, msg domain.Message) error {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Bcc:     msg.Bcc,
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	_, err := m.client.Emails.SendWithContext(ctx, params)
	return err
}
