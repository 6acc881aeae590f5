package email

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"donor-finder/internal/domain"
)

type smtpMailer struct {
	host     string
	port     int
	sender   string
	password string
}

// NewSMTPMailer authenticates as sender. Port 465 uses implicit TLS;
// other ports upgrade with STARTTLS.
func NewSMTPMailer(host string, port int, sender, password string) Mailer {
	return &smtpMailer{host: host, port: port, sender: sender, password: password}
}

func (m *smtpMailer) Sender() string {
	return m.sender
}

func (m *smtpMailer) Validate() error {
	if m.sender == "" || m.password == "" {
		return fmt.Errorf("%w: set EMAIL_SENDER and EMAIL_APP_PASSWORD", domain.ErrMailNotConfigured)
	}
	return nil
}

func (m *smtpMailer) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := gomail.NewDialer(m.host, m.port, m.sender, m.password)
	d.TLSConfig = &tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}

	return d.DialAndSend(buildMessage(msg))
}

func buildMessage(msg domain.Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To)
	if len(msg.Bcc) > 0 {
		gm.SetHeader("Bcc", msg.Bcc...)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	return gm
}
