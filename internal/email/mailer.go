package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinicdesk/clinic-api/internal/config"
)

// Mailer sends transactional mail. Callers treat failures as best-effort.
type Mailer interface {
	SendWelcome(to, name string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) SendWelcome(to, name string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Welcome %s", name))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nThank you for registering with us. We're glad to have you!", name))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
