// Package mailer delivers registration confirmation emails over SMTP.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP connection details and the public base URL used to build
// confirmation links.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// Mailer sends confirmation emails carrying a one-time confirmation link.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

// New creates a Mailer from the given SMTP configuration.
func New(cfg Config) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: cfg.BaseURL,
	}
}

// SendConfirmation emails the confirmation link for a registration.
func (m *Mailer) SendConfirmation(to, teamName, event, registrationID string) error {
	link := fmt.Sprintf("%s/api/confirm/%s", m.baseURL, registrationID)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Confirm your registration for %s", event))
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Team <b>%s</b> has been registered for <b>%s</b>.</p>"+
			"<p>Please confirm your email address by clicking <a href=%q>here</a>.</p>"+
			"<p>The link can be used only once.</p>",
		teamName, event, link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email to %s: %w", to, err)
	}
	return nil
}
