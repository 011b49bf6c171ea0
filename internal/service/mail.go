package service

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Mailer delivers account mail. Calls block until the message is handed to
// the SMTP server
type Mailer interface {
	SendVerificationEmail(to, code string) error
	SendRegistrationEmail(to string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SiteName string
}

type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.SiteName == "" {
		cfg.SiteName = "Best Computer Training Center"
	}

	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *SMTPMailer) SendVerificationEmail(to, code string) error {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>%s</h2>
  <p>Your verification code is:</p>
  <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
  <p>If you didn't sign up you can ignore this email.</p>
</div>`, m.cfg.SiteName, code)

	return m.send(to, "Your verification code", body)
}

func (m *SMTPMailer) SendRegistrationEmail(to string) error {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto;">
  <h2>Welcome to %s</h2>
  <p>Your account has been verified and you're now subscribed to our updates.</p>
</div>`, m.cfg.SiteName)

	return m.send(to, "Registration successful", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return errors.New("mail config missing")
	}

	if strings.TrimSpace(to) == "" {
		return errors.New("empty recipient")
	}

	if strings.EqualFold(to, m.cfg.From) {
		return errors.New("invalid email address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("%s - %s", subject, m.cfg.SiteName))
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email, %w", err)
	}

	return nil
}
