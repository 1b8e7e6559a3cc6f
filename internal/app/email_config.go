package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charlesng35/portfolio/pkg/mail"
)

// SMTPSettings converts EmailConfig to the mail package representation.
func (c EmailConfig) SMTPSettings() mail.SMTPSettings {
	return mail.SMTPSettings{
		Enabled:  c.SMTP.Enabled,
		Host:     strings.TrimSpace(c.SMTP.Host),
		Port:     c.SMTP.Port,
		Username: c.SMTP.Username,
		Password: c.SMTP.Password,
		From:     strings.TrimSpace(c.SMTP.From),
		UseTLS:   c.SMTP.UseTLS,
		Timeout:  c.SMTP.Timeout,
	}
}

// ValidateDelivery checks that login codes can be delivered. SMTP may only be
// disabled in development, where codes are written to the log instead.
func (c *Config) ValidateDelivery() error {
	if !c.Email.SMTP.Enabled {
		if c.Server.IsDevelopment() {
			return nil
		}
		return errors.New("email.smtp must be enabled outside development to deliver login codes")
	}
	if _, err := mail.NewSMTPMailer(c.Email.SMTPSettings()); err != nil {
		return fmt.Errorf("email.smtp: %w", err)
	}
	return nil
}
