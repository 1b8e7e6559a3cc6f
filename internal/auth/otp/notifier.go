package otp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charlesng35/portfolio/pkg/mail"
)

// Notifier delivers a login code to the administrator out of band.
type Notifier interface {
	SendCode(ctx context.Context, email, code string, ttl time.Duration) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, email, code string, ttl time.Duration) error

func (f NotifierFunc) SendCode(ctx context.Context, email, code string, ttl time.Duration) error {
	return f(ctx, email, code, ttl)
}

var codeMessage = mail.MustTemplate("admin-otp",
	"Admin Login OTP",
	`Your OTP for admin login is: {{.Code}}

This code will expire in {{.Minutes}} minutes.

If you did not request this code, you can ignore this email.
`)

// MailNotifier sends codes through a mail.Mailer.
type MailNotifier struct {
	mailer mail.Mailer
	from   string
}

// NewMailNotifier wraps mailer. from overrides the mailer's default sender when set.
func NewMailNotifier(mailer mail.Mailer, from string) (*MailNotifier, error) {
	if mailer == nil {
		return nil, errors.New("otp notifier: mailer is required")
	}
	return &MailNotifier{mailer: mailer, from: from}, nil
}

func (n *MailNotifier) SendCode(ctx context.Context, email, code string, ttl time.Duration) error {
	msg, err := codeMessage.Render(map[string]any{
		"Code":    code,
		"Minutes": int(math.Ceil(ttl.Minutes())),
	}, email)
	if err != nil {
		return err
	}
	msg.From = n.from

	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("otp notifier: send to %s: %w", email, err)
	}
	return nil
}
