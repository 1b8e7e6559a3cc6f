package otp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/models"
	"github.com/charlesng35/portfolio/pkg/crypto"
	"github.com/charlesng35/portfolio/pkg/logger"
	"github.com/charlesng35/portfolio/pkg/metrics"
)

const (
	// CodeDigits is the length of an emailed login code.
	CodeDigits = 6
	// DefaultTTL is how long a code stays valid after issue.
	DefaultTTL = 10 * time.Minute

	defaultDeliveryTimeout = 15 * time.Second
)

var (
	// ErrInvalidInput signals a missing email or code.
	ErrInvalidInput = errors.New("otp: email and code are required")
	// ErrInvalidOrExpired covers wrong, expired, consumed and never issued codes.
	ErrInvalidOrExpired = errors.New("otp: invalid or expired code")
	// ErrDeliveryFailed signals the notifier could not hand the code over.
	ErrDeliveryFailed = errors.New("otp: code delivery failed")
)

// AdminDirectory resolves administrators by email.
type AdminDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// SessionIssuer signs session tokens for verified administrators.
type SessionIssuer interface {
	Issue(input auth.SessionInput) (*auth.IssuedSession, error)
}

// Option customises the Service.
type Option func(*Service)

// WithTTL overrides the code lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithDeliveryTimeout bounds how long the notifier may take.
func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.deliveryTimeout = timeout
		}
	}
}

// WithClock injects a custom time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithCodeGenerator replaces the random code source.
func WithCodeGenerator(generate func() (string, error)) Option {
	return func(s *Service) {
		if generate != nil {
			s.generate = generate
		}
	}
}

// WithLogger sets the logger used for delivery and store failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service runs the two step email login: request a code, then exchange it
// for a session.
type Service struct {
	store           Store
	admins          AdminDirectory
	notifier        Notifier
	sessions        SessionIssuer
	ttl             time.Duration
	deliveryTimeout time.Duration
	now             func() time.Time
	generate        func() (string, error)
	log             *zap.Logger
}

// NewService wires the login flow.
func NewService(store Store, admins AdminDirectory, notifier Notifier, sessions SessionIssuer, opts ...Option) (*Service, error) {
	switch {
	case store == nil:
		return nil, errors.New("otp service: store is required")
	case admins == nil:
		return nil, errors.New("otp service: admin directory is required")
	case notifier == nil:
		return nil, errors.New("otp service: notifier is required")
	case sessions == nil:
		return nil, errors.New("otp service: session issuer is required")
	}

	svc := &Service{
		store:           store,
		admins:          admins,
		notifier:        notifier,
		sessions:        sessions,
		ttl:             DefaultTTL,
		deliveryTimeout: defaultDeliveryTimeout,
		now:             func() time.Time { return time.Now().UTC() },
		generate:        func() (string, error) { return crypto.GenerateNumericCode(CodeDigits) },
		log:             logger.WithModule("otp"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// TTL reports the configured code lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// RequestCode issues a fresh code for a registered administrator and sends
// it. Earlier codes for the email stop working. The code is never returned.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	email = models.NormaliseEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	if _, err := s.admins.FindByEmail(ctx, email); err != nil {
		metrics.AuthAttempts.WithLabelValues("request", "unknown_admin").Inc()
		return err
	}

	code, err := s.generate()
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("request", "error").Inc()
		return fmt.Errorf("otp: generate code: %w", err)
	}

	if err := s.store.Replace(ctx, email, code, s.now().Add(s.ttl)); err != nil {
		metrics.AuthAttempts.WithLabelValues("request", "error").Inc()
		return fmt.Errorf("otp: store code: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	defer cancel()

	if err := s.notifier.SendCode(sendCtx, email, code, s.ttl); err != nil {
		metrics.OTPDeliveries.WithLabelValues("failed").Inc()
		metrics.AuthAttempts.WithLabelValues("request", "delivery_failed").Inc()
		s.log.Error("otp delivery failed", logger.Email("email", email), zap.Error(err))

		if discardErr := s.store.Discard(context.WithoutCancel(ctx), email, code); discardErr != nil {
			s.log.Warn("discard undelivered otp", logger.Email("email", email), zap.Error(discardErr))
		}
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	metrics.OTPDeliveries.WithLabelValues("sent").Inc()
	metrics.AuthAttempts.WithLabelValues("request", "sent").Inc()
	return nil
}

// VerifyCode consumes a code and issues a session for its administrator.
// A code can be exchanged at most once, even under concurrent attempts.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (*auth.IssuedSession, *models.Admin, error) {
	email = models.NormaliseEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, nil, ErrInvalidInput
	}

	ok, err := s.store.Consume(ctx, email, code, s.now())
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("verify", "error").Inc()
		return nil, nil, fmt.Errorf("otp: consume code: %w", err)
	}
	if !ok {
		metrics.AuthAttempts.WithLabelValues("verify", "invalid").Inc()
		return nil, nil, ErrInvalidOrExpired
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("verify", "unknown_admin").Inc()
		return nil, nil, err
	}

	session, err := s.sessions.Issue(auth.SessionInput{
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
	})
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("verify", "error").Inc()
		return nil, nil, fmt.Errorf("otp: issue session: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("verify", "success").Inc()
	return session, admin, nil
}

// PurgeExpired removes dead codes from the store. Verification never relies on it.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.PurgeExpired(ctx, s.now())
}
