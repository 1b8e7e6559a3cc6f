package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of an admin session token and cookie.
const DefaultSessionTTL = 7 * 24 * time.Hour

// DefaultIssuer is used when no issuer is configured.
const DefaultIssuer = "portfolio"

// ErrUnauthenticated is returned for every token that cannot be trusted.
// The wrapped cause is meant for logs, never for clients.
var ErrUnauthenticated = errors.New("auth: unauthenticated")

// SessionConfig bundles the configuration required to build a SessionService.
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Clock  func() time.Time
}

// Claims are the admin identity claims embedded in session tokens.
type Claims struct {
	AdminID string `json:"aid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// SessionInput identifies the administrator a session is issued for.
type SessionInput struct {
	AdminID string
	Email   string
	Name    string
}

// IssuedSession is a freshly signed token with its claims.
type IssuedSession struct {
	Token     string
	Claims    *Claims
	ExpiresAt time.Time
}

// SessionService issues and verifies HS256 signed session tokens. It keeps no
// server side state, so tokens stay valid until they expire.
type SessionService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionService constructs a SessionService. An empty secret is rejected.
func NewSessionService(cfg SessionConfig) (*SessionService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session: secret must be provided")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = DefaultIssuer
	}

	now := func() time.Time { return time.Now().UTC() }
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &SessionService{
		secret: []byte(cfg.Secret),
		issuer: issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// TTL reports the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a session token for the supplied administrator.
func (s *SessionService) Issue(input SessionInput) (*IssuedSession, error) {
	if input.AdminID == "" {
		return nil, errors.New("session: admin id is required")
	}
	if input.Email == "" {
		return nil, errors.New("session: admin email is required")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		AdminID: input.AdminID,
		Email:   input.Email,
		Name:    input.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.AdminID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("session: sign token: %w", err)
	}

	return &IssuedSession{
		Token:     signed,
		Claims:    claims,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify parses a session token. Every failure wraps ErrUnauthenticated.
func (s *SessionService) Verify(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrUnauthenticated)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if claims.AdminID == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing admin claims", ErrUnauthenticated)
	}

	return &claims, nil
}
