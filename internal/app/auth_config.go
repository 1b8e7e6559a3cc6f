package app

import (
	"strings"

	"github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/auth/otp"
)

const (
	OTPStoreDatabase = "database"
	OTPStoreRedis    = "redis"
)

// SessionServiceConfig converts AuthConfig into SessionService parameters.
func (c AuthConfig) SessionServiceConfig() auth.SessionConfig {
	ttl := c.JWT.SessionTTL
	if ttl <= 0 {
		ttl = auth.DefaultSessionTTL
	}

	return auth.SessionConfig{
		Secret: c.JWT.Secret,
		Issuer: c.JWT.Issuer,
		TTL:    ttl,
	}
}

// OTPOptions converts the OTP settings into service options. Zero values keep the service defaults.
func (c AuthConfig) OTPOptions() []otp.Option {
	var opts []otp.Option
	if c.OTP.TTL > 0 {
		opts = append(opts, otp.WithTTL(c.OTP.TTL))
	}
	if c.OTP.DeliveryTimeout > 0 {
		opts = append(opts, otp.WithDeliveryTimeout(c.OTP.DeliveryTimeout))
	}
	return opts
}

// OTPStoreKind returns the configured OTP backend, defaulting to the database.
func (c AuthConfig) OTPStoreKind() string {
	switch strings.ToLower(strings.TrimSpace(c.OTP.Store)) {
	case OTPStoreRedis:
		return OTPStoreRedis
	default:
		return OTPStoreDatabase
	}
}

// CookieOptions derives the session cookie attributes from the server settings.
func (c ServerConfig) CookieOptions() auth.CookieOptions {
	return auth.CookieOptions{
		Secure: c.IsProduction(),
		Domain: strings.TrimSpace(c.CookieDomain),
	}
}
