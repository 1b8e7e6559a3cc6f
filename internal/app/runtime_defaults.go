package app

import (
	"fmt"
	"strings"

	"github.com/charlesng35/portfolio/pkg/crypto"
)

const (
	// MinJWTSecretBytes is the shortest signing secret accepted outside development.
	MinJWTSecretBytes = 32
	jwtSecretBytes    = 48
)

// ApplyRuntimeDefaults validates critical secrets. Outside development a missing or short
// JWT secret is fatal; in development a throwaway secret is generated so sessions work
// until the next restart. The returned map names generated keys without exposing values.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	generated := make(map[string]bool)

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		if !cfg.Server.IsDevelopment() {
			return nil, fmt.Errorf("auth.jwt.secret must be configured")
		}
		secret, err := crypto.GenerateToken(jwtSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.Auth.JWT.Secret = secret
		generated["auth.jwt.secret"] = true
	}

	if len(cfg.Auth.JWT.Secret) < MinJWTSecretBytes && !cfg.Server.IsDevelopment() {
		return nil, fmt.Errorf("auth.jwt.secret must be at least %d bytes (current: %d)", MinJWTSecretBytes, len(cfg.Auth.JWT.Secret))
	}

	return generated, nil
}
