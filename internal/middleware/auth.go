package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/pkg/errors"
	"github.com/charlesng35/portfolio/pkg/logger"
	"github.com/charlesng35/portfolio/pkg/metrics"
	"github.com/charlesng35/portfolio/pkg/response"
)

const (
	CtxClaimsKey  = "authClaims"
	CtxAdminIDKey = "adminID"
)

// SessionVerifier validates session tokens.
type SessionVerifier interface {
	Verify(token string) (*iauth.Claims, error)
}

// Auth enforces a valid admin session cookie. Every failure produces the
// same 401 payload and the chain stops before any handler runs.
func Auth(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessions.Verify(iauth.SessionToken(c))
		if err != nil {
			metrics.SessionRejections.Inc()
			logger.WithModule("auth").Debug("session rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Abort(c, errors.ErrUnauthorized)
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxAdminIDKey, claims.AdminID)

		c.Next()
	}
}

// ClaimsFromContext returns the session claims stored by Auth.
func ClaimsFromContext(c *gin.Context) (*iauth.Claims, bool) {
	value, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*iauth.Claims)
	return claims, ok && claims != nil
}
