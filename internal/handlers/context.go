package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentAdminID returns the administrator behind the request, or "" on public routes.
func currentAdminID(c *gin.Context) string {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return ""
	}
	return claims.AdminID
}

func currentClaims(c *gin.Context) (*iauth.Claims, bool) {
	return middleware.ClaimsFromContext(c)
}
