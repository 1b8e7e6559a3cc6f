package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/portfolio/internal/handlers"
	"github.com/charlesng35/portfolio/internal/middleware"
)

type authRouteDeps struct {
	Handler   *handlers.AuthHandler
	RateLimit gin.HandlerFunc
}

func registerAuthRoutes(api, admin *gin.RouterGroup, deps authRouteDeps) {
	auth := api.Group("/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/request-otp", deps.RateLimit, deps.Handler.RequestOTP)
		auth.POST("/verify-otp", deps.RateLimit, deps.Handler.VerifyOTP)
		auth.POST("/logout", deps.Handler.Logout)
	}

	admin.GET("/auth/check", deps.Handler.Check)
}
