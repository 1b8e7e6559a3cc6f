package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/app"
	iauth "github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/auth/otp"
	"github.com/charlesng35/portfolio/internal/handlers"
	"github.com/charlesng35/portfolio/internal/middleware"
	"github.com/charlesng35/portfolio/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers every route.
// Privileged routes share a single Auth gate.
func NewRouter(db *gorm.DB, cfg *app.Config, sessions *iauth.SessionService, otpSvc *otp.Service, rateStore middleware.RateStore) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}
	if otpSvc == nil {
		return nil, fmt.Errorf("otp service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders(cfg.Server.IsProduction()))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	registerHealthRoutes(r, db)

	projectSvc, err := services.NewProjectService(db)
	if err != nil {
		return nil, err
	}
	skillSvc, err := services.NewSkillService(db)
	if err != nil {
		return nil, err
	}
	contactSvc, err := services.NewContactService(db)
	if err != nil {
		return nil, err
	}

	limit := middleware.RateLimit(rateStore, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window)

	api := r.Group("/api")

	// Every privileged route goes through this group.
	admin := api.Group("")
	admin.Use(middleware.NoStore(), middleware.Auth(sessions))

	registerAuthRoutes(api, admin, authRouteDeps{
		Handler:   handlers.NewAuthHandler(otpSvc, sessions.TTL(), cfg.Server.CookieOptions()),
		RateLimit: limit,
	})
	registerProjectRoutes(api, admin, handlers.NewProjectHandler(projectSvc))
	registerSkillRoutes(api, admin, handlers.NewSkillHandler(skillSvc))
	registerContactRoutes(api, admin, handlers.NewContactHandler(contactSvc), limit)

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
