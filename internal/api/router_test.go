package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/portfolio/internal/app"
	iauth "github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/auth/otp"
	testutil "github.com/charlesng35/portfolio/internal/database/testutil"
	"github.com/charlesng35/portfolio/internal/services"
)

func newTestRouter(t *testing.T, cfg *app.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAdmin())

	sessions, err := iauth.NewSessionService(iauth.SessionConfig{Secret: "router-test-secret-router-test-secret"})
	require.NoError(t, err)
	store, err := otp.NewGormStore(db)
	require.NoError(t, err)
	admins, err := services.NewAdminService(db)
	require.NoError(t, err)
	notifier := otp.NotifierFunc(func(context.Context, string, string, time.Duration) error { return nil })
	otpSvc, err := otp.NewService(store, admins, notifier, sessions)
	require.NoError(t, err)

	router, err := NewRouter(db, cfg, sessions, otpSvc, nil)
	require.NoError(t, err)
	return router
}

func TestRouter_RegistersRoutes(t *testing.T) {
	router := newTestRouter(t, &app.Config{
		Monitoring: app.MonitoringConfig{Prometheus: app.PrometheusConfig{Enabled: true}},
	})

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /api/auth/check",
		"POST /api/auth/request-otp",
		"POST /api/auth/verify-otp",
		"POST /api/auth/logout",
		"GET /api/projects",
		"POST /api/projects",
		"PUT /api/projects/:id",
		"DELETE /api/projects/:id",
		"GET /api/skills",
		"POST /api/skills",
		"PUT /api/skills/:id",
		"DELETE /api/skills/:id",
		"POST /api/contact",
		"GET /api/contact",
		"PATCH /api/contact/:id",
		"DELETE /api/contact/:id",
		"GET /metrics",
	} {
		require.True(t, registered[want], "route %s not registered", want)
	}
}

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	router := newTestRouter(t, &app.Config{})

	for _, tc := range []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/projects", http.StatusOK},
		{http.MethodGet, "/api/skills", http.StatusOK},
		{http.MethodGet, "/api/auth/check", http.StatusUnauthorized},
		{http.MethodGet, "/api/contact", http.StatusUnauthorized},
		{http.MethodDelete, "/api/projects/abc", http.StatusUnauthorized},
		{http.MethodPatch, "/api/contact/abc", http.StatusUnauthorized},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		router.ServeHTTP(w, req)
		require.Equal(t, tc.status, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_MetricsToggle(t *testing.T) {
	disabled := newTestRouter(t, &app.Config{})
	w := httptest.NewRecorder()
	disabled.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	custom := newTestRouter(t, &app.Config{
		Monitoring: app.MonitoringConfig{Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/internal/metrics"}},
	})
	w = httptest.NewRecorder()
	custom.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestNewRouterRequiresDependencies(t *testing.T) {
	_, err := NewRouter(nil, &app.Config{}, nil, nil, nil)
	require.Error(t, err)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	_, err = NewRouter(db, nil, nil, nil, nil)
	require.Error(t, err)

	_, err = NewRouter(db, &app.Config{}, nil, nil, nil)
	require.Error(t, err)
}
