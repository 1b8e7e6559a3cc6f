package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/api"
	"github.com/charlesng35/portfolio/internal/app"
	iauth "github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/auth/otp"
	sharedtestutil "github.com/charlesng35/portfolio/internal/database/testutil"
	"github.com/charlesng35/portfolio/internal/middleware"
	"github.com/charlesng35/portfolio/internal/models"
	"github.com/charlesng35/portfolio/internal/services"
	"github.com/charlesng35/portfolio/pkg/response"
)

// JWTSecret signs every session issued inside a test Env.
const JWTSecret = "test-suite-super-secret-key-32-bytes!!"

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Router   *gin.Engine
	Sessions *iauth.SessionService
	Outbox   *Outbox
	Admin    *models.Admin
	Config   *app.Config
}

// EnvOption customises NewEnv.
type EnvOption func(*app.Config)

// WithRateLimit overrides the per-route request budget applied to login and contact endpoints.
func WithRateLimit(requests int, window time.Duration) EnvOption {
	return func(cfg *app.Config) {
		cfg.Server.RateLimit = app.RateLimitConfig{Requests: requests, Window: window}
	}
}

// WithEnvironment sets server.environment, which controls cookie and header hardening.
func WithEnvironment(environment string) EnvOption {
	return func(cfg *app.Config) {
		cfg.Server.Environment = environment
	}
}

// NewEnv provisions a fresh handler test environment with migrations and the admin seeded.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAdmin())

	cfg := &app.Config{
		Server: app.ServerConfig{
			Environment: app.EnvironmentDevelopment,
			RateLimit:   app.RateLimitConfig{Requests: 100, Window: time.Minute},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
		},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: JWTSecret,
				Issuer: "test-suite",
			},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	sessions, err := iauth.NewSessionService(cfg.Auth.SessionServiceConfig())
	require.NoError(t, err)

	store, err := otp.NewGormStore(db)
	require.NoError(t, err)
	admins, err := services.NewAdminService(db)
	require.NoError(t, err)

	outbox := &Outbox{codes: make(map[string]string)}
	otpSvc, err := otp.NewService(store, admins, outbox, sessions, cfg.Auth.OTPOptions()...)
	require.NoError(t, err)

	rateStore := middleware.NewMemoryRateStore()
	t.Cleanup(rateStore.Close)

	router, err := api.NewRouter(db, cfg, sessions, otpSvc, rateStore)
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Router:   router,
		Sessions: sessions,
		Outbox:   outbox,
		Admin:    sharedtestutil.MustFindAdmin(t, db),
		Config:   cfg,
	}
}

// Outbox is an otp.Notifier that keeps the last code sent to each address.
type Outbox struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
	fail  error
}

func (o *Outbox) SendCode(_ context.Context, email, code string, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.codes[email] = code
	o.sent++
	return nil
}

// FailWith makes subsequent deliveries fail with err. A nil err restores delivery.
func (o *Outbox) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fail = err
}

// Code returns the last code delivered to email.
func (o *Outbox) Code(email string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	code, ok := o.codes[email]
	return code, ok
}

// Sent reports how many codes were delivered.
func (o *Outbox) Sent() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent
}

// RequestOTP asks for a code for email and returns the delivered value.
func (e *Env) RequestOTP(email string) string {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/auth/request-otp", map[string]string{"email": email}, nil)
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	code, ok := e.Outbox.Code(models.NormaliseEmail(email))
	require.True(e.T, ok, "no code delivered to %s", email)
	return code
}

// Login runs the full OTP flow for the seeded admin and returns the session cookie.
func (e *Env) Login() *http.Cookie {
	e.T.Helper()

	code := e.RequestOTP(e.Admin.Email)
	w := e.Request(http.MethodPost, "/api/auth/verify-otp", map[string]string{
		"email": e.Admin.Email,
		"otp":   code,
	}, nil)
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	cookie := SessionCookie(w)
	require.NotNil(e.T, cookie, "verify-otp did not set %s", iauth.SessionCookieName)
	require.NotEmpty(e.T, cookie.Value)
	return cookie
}

// SessionCookie returns the admin_token cookie set by a response, if any.
func SessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == iauth.SessionCookieName {
			return c
		}
	}
	return nil
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, JSON encoding body and
// attaching the session cookie when one is supplied.
func (e *Env) Request(method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(&http.Cookie{Name: session.Name, Value: session.Value})
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
