package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/cache"
	"github.com/charlesng35/portfolio/internal/database"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.True(t, cfg.Server.IsProduction())
	require.Equal(t, "warn", cfg.Server.LogLevel)
	require.Equal(t, []string{"https://portfolio.example.com"}, cfg.Server.CORSOrigins)
	require.Equal(t, 3, cfg.Server.RateLimit.Requests)
	require.Equal(t, 2*time.Minute, cfg.Server.RateLimit.Window)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)
	require.Equal(t, "require", cfg.Database.Postgres.Options["sslmode"])

	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "redis.example.com:6380", cfg.Cache.Redis.Address)
	require.Equal(t, 2, cfg.Cache.Redis.DB)
	require.Equal(t, 3*time.Second, cfg.Cache.Redis.Timeout)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/internal/metrics", cfg.Monitoring.Prometheus.Endpoint)

	require.Equal(t, "file-secret-file-secret-file-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "portfolio-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 72*time.Hour, cfg.Auth.JWT.SessionTTL)
	require.Equal(t, 5*time.Minute, cfg.Auth.OTP.TTL)
	require.Equal(t, OTPStoreRedis, cfg.Auth.OTPStoreKind())
	require.Equal(t, 20*time.Second, cfg.Auth.OTP.DeliveryTimeout)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.Equal(t, "no-reply@example.com", cfg.Email.SMTP.From)
	require.Equal(t, 15*time.Second, cfg.Email.SMTP.Timeout)

	require.False(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@every 30m", cfg.Maintenance.OTPCleanupSchedule)

	require.Equal(t, "owner@example.com", cfg.Admin.Email)
	require.Equal(t, "Site Owner", cfg.Admin.Name)
}

func TestLoadConfigFrom(t *testing.T) {
	fromDir, err := LoadConfigFrom("testdata")
	require.NoError(t, err)
	require.Equal(t, 9090, fromDir.Server.Port)

	fromFile, err := LoadConfigFrom(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, fromDir.Server.Port, fromFile.Server.Port)

	_, err = LoadConfigFrom(filepath.Join(t.TempDir(), "missing"))
	require.ErrorContains(t, err, "does not exist")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.True(t, cfg.Server.IsProduction())
	require.Equal(t, 5, cfg.Server.RateLimit.Requests)
	require.Equal(t, time.Minute, cfg.Server.RateLimit.Window)
	require.Equal(t, RateStoreShared, cfg.Server.RateLimit.StoreKind())
	require.Equal(t, TimeoutConfig{
		ReadHeader: 10 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       2 * time.Minute,
		Shutdown:   15 * time.Second,
	}, cfg.Server.Timeouts)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 10, cfg.Database.Pool.MaxOpenConns)
	require.Equal(t, 30*time.Minute, cfg.Database.Pool.ConnMaxLifetime)
	require.Equal(t, 168*time.Hour, cfg.Auth.JWT.SessionTTL)
	require.Equal(t, 10*time.Minute, cfg.Auth.OTP.TTL)
	require.Equal(t, OTPStoreDatabase, cfg.Auth.OTPStoreKind())
	require.Equal(t, 15*time.Second, cfg.Auth.OTP.DeliveryTimeout)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@hourly", cfg.Maintenance.OTPCleanupSchedule)
	require.Empty(t, cfg.Auth.JWT.Secret)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("PORTFOLIO_SERVER_ENVIRONMENT", "development")
	t.Setenv("PORTFOLIO_SERVER_PORT", "7070")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
	require.True(t, cfg.Server.IsDevelopment())
	require.Equal(t, 7070, cfg.Server.Port)
}

func TestAuthConfigAdapters(t *testing.T) {
	cfg := AuthConfig{
		JWT: JWTSettings{
			Secret:     "secret",
			Issuer:     "issuer",
			SessionTTL: 48 * time.Hour,
		},
		OTP: OTPSettings{TTL: 5 * time.Minute, DeliveryTimeout: time.Second},
	}

	require.Equal(t, auth.SessionConfig{
		Secret: "secret",
		Issuer: "issuer",
		TTL:    48 * time.Hour,
	}, cfg.SessionServiceConfig())
	require.Len(t, cfg.OTPOptions(), 2)
}

func TestAuthConfigAdaptersFallback(t *testing.T) {
	var cfg AuthConfig

	require.Equal(t, auth.DefaultSessionTTL, cfg.SessionServiceConfig().TTL)
	require.Empty(t, cfg.OTPOptions())
	require.Equal(t, OTPStoreDatabase, cfg.OTPStoreKind())
}

func TestCookieOptionsFollowEnvironment(t *testing.T) {
	prod := ServerConfig{Environment: "Production", CookieDomain: " example.com "}
	require.Equal(t, auth.CookieOptions{Secure: true, Domain: "example.com"}, prod.CookieOptions())

	dev := ServerConfig{Environment: EnvironmentDevelopment}
	require.False(t, dev.CookieOptions().Secure)
}

func TestEmailConfigAdapter(t *testing.T) {
	cfg := EmailConfig{
		SMTP: SMTPConfig{
			Enabled:  true,
			Host:     " smtp.example.com ",
			Port:     2525,
			Username: "user",
			Password: "pass",
			From:     "no-reply@example.com",
			UseTLS:   true,
			Timeout:  10 * time.Second,
		},
	}

	settings := cfg.SMTPSettings()
	require.True(t, settings.Enabled)
	require.Equal(t, "smtp.example.com", settings.Host)
	require.Equal(t, 2525, settings.Port)
	require.Equal(t, "user", settings.Username)
	require.Equal(t, "pass", settings.Password)
	require.Equal(t, "no-reply@example.com", settings.From)
	require.True(t, settings.UseTLS)
	require.Equal(t, 10*time.Second, settings.Timeout)
}

func TestRateLimitStoreKind(t *testing.T) {
	require.Equal(t, RateStoreShared, RateLimitConfig{}.StoreKind())
	require.Equal(t, RateStoreShared, RateLimitConfig{Store: "redis"}.StoreKind())
	require.Equal(t, RateStoreMemory, RateLimitConfig{Store: " MEMORY "}.StoreKind())
}

func TestValidateDelivery(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Environment: EnvironmentDevelopment}}
	require.NoError(t, cfg.ValidateDelivery())

	cfg.Server.Environment = EnvironmentProduction
	require.ErrorContains(t, cfg.ValidateDelivery(), "email.smtp must be enabled")

	cfg.Email.SMTP = SMTPConfig{Enabled: true, Port: 587}
	require.ErrorContains(t, cfg.ValidateDelivery(), "host is required")

	cfg.Email.SMTP.Host = "smtp.example.com"
	require.NoError(t, cfg.ValidateDelivery())
}

func TestDatabaseConnectionConfig(t *testing.T) {
	sqlite := DatabaseConfig{Path: " ./data/test.sqlite "}.ConnectionConfig()
	require.Equal(t, database.Config{Driver: "sqlite", Path: "./data/test.sqlite"}, sqlite)

	pg := DatabaseConfig{
		Driver: "PostgreSQL",
		Postgres: DBAuthConfig{
			Host:     "db",
			Port:     5432,
			Database: "portfolio",
			Username: "app",
			Password: "pw",
		},
	}.ConnectionConfig()
	require.Equal(t, "postgres", pg.Driver)
	require.Equal(t, "db", pg.Host)
	require.Equal(t, "portfolio", pg.Name)
	require.Equal(t, "app", pg.User)

	pooled := DatabaseConfig{Driver: "postgres", Pool: DBPoolConfig{MaxOpenConns: 20, ConnMaxLifetime: time.Hour}}.ConnectionConfig()
	require.Equal(t, database.PoolConfig{MaxOpenConns: 20, ConnMaxLifetime: time.Hour}, pooled.Pool)

	mysql := DatabaseConfig{Driver: "mysql", MySQL: DBAuthConfig{Host: "mysql", Port: 3306}}.ConnectionConfig()
	require.Equal(t, "mysql", mysql.Host)
	require.Equal(t, 3306, mysql.Port)

	unknown := DatabaseConfig{Driver: "oracle"}.ConnectionConfig()
	require.Equal(t, "oracle", unknown.Driver)
}

func TestRedisAdapter(t *testing.T) {
	cfg := &Config{}
	require.False(t, cfg.RedisWanted())

	cfg.Auth.OTP.Store = " Redis "
	require.True(t, cfg.RedisWanted())

	cfg.Cache.Redis = RedisCacheConfig{Address: " cache:6379 ", KeyPrefix: " site ", DB: 1}
	require.Equal(t, cache.RedisConfig{Address: "cache:6379", KeyPrefix: "site", DB: 1}, cfg.Cache.RedisClientConfig())
}

func TestAdminSeedAdapter(t *testing.T) {
	seed := AdminConfig{Email: " Owner@Example.com ", Name: " Owner ", Password: "pw"}.Seed()
	require.Equal(t, database.AdminSeed{Email: "Owner@Example.com", Name: "Owner", Password: "pw"}, seed)
}
