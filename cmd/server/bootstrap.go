package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/api"
	"github.com/charlesng35/portfolio/internal/app"
	"github.com/charlesng35/portfolio/internal/app/maintenance"
	iauth "github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/auth/otp"
	"github.com/charlesng35/portfolio/internal/cache"
	"github.com/charlesng35/portfolio/internal/database"
	"github.com/charlesng35/portfolio/internal/middleware"
	"github.com/charlesng35/portfolio/internal/services"
	"github.com/charlesng35/portfolio/pkg/logger"
	"github.com/charlesng35/portfolio/pkg/mail"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB         *gorm.DB
	Redis      *cache.RedisClient
	SessionSvc *iauth.SessionService
	OTPSvc     *otp.Service
	Cleaner    *maintenance.Cleaner
	RateStore  middleware.RateStore
	Router     *gin.Engine

	memoryRates *middleware.MemoryRateStore
}

// bootstrapRuntime initialises databases, caches, services, and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	dbStore := cache.NewDatabaseStore(stack.DB)

	if cfg.RedisWanted() {
		if stack.Redis, err = cache.NewRedisClient(cfg.Cache.RedisClientConfig()); err != nil {
			log.Warn("redis unavailable; falling back to database-backed operations", zap.Error(err))
			stack.Redis = nil
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	stack.SessionSvc, err = iauth.NewSessionService(cfg.Auth.SessionServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise session service: %w", err)
	}

	otpStore, err := newOTPStore(cfg, stack, log)
	if err != nil {
		return nil, err
	}

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return nil, err
	}

	admins, err := services.NewAdminService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise admin service: %w", err)
	}

	stack.OTPSvc, err = otp.NewService(otpStore, admins, notifier, stack.SessionSvc, cfg.Auth.OTPOptions()...)
	if err != nil {
		return nil, fmt.Errorf("initialise otp service: %w", err)
	}

	var expiredEntries maintenance.Purger
	switch {
	case cfg.Server.RateLimit.StoreKind() == app.RateStoreMemory:
		stack.memoryRates = middleware.NewMemoryRateStore()
		stack.RateStore = stack.memoryRates
	case stack.Redis != nil:
		stack.RateStore = middleware.NewCacheRateStore(stack.Redis)
	default:
		stack.RateStore = middleware.NewCacheRateStore(dbStore)
		expiredEntries = dbStore
	}

	if cfg.Maintenance.Enabled {
		stack.Cleaner = maintenance.NewCleaner(stack.OTPSvc, expiredEntries,
			maintenance.WithOTPSchedule(cfg.Maintenance.OTPCleanupSchedule),
		)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	stack.Router, err = api.NewRouter(stack.DB, cfg, stack.SessionSvc, stack.OTPSvc, stack.RateStore)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

func newOTPStore(cfg *app.Config, stack *runtimeStack, log *zap.Logger) (otp.Store, error) {
	if cfg.Auth.OTPStoreKind() == app.OTPStoreRedis {
		if stack.Redis != nil {
			store, err := otp.NewRedisStore(stack.Redis.Raw(), stack.Redis.Key("otp:"))
			if err != nil {
				return nil, fmt.Errorf("initialise redis otp store: %w", err)
			}
			return store, nil
		}
		log.Warn("auth.otp.store is redis but redis is unavailable; storing codes in the database")
	}

	store, err := otp.NewGormStore(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise otp store: %w", err)
	}
	return store, nil
}

// newNotifier delivers codes over SMTP. Development deployments without SMTP
// log the message instead so the login flow stays usable locally.
func newNotifier(cfg *app.Config, log *zap.Logger) (otp.Notifier, error) {
	if err := cfg.ValidateDelivery(); err != nil {
		return nil, err
	}
	settings := cfg.Email.SMTPSettings()

	var mailer mail.Mailer
	if settings.Enabled {
		smtpMailer, err := mail.NewSMTPMailer(settings)
		if err != nil {
			return nil, fmt.Errorf("initialise smtp mailer: %w", err)
		}
		mailer = smtpMailer
	} else {
		log.Warn("email.smtp disabled; one-time codes will be written to the log")
		mailer = mail.NewLogMailer(logger.WithModule("mail"))
	}

	return otp.NewMailNotifier(mailer, settings.From)
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		if stopCtx != nil {
			ctx = stopCtx
		}
		if _, err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.memoryRates != nil {
		s.memoryRates.Close()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("redis shutdown", zap.Error(err))
		}
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db, cfg.Admin.Seed()); err != nil {
		closeDatabase(db, logger.WithModule("database"))
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
