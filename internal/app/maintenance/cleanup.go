package maintenance

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/portfolio/pkg/logger"
)

const (
	defaultOTPSpec   = "@hourly"
	defaultCacheSpec = "@every 15m"
)

// Purger removes expired records and reports how many were deleted.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Cleaner runs periodic table hygiene: dead one-time codes and expired
// rate-limit counters. Login correctness never depends on it; expiry is
// enforced when codes are read.
type Cleaner struct {
	otp   Purger
	cache Purger
	cron  *cron.Cron
	log   *zap.Logger

	otpSchedule   string
	cacheSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithOTPSchedule overrides the cron specification for one-time code cleanup.
func WithOTPSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.otpSchedule = spec
		}
	}
}

// WithCacheSchedule overrides the cron specification for cache entry cleanup.
func WithCacheSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.cacheSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner. A nil purger skips the corresponding job.
func NewCleaner(otp Purger, cache Purger, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		otp:           otp,
		cache:         cache,
		otpSchedule:   defaultOTPSpec,
		cacheSchedule: defaultCacheSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it if at least one job is configured.
func (c *Cleaner) Start() error {
	if c.otp == nil && c.cache == nil {
		return nil
	}

	if c.otp != nil {
		if _, err := c.cron.AddFunc(c.otpSchedule, c.job("otp", c.otp)); err != nil {
			return fmt.Errorf("maintenance: schedule otp cleanup: %w", err)
		}
	}

	if c.cache != nil {
		if _, err := c.cron.AddFunc(c.cacheSchedule, c.job("cache", c.cache)); err != nil {
			return fmt.Errorf("maintenance: schedule cache cleanup: %w", err)
		}
	}

	c.cron.Start()
	return nil
}

func (c *Cleaner) job(name string, purger Purger) func() {
	return func() {
		removed, err := purger.PurgeExpired(context.Background())
		if err != nil {
			c.log.Warn("cleanup failed", zap.String("job", name), zap.Error(err))
			return
		}
		if removed > 0 {
			c.log.Debug("cleanup finished", zap.String("job", name), zap.Int64("removed", removed))
		}
	}
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// Stats captures the number of records removed per job.
type Stats struct {
	OneTimeCodes int64
	CacheEntries int64
}

// RunOnce executes all configured cleanup routines sequentially. Every job runs even
// when an earlier one fails; the failures are combined.
func (c *Cleaner) RunOnce(ctx context.Context) (Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		stats Stats
		errs  error
	)

	if c.otp != nil {
		removed, err := c.otp.PurgeExpired(ctx)
		stats.OneTimeCodes = removed
		errs = multierr.Append(errs, wrapJobError("otp", err))
	}

	if c.cache != nil {
		removed, err := c.cache.PurgeExpired(ctx)
		stats.CacheEntries = removed
		errs = multierr.Append(errs, wrapJobError("cache", err))
	}

	return stats, errs
}

func wrapJobError(job string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("maintenance: %s cleanup: %w", job, err)
}
