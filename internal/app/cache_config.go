package app

import (
	"strings"

	"github.com/charlesng35/portfolio/internal/cache"
)

// RedisClientConfig converts the cache section into cache.RedisConfig.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:   strings.TrimSpace(c.Redis.Address),
		Username:  strings.TrimSpace(c.Redis.Username),
		Password:  c.Redis.Password,
		DB:        c.Redis.DB,
		TLS:       c.Redis.TLS,
		Timeout:   c.Redis.Timeout,
		KeyPrefix: strings.TrimSpace(c.Redis.KeyPrefix),
	}
}

// RedisWanted reports whether any component is configured to use Redis.
func (c *Config) RedisWanted() bool {
	return c.Cache.Redis.Enabled || c.Auth.OTPStoreKind() == OTPStoreRedis
}
