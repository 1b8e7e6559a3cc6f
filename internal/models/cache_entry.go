package models

import (
	"time"
)

// CacheEntry backs the rate limiter when Redis is not configured. Expired
// rows are ignored on read and purged by the maintenance job.
type CacheEntry struct {
	Key       string    `gorm:"column:cache_key;primaryKey;size:256"`
	Value     []byte
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
