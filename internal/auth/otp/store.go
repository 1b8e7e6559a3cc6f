package otp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/models"
)

// Store keeps at most one live code per email.
type Store interface {
	// Replace drops every code held for email and stores code in its place.
	Replace(ctx context.Context, email, code string, expiresAt time.Time) error
	// Consume atomically matches and removes an unexpired code. It reports
	// false when nothing matched, for whatever reason.
	Consume(ctx context.Context, email, code string, now time.Time) (bool, error)
	// Discard removes code when it is still the one held for email.
	Discard(ctx context.Context, email, code string) error
	// PurgeExpired deletes dead codes and reports how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// GormStore persists codes in the one_time_codes table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a database-backed Store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("otp store: db is required")
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Replace(ctx context.Context, email, code string, expiresAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.OneTimeCode{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.OneTimeCode{
			Email:     email,
			Code:      code,
			ExpiresAt: expiresAt.UTC(),
		}).Error
	})
}

func (s *GormStore) Consume(ctx context.Context, email, code string, now time.Time) (bool, error) {
	consumed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("email = ? AND code = ? AND expires_at > ?", email, code, now.UTC()).
			Delete(&models.OneTimeCode{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		consumed = true
		return tx.Where("email = ?", email).Delete(&models.OneTimeCode{}).Error
	})
	if err != nil {
		return false, err
	}
	return consumed, nil
}

func (s *GormStore) Discard(ctx context.Context, email, code string) error {
	return s.db.WithContext(ctx).
		Where("email = ? AND code = ?", email, code).
		Delete(&models.OneTimeCode{}).Error
}

func (s *GormStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&models.OneTimeCode{})
	return result.RowsAffected, result.Error
}
