package models

import "time"

// OneTimeCode is an emailed login code. Rows past ExpiresAt never match,
// even when the maintenance job has not yet removed them.
type OneTimeCode struct {
	BaseModel

	Email     string    `gorm:"size:320;not null;index:idx_one_time_codes_email_code,priority:1" json:"email"`
	Code      string    `gorm:"size:12;not null;index:idx_one_time_codes_email_code,priority:2" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
