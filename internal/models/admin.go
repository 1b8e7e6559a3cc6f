package models

import (
	"strings"

	"gorm.io/gorm"
)

// Admin is the operator allowed into the content management API.
type Admin struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;size:320;not null" json:"email"`
	Name     string `gorm:"size:120;not null" json:"name"`
	Password string `gorm:"not null" json:"-"`
}

// NormaliseEmail trims and lower-cases an address for storage and lookups.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeforeSave keeps the stored email in canonical form.
func (a *Admin) BeforeSave(tx *gorm.DB) error {
	a.Email = NormaliseEmail(a.Email)
	return nil
}
