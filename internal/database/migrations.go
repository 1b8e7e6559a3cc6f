package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.OneTimeCode{},
		&models.Project{},
		&models.Skill{},
		&models.ContactMessage{},
		&models.CacheEntry{},
	)
}
