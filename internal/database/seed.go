package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/models"
	"github.com/charlesng35/portfolio/pkg/crypto"
)

// AdminSeed describes the administrator created on first start.
type AdminSeed struct {
	Email    string
	Name     string
	Password string
}

// SeedAdmin creates the administrator unless one with the same email exists.
// Existing records are returned untouched. The boolean reports creation.
func SeedAdmin(db *gorm.DB, seed AdminSeed) (*models.Admin, bool, error) {
	email := models.NormaliseEmail(seed.Email)
	if email == "" {
		return nil, false, errors.New("admin email is required")
	}
	if seed.Password == "" {
		return nil, false, errors.New("admin password is required")
	}

	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = "Admin"
	}

	var existing models.Admin
	err := db.Where("email = ?", email).Take(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := crypto.HashPassword(seed.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.Admin{Email: email, Name: name, Password: hash}
	if err := db.Create(admin).Error; err != nil {
		if IsUniqueViolation(err) {
			if err := db.Where("email = ?", email).Take(&existing).Error; err != nil {
				return nil, false, fmt.Errorf("reload admin: %w", err)
			}
			return &existing, false, nil
		}
		return nil, false, fmt.Errorf("create admin: %w", err)
	}

	return admin, true, nil
}

// SeedSamples inserts demonstration projects and skills into empty tables.
func SeedSamples(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var projectCount int64
		if err := tx.Model(&models.Project{}).Count(&projectCount).Error; err != nil {
			return err
		}
		if projectCount == 0 {
			if err := tx.Create(sampleProjects()).Error; err != nil {
				return fmt.Errorf("seed projects: %w", err)
			}
		}

		var skillCount int64
		if err := tx.Model(&models.Skill{}).Count(&skillCount).Error; err != nil {
			return err
		}
		if skillCount == 0 {
			if err := tx.Create(sampleSkills()).Error; err != nil {
				return fmt.Errorf("seed skills: %w", err)
			}
		}
		return nil
	})
}

func sampleProjects() []models.Project {
	github := "https://github.com/example/portfolio"
	return []models.Project{
		{
			Title:        "E-Commerce Platform",
			Description:  "Storefront with cart, checkout and an order dashboard.",
			Technologies: datatypes.NewJSONSlice([]string{"Go", "PostgreSQL", "Redis"}),
			ImageURL:     "https://images.example.com/ecommerce.png",
			GithubURL:    &github,
			Featured:     true,
			Order:        1,
		},
		{
			Title:        "Task Management App",
			Description:  "Collaborative boards with realtime updates.",
			Technologies: datatypes.NewJSONSlice([]string{"TypeScript", "React", "WebSockets"}),
			ImageURL:     "https://images.example.com/tasks.png",
			Featured:     true,
			Order:        2,
		},
		{
			Title:        "Weather Dashboard",
			Description:  "Forecast charts built on public weather APIs.",
			Technologies: datatypes.NewJSONSlice([]string{"JavaScript", "Chart.js"}),
			ImageURL:     "https://images.example.com/weather.png",
			Order:        3,
		},
	}
}

func sampleSkills() []models.Skill {
	return []models.Skill{
		{Name: "Go", Category: "Backend", Level: 90, Icon: "Server", Order: 1},
		{Name: "PostgreSQL", Category: "Backend", Level: 80, Icon: "Database", Order: 2},
		{Name: "React", Category: "Frontend", Level: 85, Icon: models.DefaultSkillIcon, Order: 1},
		{Name: "TypeScript", Category: "Frontend", Level: 85, Icon: models.DefaultSkillIcon, Order: 2},
		{Name: "Docker", Category: "Tools", Level: 75, Icon: "Box", Order: 1},
	}
}
