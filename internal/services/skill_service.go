package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/models"
)

// ErrSkillNotFound indicates the requested skill does not exist.
var ErrSkillNotFound = errors.New("skill service: skill not found")

// SkillService manages CRUD operations for skills.
type SkillService struct {
	db *gorm.DB
}

// NewSkillService constructs a skill service once a database handle is supplied.
func NewSkillService(db *gorm.DB) (*SkillService, error) {
	if db == nil {
		return nil, errors.New("skill service: db is required")
	}
	return &SkillService{db: db}, nil
}

// SkillInput captures the fields of a new skill.
type SkillInput struct {
	Name     string
	Category string
	Level    int
	Icon     string
	Order    int
}

// UpdateSkillInput describes mutable skill fields. A nil pointer indicates no change.
type UpdateSkillInput struct {
	Name     *string
	Category *string
	Level    *int
	Icon     *string
	Order    *int
}

// List returns skills grouped by category and ordered within each category.
func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	ctx = ensuredContext(ctx)

	skills := make([]models.Skill, 0)
	if err := s.db.WithContext(ctx).
		Order("category ASC").
		Order("sort_order ASC").
		Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// Get retrieves a skill by identifier.
func (s *SkillService) Get(ctx context.Context, id string) (*models.Skill, error) {
	ctx = ensuredContext(ctx)

	var skill models.Skill
	if err := s.db.WithContext(ctx).Take(&skill, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return &skill, nil
}

// Create persists a new skill.
func (s *SkillService) Create(ctx context.Context, input SkillInput) (*models.Skill, error) {
	ctx = ensuredContext(ctx)

	skill := models.Skill{
		Name:     strings.TrimSpace(input.Name),
		Category: strings.TrimSpace(input.Category),
		Level:    input.Level,
		Icon:     strings.TrimSpace(input.Icon),
		Order:    input.Order,
	}
	if err := validateSkill(&skill); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// Update applies the provided changes to an existing skill.
func (s *SkillService) Update(ctx context.Context, id string, input UpdateSkillInput) (*models.Skill, error) {
	ctx = ensuredContext(ctx)

	skill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		skill.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		skill.Category = strings.TrimSpace(*input.Category)
	}
	if input.Level != nil {
		skill.Level = *input.Level
	}
	if input.Icon != nil {
		skill.Icon = strings.TrimSpace(*input.Icon)
	}
	if input.Order != nil {
		skill.Order = *input.Order
	}

	if err := validateSkill(skill); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

// Delete removes a skill by identifier.
func (s *SkillService) Delete(ctx context.Context, id string) error {
	ctx = ensuredContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Skill{}, "id = ?", strings.TrimSpace(id))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func validateSkill(skill *models.Skill) error {
	switch {
	case skill.Name == "":
		return invalidInput("name is required")
	case skill.Category == "":
		return invalidInput("category is required")
	case skill.Level < 0 || skill.Level > 100:
		return invalidInput("level must be between 0 and 100")
	}
	if skill.Icon == "" {
		skill.Icon = models.DefaultSkillIcon
	}
	return nil
}
