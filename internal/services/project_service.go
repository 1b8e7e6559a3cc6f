package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/models"
)

// ErrProjectNotFound indicates the requested project does not exist.
var ErrProjectNotFound = errors.New("project service: project not found")

// ProjectService manages CRUD operations for portfolio projects.
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService constructs a project service once a database handle is supplied.
func NewProjectService(db *gorm.DB) (*ProjectService, error) {
	if db == nil {
		return nil, errors.New("project service: db is required")
	}
	return &ProjectService{db: db}, nil
}

// ProjectInput captures the fields of a new project.
type ProjectInput struct {
	Title        string
	Description  string
	Technologies []string
	ImageURL     string
	LiveURL      *string
	GithubURL    *string
	Featured     bool
	Order        int
}

// UpdateProjectInput describes mutable project fields. A nil pointer indicates no change.
type UpdateProjectInput struct {
	Title        *string
	Description  *string
	Technologies *[]string
	ImageURL     *string
	LiveURL      *string
	GithubURL    *string
	Featured     *bool
	Order        *int
}

// List returns all projects ordered by display order, newest first within an order.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	ctx = ensuredContext(ctx)

	projects := make([]models.Project, 0)
	if err := s.db.WithContext(ctx).
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Get retrieves a project by identifier.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	ctx = ensuredContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrProjectNotFound
	}

	var project models.Project
	if err := s.db.WithContext(ctx).Take(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create persists a new project.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*models.Project, error) {
	ctx = ensuredContext(ctx)

	project := models.Project{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Technologies: datatypes.NewJSONSlice(normaliseList(input.Technologies)),
		ImageURL:     strings.TrimSpace(input.ImageURL),
		LiveURL:      optionalString(input.LiveURL),
		GithubURL:    optionalString(input.GithubURL),
		Featured:     input.Featured,
		Order:        input.Order,
	}
	if err := validateProject(&project); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update applies the provided changes to an existing project.
func (s *ProjectService) Update(ctx context.Context, id string, input UpdateProjectInput) (*models.Project, error) {
	ctx = ensuredContext(ctx)

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		project.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Technologies != nil {
		project.Technologies = datatypes.NewJSONSlice(normaliseList(*input.Technologies))
	}
	if input.ImageURL != nil {
		project.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.LiveURL != nil {
		project.LiveURL = optionalString(input.LiveURL)
	}
	if input.GithubURL != nil {
		project.GithubURL = optionalString(input.GithubURL)
	}
	if input.Featured != nil {
		project.Featured = *input.Featured
	}
	if input.Order != nil {
		project.Order = *input.Order
	}

	if err := validateProject(project); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project by identifier.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	ctx = ensuredContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", strings.TrimSpace(id))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func validateProject(project *models.Project) error {
	switch {
	case project.Title == "":
		return invalidInput("title is required")
	case project.Description == "":
		return invalidInput("description is required")
	case project.ImageURL == "":
		return invalidInput("image url is required")
	}
	if project.Technologies == nil {
		project.Technologies = datatypes.JSONSlice[string]{}
	}
	return nil
}
