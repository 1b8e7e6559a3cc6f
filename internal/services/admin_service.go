package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/models"
)

// ErrAdminNotFound indicates no administrator is registered for the email.
var ErrAdminNotFound = errors.New("admin service: admin not found")

// AdminService looks up administrator records. Administrators are only
// created by seeding.
type AdminService struct {
	db *gorm.DB
}

// NewAdminService constructs an AdminService once a database handle is supplied.
func NewAdminService(db *gorm.DB) (*AdminService, error) {
	if db == nil {
		return nil, errors.New("admin service: db is required")
	}
	return &AdminService{db: db}, nil
}

// FindByEmail returns the administrator registered under the normalised email.
func (s *AdminService) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	ctx = ensuredContext(ctx)

	email = models.NormaliseEmail(email)
	if email == "" {
		return nil, ErrAdminNotFound
	}

	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// FindByID returns the administrator with the given identifier.
func (s *AdminService) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	ctx = ensuredContext(ctx)

	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}
