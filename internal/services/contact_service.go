package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/models"
)

// ErrContactNotFound indicates the requested contact message does not exist.
var ErrContactNotFound = errors.New("contact service: message not found")

// ContactService stores messages from the public contact form.
type ContactService struct {
	db *gorm.DB
}

// NewContactService constructs a contact service once a database handle is supplied.
func NewContactService(db *gorm.DB) (*ContactService, error) {
	if db == nil {
		return nil, errors.New("contact service: db is required")
	}
	return &ContactService{db: db}, nil
}

// ContactInput captures a submitted contact message.
type ContactInput struct {
	Name    string
	Email   string
	Message string
}

// List returns all messages, newest first.
func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	ctx = ensuredContext(ctx)

	messages := make([]models.ContactMessage, 0)
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// Create stores a new unread message.
func (s *ContactService) Create(ctx context.Context, input ContactInput) (*models.ContactMessage, error) {
	ctx = ensuredContext(ctx)

	message := models.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   models.NormaliseEmail(input.Email),
		Message: strings.TrimSpace(input.Message),
	}
	switch {
	case message.Name == "":
		return nil, invalidInput("name is required")
	case message.Message == "":
		return nil, invalidInput("message is required")
	case message.Email == "":
		return nil, invalidInput("email is required")
	}
	if _, err := mail.ParseAddress(message.Email); err != nil {
		return nil, invalidInput("email is invalid")
	}

	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkRead flags a message as read and returns the updated record.
func (s *ContactService) MarkRead(ctx context.Context, id string) (*models.ContactMessage, error) {
	ctx = ensuredContext(ctx)
	id = strings.TrimSpace(id)

	var message models.ContactMessage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&message, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}
			return err
		}
		if message.Read {
			return nil
		}
		message.Read = true
		return tx.Model(&message).Update("is_read", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Delete removes a message by identifier.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	ctx = ensuredContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.ContactMessage{}, "id = ?", strings.TrimSpace(id))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}
