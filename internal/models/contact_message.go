package models

import "gorm.io/gorm"

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	BaseModel

	Name    string `gorm:"size:120;not null" json:"name"`
	Email   string `gorm:"size:320;not null" json:"email"`
	Message string `gorm:"type:text;not null" json:"message"`
	Read    bool   `gorm:"column:is_read;not null;default:false;index" json:"read"`
}

func (m *ContactMessage) BeforeSave(tx *gorm.DB) error {
	m.Email = NormaliseEmail(m.Email)
	return nil
}
