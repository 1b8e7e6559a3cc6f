package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a portfolio entry shown on the public site.
type Project struct {
	BaseModel

	Title        string                      `gorm:"size:200;not null" json:"title"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	ImageURL     string                      `gorm:"size:2048;not null" json:"image_url"`
	LiveURL      *string                     `gorm:"size:2048" json:"live_url,omitempty"`
	GithubURL    *string                     `gorm:"size:2048" json:"github_url,omitempty"`
	Featured     bool                        `gorm:"not null;default:false" json:"featured"`
	Order        int                         `gorm:"column:sort_order;not null;default:0;index" json:"order"`
}

// AfterFind replaces a null technologies column with an empty list.
func (p *Project) AfterFind(tx *gorm.DB) error {
	if p.Technologies == nil {
		p.Technologies = datatypes.JSONSlice[string]{}
	}
	return nil
}
