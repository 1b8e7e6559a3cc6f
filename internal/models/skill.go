package models

// DefaultSkillIcon is used when a skill is saved without an icon name.
const DefaultSkillIcon = "Code"

// Skill is a technology or competency with a self-assessed level.
type Skill struct {
	BaseModel

	Name     string `gorm:"size:120;not null" json:"name"`
	Category string `gorm:"size:120;not null;index" json:"category"`
	Level    int    `gorm:"not null" json:"level"`
	Icon     string `gorm:"size:64;not null;default:Code" json:"icon"`
	Order    int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}
