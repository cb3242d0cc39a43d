package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SkillCategoryTechnical = "technical"
	SkillCategorySoft      = "soft"
)

// Skill is a deduplicated taxonomy entry keyed by unique name.
type Skill struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:text;not null" json:"category"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Skill) TableName() string { return "skill" }
