package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IdealSkillMatrix is a role-specific target matrix shared across many
// baselines. Read-only here except for the one-time skill extraction.
type IdealSkillMatrix struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoleName    string         `gorm:"type:text;not null" json:"role_name"`
	SkillMatrix datatypes.JSON `gorm:"type:jsonb;column:skill_matrix" json:"skill_matrix"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (IdealSkillMatrix) TableName() string { return "ideal_skill_matrix" }

// TechnicalSkill and SoftSkill are entries inside the jsonb matrix document.
// AssociatedMetrics and KeyIndicators are descriptive sub-attributes of the
// skill they hang off and are never promoted to taxonomy entries.
type TechnicalSkill struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	AssociatedMetrics []string `json:"associated_metrics,omitempty"`
}

type SoftSkill struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	KeyIndicators []string `json:"key_indicators,omitempty"`
}

type IdealSkillMatrixDoc struct {
	TechnicalSkills []TechnicalSkill `json:"technical_skills"`
	SoftSkills      []SoftSkill      `json:"soft_skills"`
}

func (m *IdealSkillMatrix) Doc() (IdealSkillMatrixDoc, error) {
	var doc IdealSkillMatrixDoc
	if len(m.SkillMatrix) == 0 {
		return doc, nil
	}
	err := json.Unmarshal(m.SkillMatrix, &doc)
	return doc, err
}
