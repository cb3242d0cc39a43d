package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	BaselineStatusPending   = "pending"
	BaselineStatusAnalyzing = "analyzing"
	BaselineStatusCompleted = "completed"
)

// BaselineSkillMatrix holds a user's measured skill levels. Created by the
// external assessment-scoring collaborator; gap computation is undefined
// until Status is completed. The derived columns competency_level_100,
// ideal_competency_level and enhanced_metrics are intentionally absent from
// this model: they belong to a later schema generation and are added and
// backfilled by the migration runner, not by AutoMigrate.
type BaselineSkillMatrix struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID               uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	LegacyCorrelationID  *string        `gorm:"type:text;index" json:"legacy_correlation_id,omitempty"`
	Status               string         `gorm:"type:text;not null;default:'pending'" json:"status"`
	SkillMatrix          datatypes.JSON `gorm:"type:jsonb;column:skill_matrix" json:"skill_matrix"`
	CompetencyLevel      int            `gorm:"column:competency_level" json:"competency_level"`
	IdealSkillMatrixID   uuid.UUID      `gorm:"type:uuid;not null" json:"ideal_skill_matrix_id"`
	AnalysisStartedAt    *time.Time     `json:"analysis_started_at,omitempty"`
	AnalysisCompletedAt  *time.Time     `json:"analysis_completed_at,omitempty"`
	GapAnalysisDashboard datatypes.JSON `gorm:"type:jsonb;column:gap_analysis_dashboard" json:"gap_analysis_dashboard,omitempty"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (BaselineSkillMatrix) TableName() string { return "baseline_skill_matrix" }
