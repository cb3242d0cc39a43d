package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssessmentSubmission is written by the assessment-taking flow; this
// service only ever reads it.
type AssessmentSubmission struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	RawAnswers datatypes.JSON `gorm:"type:jsonb;column:raw_answers" json:"raw_answers"`
	CreatedAt  time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (AssessmentSubmission) TableName() string { return "assessment_submission" }
