package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InterpretationStatusPending    = "pending"
	InterpretationStatusProcessing = "processing"
	InterpretationStatusCompleted  = "completed"
	InterpretationStatusError      = "error"
)

// InterpretationResult is one interpretation job. Rows are never deleted; a
// resubmission creates a new row under a new assessment id. At most one
// non-error row may exist per (user, assessment) pair, enforced by a
// partial unique index created in the db package.
type InterpretationResult struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	AssessmentID uuid.UUID      `gorm:"type:uuid;not null" json:"assessment_id"`
	Status       string         `gorm:"type:text;not null;default:'pending'" json:"status"`
	Payload      datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (InterpretationResult) TableName() string { return "interpretation_result" }

// LearnerProfile is the completed-variant body. The scoring that produces
// style weights is an external collaborator; this service only moves the
// structure around.
type LearnerProfile struct {
	LearningStyles map[string]float64 `json:"learning_styles"`
	Summary        string             `json:"summary,omitempty"`
}

type ContentRecommendation struct {
	Title  string `json:"title"`
	Format string `json:"format"`
	Reason string `json:"reason,omitempty"`
}

// InterpretationPayload is a tagged variant keyed by Status. Only the
// completed variant carries the profile and recommendations.
type InterpretationPayload struct {
	Status                 string                  `json:"status"`
	LearnerProfile         *LearnerProfile         `json:"learner_profile,omitempty"`
	ContentRecommendations []ContentRecommendation `json:"content_recommendations,omitempty"`
}

// PayloadStatus extracts the status tag from a raw payload, defaulting to
// pending when the payload is empty or carries no tag.
func PayloadStatus(raw datatypes.JSON) string {
	if len(raw) == 0 {
		return InterpretationStatusPending
	}
	var p InterpretationPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Status == "" {
		return InterpretationStatusPending
	}
	return p.Status
}
