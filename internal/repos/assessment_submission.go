package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

type AssessmentSubmissionRepo interface {
	GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.AssessmentSubmission, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentSubmission, error)
}

type assessmentSubmissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentSubmissionRepo {
	return &assessmentSubmissionRepo{
		db:  db,
		log: baseLog.With("repo", "AssessmentSubmissionRepo"),
	}
}

func (r *assessmentSubmissionRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.AssessmentSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var sub types.AssessmentSubmission
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Find(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == uuid.Nil {
		return nil, nil
	}
	return &sub, nil
}

func (r *assessmentSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var sub types.AssessmentSubmission
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == uuid.Nil {
		return nil, nil
	}
	return &sub, nil
}
