package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

type BaselineMatrixRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.BaselineSkillMatrix, error)
	GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BaselineSkillMatrix, error)
	GetLatestByUserAndStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status string) (*types.BaselineSkillMatrix, error)
	GetLatestByLegacyCorrelationID(ctx context.Context, tx *gorm.DB, legacyID string) (*types.BaselineSkillMatrix, error)
}

type baselineMatrixRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBaselineMatrixRepo(db *gorm.DB, baseLog *logger.Logger) BaselineMatrixRepo {
	return &baselineMatrixRepo{
		db:  db,
		log: baseLog.With("repo", "BaselineMatrixRepo"),
	}
}

func (r *baselineMatrixRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.BaselineSkillMatrix, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var baseline types.BaselineSkillMatrix
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&baseline).Error
	if err != nil {
		return nil, err
	}
	if baseline.ID == uuid.Nil {
		return nil, nil
	}
	return &baseline, nil
}

func (r *baselineMatrixRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BaselineSkillMatrix, error) {
	return r.latest(ctx, tx, "user_id = ?", userID)
}

func (r *baselineMatrixRepo) GetLatestByUserAndStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status string) (*types.BaselineSkillMatrix, error) {
	if userID == uuid.Nil || status == "" {
		return nil, nil
	}
	return r.latest(ctx, tx, "user_id = ? AND status = ?", userID, status)
}

func (r *baselineMatrixRepo) GetLatestByLegacyCorrelationID(ctx context.Context, tx *gorm.DB, legacyID string) (*types.BaselineSkillMatrix, error) {
	if legacyID == "" {
		return nil, nil
	}
	return r.latest(ctx, tx, "legacy_correlation_id = ?", legacyID)
}

func (r *baselineMatrixRepo) latest(ctx context.Context, tx *gorm.DB, query string, args ...interface{}) (*types.BaselineSkillMatrix, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(args) > 0 {
		if id, ok := args[0].(uuid.UUID); ok && id == uuid.Nil {
			return nil, nil
		}
	}
	var baseline types.BaselineSkillMatrix
	err := transaction.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Limit(1).
		Find(&baseline).Error
	if err != nil {
		return nil, err
	}
	if baseline.ID == uuid.Nil {
		return nil, nil
	}
	return &baseline, nil
}
