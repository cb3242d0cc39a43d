package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

type IdealMatrixRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.IdealSkillMatrix, error)
	GetLatest(ctx context.Context, tx *gorm.DB) (*types.IdealSkillMatrix, error)
}

type idealMatrixRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdealMatrixRepo(db *gorm.DB, baseLog *logger.Logger) IdealMatrixRepo {
	return &idealMatrixRepo{
		db:  db,
		log: baseLog.With("repo", "IdealMatrixRepo"),
	}
}

func (r *idealMatrixRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.IdealSkillMatrix, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var matrix types.IdealSkillMatrix
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&matrix).Error
	if err != nil {
		return nil, err
	}
	if matrix.ID == uuid.Nil {
		return nil, nil
	}
	return &matrix, nil
}

func (r *idealMatrixRepo) GetLatest(ctx context.Context, tx *gorm.DB) (*types.IdealSkillMatrix, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var matrix types.IdealSkillMatrix
	err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(1).
		Find(&matrix).Error
	if err != nil {
		return nil, err
	}
	if matrix.ID == uuid.Nil {
		return nil, nil
	}
	return &matrix, nil
}
