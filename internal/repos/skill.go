package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

type SkillRepo interface {
	ListNames(ctx context.Context, tx *gorm.DB) ([]string, error)
	Create(ctx context.Context, tx *gorm.DB, skills []*types.Skill) error
}

type skillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRepo(db *gorm.DB, baseLog *logger.Logger) SkillRepo {
	return &skillRepo{
		db:  db,
		log: baseLog.With("repo", "SkillRepo"),
	}
}

func (r *skillRepo) ListNames(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var names []string
	err := transaction.WithContext(ctx).
		Model(&types.Skill{}).
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *skillRepo) Create(ctx context.Context, tx *gorm.DB, skills []*types.Skill) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(skills) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&skills).Error
}
