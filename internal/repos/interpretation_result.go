package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

type InterpretationResultRepo interface {
	Create(ctx context.Context, tx *gorm.DB, result *types.InterpretationResult) error
	GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.InterpretationResult, error)
	ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.InterpretationResult, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, payload datatypes.JSON) (bool, error)
	MarkError(ctx context.Context, tx *gorm.DB, id uuid.UUID, payload datatypes.JSON) (bool, error)
}

type interpretationResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterpretationResultRepo(db *gorm.DB, baseLog *logger.Logger) InterpretationResultRepo {
	return &interpretationResultRepo{
		db:  db,
		log: baseLog.With("repo", "InterpretationResultRepo"),
	}
}

// IsDuplicate reports whether err is a uniqueness violation from the
// (user_id, assessment_id) partial index. Callers treat it as "job already
// exists", not as a failure.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite (test driver) reports unique violations as a plain message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *interpretationResultRepo) Create(ctx context.Context, tx *gorm.DB, result *types.InterpretationResult) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if result == nil {
		return nil
	}
	if result.Status == "" {
		result.Status = types.InterpretationStatusPending
	}
	return transaction.WithContext(ctx).Create(result).Error
}

func (r *interpretationResultRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.InterpretationResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var result types.InterpretationResult
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	if result.ID == uuid.Nil {
		return nil, nil
	}
	return &result, nil
}

func (r *interpretationResultRepo) ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.InterpretationResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.InterpretationResult
	if userID == uuid.Nil {
		return out, nil
	}
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, types.InterpretationStatusPending).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *interpretationResultRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.InterpretationResult{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// MarkCompleted transitions a single row out of pending. The status
// predicate is the concurrency control: a row the primary compute service
// already finished is left untouched and the update reports false.
func (r *interpretationResultRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, payload datatypes.JSON) (bool, error) {
	return r.transition(ctx, tx, id, types.InterpretationStatusCompleted, payload)
}

func (r *interpretationResultRepo) MarkError(ctx context.Context, tx *gorm.DB, id uuid.UUID, payload datatypes.JSON) (bool, error) {
	return r.transition(ctx, tx, id, types.InterpretationStatusError, payload)
}

func (r *interpretationResultRepo) transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, payload datatypes.JSON) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.InterpretationResult{}).
		Where("id = ? AND status IN ?", id, []string{
			types.InterpretationStatusPending,
			types.InterpretationStatusProcessing,
		}).
		Updates(map[string]interface{}{
			"status":     status,
			"payload":    payload,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
