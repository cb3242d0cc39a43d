package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

// In-memory stand-ins for the repos and clients. They mirror the semantics
// the services rely on (duplicate detection, pending-only transitions,
// latest-by-created-at) without a database.

type fakeResultRepo struct {
	rows      map[uuid.UUID]*types.InterpretationResult
	createErr error
	markErrs  map[uuid.UUID]error
	markCalls []uuid.UUID
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{
		rows:     make(map[uuid.UUID]*types.InterpretationResult),
		markErrs: make(map[uuid.UUID]error),
	}
}

func (f *fakeResultRepo) add(row *types.InterpretationResult) *types.InterpretationResult {
	cp := *row
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	if cp.Status == "" {
		cp.Status = types.InterpretationStatusPending
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	f.rows[cp.ID] = &cp
	return &cp
}

func (f *fakeResultRepo) Create(ctx context.Context, tx *gorm.DB, result *types.InterpretationResult) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, row := range f.rows {
		if row.UserID == result.UserID &&
			row.AssessmentID == result.AssessmentID &&
			row.Status != types.InterpretationStatusError {
			return gorm.ErrDuplicatedKey
		}
	}
	stored := f.add(result)
	result.ID = stored.ID
	return nil
}

func (f *fakeResultRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.InterpretationResult, error) {
	var latest *types.InterpretationResult
	for _, row := range f.rows {
		if row.UserID != userID {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeResultRepo) ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.InterpretationResult, error) {
	var out []*types.InterpretationResult
	for _, row := range f.rows {
		if row.UserID == userID && row.Status == types.InterpretationStatusPending {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	for _, row := range f.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeResultRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, payload datatypes.JSON) (bool, error) {
	return f.transition(id, types.InterpretationStatusCompleted, payload)
}

func (f *fakeResultRepo) MarkError(ctx context.Context, tx *gorm.DB, id uuid.UUID, payload datatypes.JSON) (bool, error) {
	return f.transition(id, types.InterpretationStatusError, payload)
}

func (f *fakeResultRepo) transition(id uuid.UUID, status string, payload datatypes.JSON) (bool, error) {
	f.markCalls = append(f.markCalls, id)
	if err := f.markErrs[id]; err != nil {
		return false, err
	}
	row, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	if row.Status != types.InterpretationStatusPending && row.Status != types.InterpretationStatusProcessing {
		return false, nil
	}
	row.Status = status
	row.Payload = payload
	return true, nil
}

type fakeSubmissionRepo struct {
	subs []*types.AssessmentSubmission
}

func (f *fakeSubmissionRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.AssessmentSubmission, error) {
	var latest *types.AssessmentSubmission
	for _, sub := range f.subs {
		if sub.UserID != userID {
			continue
		}
		if latest == nil || sub.CreatedAt.After(latest.CreatedAt) {
			latest = sub
		}
	}
	return latest, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentSubmission, error) {
	for _, sub := range f.subs {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, nil
}

type fakeComputeClient struct {
	processed int
	err       error
	calls     int
}

func (f *fakeComputeClient) ProcessPending(ctx context.Context, userID uuid.UUID) (int, error) {
	f.calls++
	return f.processed, f.err
}

type fakeBaselineRepo struct {
	rows []*types.BaselineSkillMatrix
}

func (f *fakeBaselineRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.BaselineSkillMatrix, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeBaselineRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BaselineSkillMatrix, error) {
	return f.latest(func(row *types.BaselineSkillMatrix) bool { return row.UserID == userID }), nil
}

func (f *fakeBaselineRepo) GetLatestByUserAndStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status string) (*types.BaselineSkillMatrix, error) {
	return f.latest(func(row *types.BaselineSkillMatrix) bool {
		return row.UserID == userID && row.Status == status
	}), nil
}

func (f *fakeBaselineRepo) GetLatestByLegacyCorrelationID(ctx context.Context, tx *gorm.DB, legacyID string) (*types.BaselineSkillMatrix, error) {
	return f.latest(func(row *types.BaselineSkillMatrix) bool {
		return row.LegacyCorrelationID != nil && *row.LegacyCorrelationID == legacyID
	}), nil
}

func (f *fakeBaselineRepo) latest(match func(*types.BaselineSkillMatrix) bool) *types.BaselineSkillMatrix {
	var latest *types.BaselineSkillMatrix
	for _, row := range f.rows {
		if !match(row) {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	return latest
}

type fakeIdealRepo struct {
	rows []*types.IdealSkillMatrix
	err  error
}

func (f *fakeIdealRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.IdealSkillMatrix, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeIdealRepo) GetLatest(ctx context.Context, tx *gorm.DB) (*types.IdealSkillMatrix, error) {
	if f.err != nil {
		return nil, f.err
	}
	var latest *types.IdealSkillMatrix
	for _, row := range f.rows {
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	return latest, nil
}

type fakeScoringClient struct {
	id         uuid.UUID
	err        error
	calls      int
	lastLegacy string
}

func (f *fakeScoringClient) CreateBaseline(ctx context.Context, legacyCorrelationID string) (uuid.UUID, error) {
	f.calls++
	f.lastLegacy = legacyCorrelationID
	return f.id, f.err
}
