package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/apierr"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/clients/scoring"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/repos"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

// GapView joins a baseline against its ideal matrix for clients to diff.
// No scoring happens here; score computation belongs to the external
// gap-analysis collaborator whose output lands in GapAnalysisDashboard.
type GapView struct {
	ID                   uuid.UUID      `json:"id"`
	UserID               uuid.UUID      `json:"user_id"`
	Status               string         `json:"status"`
	BaselineSkillMatrix  datatypes.JSON `json:"baseline_skill_matrix"`
	IdealSkillMatrix     datatypes.JSON `json:"ideal_skill_matrix"`
	CreatedAt            time.Time      `json:"created_at"`
	AnalysisStartedAt    *time.Time     `json:"analysis_started_at,omitempty"`
	AnalysisCompletedAt  *time.Time     `json:"analysis_completed_at,omitempty"`
	GapAnalysisDashboard datatypes.JSON `json:"gap_analysis_dashboard,omitempty"`
}

type ExistsResult struct {
	Exists      bool       `json:"exists"`
	BaselineID  *uuid.UUID `json:"baselineId,omitempty"`
	Status      string     `json:"status,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
}

type GapAnalysisService interface {
	Compose(ctx context.Context, tx *gorm.DB, baselineID uuid.UUID) (*GapView, error)
	CheckExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, legacyCorrelationID string) (*ExistsResult, error)
}

type gapAnalysisService struct {
	db        *gorm.DB
	log       *logger.Logger
	baselines repos.BaselineMatrixRepo
	ideals    repos.IdealMatrixRepo
	scoring   scoring.Client
}

func NewGapAnalysisService(
	db *gorm.DB,
	baseLog *logger.Logger,
	baselines repos.BaselineMatrixRepo,
	ideals repos.IdealMatrixRepo,
	scoringClient scoring.Client,
) GapAnalysisService {
	return &gapAnalysisService{
		db:        db,
		log:       baseLog.With("service", "GapAnalysisService"),
		baselines: baselines,
		ideals:    ideals,
		scoring:   scoringClient,
	}
}

// Compose is fail-fast assembly. A missing baseline is NotFound; a baseline
// whose ideal-matrix reference cannot be loaded is a DependencyError. The
// two must stay distinguishable because the first means "wrong id" and the
// second means "data integrity or upstream availability problem".
func (s *gapAnalysisService) Compose(ctx context.Context, tx *gorm.DB, baselineID uuid.UUID) (*GapView, error) {
	if baselineID == uuid.Nil {
		return nil, apierr.Validation("missing_baseline_id", fmt.Errorf("baseline id is required"))
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	baseline, err := s.baselines.GetByID(ctx, transaction, baselineID)
	if err != nil {
		return nil, err
	}
	if baseline == nil {
		return nil, apierr.NotFound("baseline_not_found", fmt.Errorf("baseline %s does not exist", baselineID))
	}

	ideal, err := s.ideals.GetByID(ctx, transaction, baseline.IdealSkillMatrixID)
	if err != nil {
		return nil, apierr.DependencyError("ideal_matrix_unavailable", err)
	}
	if ideal == nil {
		return nil, apierr.DependencyError("ideal_matrix_missing",
			fmt.Errorf("baseline %s references ideal matrix %s which does not exist", baselineID, baseline.IdealSkillMatrixID))
	}

	return &GapView{
		ID:                   baseline.ID,
		UserID:               baseline.UserID,
		Status:               baseline.Status,
		BaselineSkillMatrix:  baseline.SkillMatrix,
		IdealSkillMatrix:     ideal.SkillMatrix,
		CreatedAt:            baseline.CreatedAt,
		AnalysisStartedAt:    baseline.AnalysisStartedAt,
		AnalysisCompletedAt:  baseline.AnalysisCompletedAt,
		GapAnalysisDashboard: baseline.GapAnalysisDashboard,
	}, nil
}

// CheckExists prefers an existing baseline over starting a new expensive
// scoring job: a completed baseline wins, any baseline is second best, and
// only the legacy-correlation path may ask the scoring collaborator to
// create a fresh one.
func (s *gapAnalysisService) CheckExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, legacyCorrelationID string) (*ExistsResult, error) {
	legacyCorrelationID = strings.TrimSpace(legacyCorrelationID)
	if userID == uuid.Nil && legacyCorrelationID == "" {
		return nil, apierr.Validation("missing_identifier", fmt.Errorf("a user id or legacy correlation id is required"))
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if userID != uuid.Nil {
		completed, err := s.baselines.GetLatestByUserAndStatus(ctx, transaction, userID, types.BaselineStatusCompleted)
		if err != nil {
			return nil, err
		}
		if completed != nil {
			return &ExistsResult{Exists: true, BaselineID: &completed.ID, Status: completed.Status, IsCompleted: true}, nil
		}

		any, err := s.baselines.GetLatestByUser(ctx, transaction, userID)
		if err != nil {
			return nil, err
		}
		if any != nil {
			return &ExistsResult{Exists: true, BaselineID: &any.ID, Status: any.Status, IsCompleted: false}, nil
		}
	}

	if legacyCorrelationID != "" {
		existing, err := s.baselines.GetLatestByLegacyCorrelationID(ctx, transaction, legacyCorrelationID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ExistsResult{
				Exists:      true,
				BaselineID:  &existing.ID,
				Status:      existing.Status,
				IsCompleted: existing.Status == types.BaselineStatusCompleted,
			}, nil
		}

		createdID, err := s.scoring.CreateBaseline(ctx, legacyCorrelationID)
		if err != nil {
			return nil, err
		}
		s.log.Info("Requested new baseline from scoring service", "legacy_correlation_id", legacyCorrelationID)
		return &ExistsResult{Exists: true, BaselineID: &createdID, Status: types.BaselineStatusPending, IsCompleted: false}, nil
	}

	return &ExistsResult{Exists: false}, nil
}
