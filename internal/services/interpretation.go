package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/apierr"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/clients/rediscache"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/repos"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

type StartResult struct {
	Success      bool      `json:"success"`
	AssessmentID uuid.UUID `json:"assessmentId"`
}

type StatusResult struct {
	Status     string     `json:"status"`
	ResultID   *uuid.UUID `json:"resultId,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	HasResults bool       `json:"hasResults"`
}

type InterpretationService interface {
	Start(ctx context.Context, tx *gorm.DB, userID, assessmentID uuid.UUID) (*StartResult, error)
	Status(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*StatusResult, error)
}

type interpretationService struct {
	db          *gorm.DB
	log         *logger.Logger
	results     repos.InterpretationResultRepo
	submissions repos.AssessmentSubmissionRepo
	cache       *rediscache.StatusCache
}

func NewInterpretationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	results repos.InterpretationResultRepo,
	submissions repos.AssessmentSubmissionRepo,
	cache *rediscache.StatusCache,
) InterpretationService {
	return &interpretationService{
		db:          db,
		log:         baseLog.With("service", "InterpretationService"),
		results:     results,
		submissions: submissions,
		cache:       cache,
	}
}

// Start resolves the target assessment and creates the pending job row.
// Only assessment resolution is fatal. A uniqueness conflict means a job for
// this pair is already in flight, which is exactly the state the caller
// asked for; any other create error is left for the reconciler to converge,
// since the Result Store is the authoritative state either way.
func (s *interpretationService) Start(ctx context.Context, tx *gorm.DB, userID, assessmentID uuid.UUID) (*StartResult, error) {
	if userID == uuid.Nil {
		return nil, apierr.Validation("missing_user_id", fmt.Errorf("user id is required"))
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	if assessmentID == uuid.Nil {
		sub, err := s.submissions.GetLatestByUser(ctx, transaction, userID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, apierr.NotFound("assessment_not_found", fmt.Errorf("no assessment submission exists for user"))
		}
		assessmentID = sub.ID
	}

	result := &types.InterpretationResult{
		UserID:       userID,
		AssessmentID: assessmentID,
		Status:       types.InterpretationStatusPending,
	}
	if err := s.results.Create(ctx, transaction, result); err != nil {
		if repos.IsDuplicate(err) {
			s.log.Info("Interpretation job already exists for pair, treating as started",
				"user_id", userID, "assessment_id", assessmentID)
		} else {
			s.log.Warn("Could not create pending interpretation result, deferring to reconciler",
				"user_id", userID, "assessment_id", assessmentID, "error", err)
		}
	}
	s.cache.Invalidate(ctx, userID.String())

	return &StartResult{Success: true, AssessmentID: assessmentID}, nil
}

// Status reports the latest job for the user. A user with no row at all is
// indistinguishable from one whose job has not started: both read as pending.
func (s *interpretationService) Status(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*StatusResult, error) {
	if userID == uuid.Nil {
		return nil, apierr.Validation("missing_user_id", fmt.Errorf("user id is required"))
	}

	if raw, ok := s.cache.Get(ctx, userID.String()); ok {
		var cached StatusResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}

	result, err := s.results.GetLatestByUser(ctx, transaction, userID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &StatusResult{Status: types.InterpretationStatusPending, HasResults: false}, nil
	}

	status := types.PayloadStatus(result.Payload)
	out := &StatusResult{
		Status:     status,
		ResultID:   &result.ID,
		CreatedAt:  &result.CreatedAt,
		HasResults: status == types.InterpretationStatusCompleted,
	}
	if raw, err := json.Marshal(out); err == nil {
		s.cache.Set(ctx, userID.String(), raw)
	}
	return out, nil
}
