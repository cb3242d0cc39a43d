package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/apierr"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/clients/compute"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/clients/rediscache"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/logger"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/repos"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

type ReconcileResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// ReconcilerService resolves stuck pending interpretation jobs. The primary
// compute service is always tried first; the local path only runs when the
// primary declines, so a job is never processed twice in one pass. Safe to
// call repeatedly: completed rows never match the pending filter again.
type ReconcilerService interface {
	Reconcile(ctx context.Context, userID uuid.UUID) (*ReconcileResult, error)
}

type reconcilerService struct {
	db          *gorm.DB
	log         *logger.Logger
	results     repos.InterpretationResultRepo
	submissions repos.AssessmentSubmissionRepo
	compute     compute.Client
	cache       *rediscache.StatusCache
	group       singleflight.Group
}

func NewReconcilerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	results repos.InterpretationResultRepo,
	submissions repos.AssessmentSubmissionRepo,
	computeClient compute.Client,
	cache *rediscache.StatusCache,
) ReconcilerService {
	return &reconcilerService{
		db:          db,
		log:         baseLog.With("service", "ReconcilerService"),
		results:     results,
		submissions: submissions,
		compute:     computeClient,
		cache:       cache,
	}
}

// strategyOutcome is the uniform result of one reconciliation strategy.
// Handled=false means the strategy declined and the next one should run.
type strategyOutcome struct {
	handled bool
	count   int
	message string
}

func (s *reconcilerService) Reconcile(ctx context.Context, userID uuid.UUID) (*ReconcileResult, error) {
	if userID == uuid.Nil {
		return nil, apierr.Validation("missing_user_id", fmt.Errorf("user id is required"))
	}

	// Concurrent reconcile requests for the same user collapse into one
	// pass; duplicates share its outcome.
	v, err, _ := s.group.Do(userID.String(), func() (interface{}, error) {
		return s.reconcile(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ReconcileResult), nil
}

func (s *reconcilerService) reconcile(ctx context.Context, userID uuid.UUID) (*ReconcileResult, error) {
	strategies := []func(context.Context, uuid.UUID) (strategyOutcome, error){
		s.primaryCompute,
		s.directFallback,
	}
	for _, strategy := range strategies {
		outcome, err := strategy(ctx, userID)
		if err != nil {
			return nil, err
		}
		if outcome.handled {
			s.cache.Invalidate(ctx, userID.String())
			return &ReconcileResult{Success: true, Count: outcome.count, Message: outcome.message}, nil
		}
	}
	// directFallback always handles or errors; this is unreachable in
	// practice but keeps the strategy loop honest.
	return &ReconcileResult{Success: true, Count: 0, Message: "No pending interpretations"}, nil
}

// primaryCompute delegates to the compute service. It declines on any
// transport failure and on a zero processed count: zero means the primary
// path saw nothing to do, and only the local path can distinguish "nothing
// pending" from "no job was ever created".
func (s *reconcilerService) primaryCompute(ctx context.Context, userID uuid.UUID) (strategyOutcome, error) {
	processed, err := s.compute.ProcessPending(ctx, userID)
	if err != nil {
		s.log.Warn("Primary compute path declined, falling back to direct reconciliation",
			"user_id", userID, "error", err)
		return strategyOutcome{}, nil
	}
	if processed <= 0 {
		return strategyOutcome{}, nil
	}
	return strategyOutcome{
		handled: true,
		count:   processed,
		message: "Processed by compute service",
	}, nil
}

func (s *reconcilerService) directFallback(ctx context.Context, userID uuid.UUID) (strategyOutcome, error) {
	pending, err := s.results.ListPendingByUser(ctx, s.db, userID)
	if err != nil {
		return strategyOutcome{}, err
	}

	if len(pending) == 0 {
		total, err := s.results.CountByUser(ctx, s.db, userID)
		if err != nil {
			return strategyOutcome{}, err
		}
		if total > 0 {
			return strategyOutcome{handled: true, count: 0, message: "No pending interpretations"}, nil
		}
		return s.synthesizeResult(ctx, userID)
	}

	// Best-effort batch: each row is attempted independently and a failure
	// never aborts its siblings.
	completed := 0
	payload := CanonicalCompletedPayload()
	for _, row := range pending {
		ok, err := s.results.MarkCompleted(ctx, s.db, row.ID, payload)
		if err != nil {
			s.log.Warn("Failed to complete pending interpretation, continuing with siblings",
				"result_id", row.ID, "user_id", userID, "error", err)
			continue
		}
		if ok {
			completed++
		}
	}
	return strategyOutcome{
		handled: true,
		count:   completed,
		message: fmt.Sprintf("Completed %d pending interpretations", completed),
	}, nil
}

// synthesizeResult covers the lost-job case: the user asked for resolution,
// no result row was ever created, but an assessment is on file. One
// completed row is written directly.
func (s *reconcilerService) synthesizeResult(ctx context.Context, userID uuid.UUID) (strategyOutcome, error) {
	sub, err := s.submissions.GetLatestByUser(ctx, s.db, userID)
	if err != nil {
		return strategyOutcome{}, err
	}
	if sub == nil {
		return strategyOutcome{}, apierr.NotFound("assessment_not_found", fmt.Errorf("no assessment submission exists for user"))
	}

	result := &types.InterpretationResult{
		UserID:       userID,
		AssessmentID: sub.ID,
		Status:       types.InterpretationStatusCompleted,
		Payload:      CanonicalCompletedPayload(),
	}
	if err := s.results.Create(ctx, s.db, result); err != nil {
		if repos.IsDuplicate(err) {
			// A concurrent path created the row between our checks.
			return strategyOutcome{handled: true, count: 0, message: "Interpretation already exists"}, nil
		}
		return strategyOutcome{}, err
	}
	return strategyOutcome{handled: true, count: 1, message: "Created new interpretation result"}, nil
}
