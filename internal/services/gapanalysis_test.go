package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/apierr"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/repos/testutil"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

func newGapService(t *testing.T, baselines *fakeBaselineRepo, ideals *fakeIdealRepo, scoringClient *fakeScoringClient) GapAnalysisService {
	t.Helper()
	return NewGapAnalysisService(nil, testutil.Logger(t), baselines, ideals, scoringClient)
}

func TestCompose_JoinsBaselineAndIdeal(t *testing.T) {
	ideal := &types.IdealSkillMatrix{
		ID:          uuid.New(),
		RoleName:    "Data Engineer",
		SkillMatrix: datatypes.JSON(`{"technical_skills":[{"name":"SQL"}]}`),
	}
	started := time.Now().Add(-time.Minute)
	baseline := &types.BaselineSkillMatrix{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		Status:             types.BaselineStatusCompleted,
		SkillMatrix:        datatypes.JSON(`{"skills":[{"name":"SQL","level":3}]}`),
		IdealSkillMatrixID: ideal.ID,
		AnalysisStartedAt:  &started,
	}
	svc := newGapService(t,
		&fakeBaselineRepo{rows: []*types.BaselineSkillMatrix{baseline}},
		&fakeIdealRepo{rows: []*types.IdealSkillMatrix{ideal}},
		&fakeScoringClient{},
	)

	view, err := svc.Compose(context.Background(), nil, baseline.ID)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if view.ID != baseline.ID || view.UserID != baseline.UserID {
		t.Fatalf("view identity mismatch: %+v", view)
	}
	if string(view.BaselineSkillMatrix) != string(baseline.SkillMatrix) {
		t.Fatalf("baseline matrix not carried through")
	}
	if string(view.IdealSkillMatrix) != string(ideal.SkillMatrix) {
		t.Fatalf("ideal matrix not carried through")
	}
	if view.AnalysisStartedAt == nil || !view.AnalysisStartedAt.Equal(started) {
		t.Fatalf("analysis timestamps not carried through")
	}
}

func TestCompose_MissingBaselineIsNotFound(t *testing.T) {
	svc := newGapService(t, &fakeBaselineRepo{}, &fakeIdealRepo{}, &fakeScoringClient{})

	_, err := svc.Compose(context.Background(), nil, uuid.New())
	if !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("expected not-found for unknown baseline, got %v", err)
	}
}

func TestCompose_MissingIdealIsDependencyError(t *testing.T) {
	baseline := &types.BaselineSkillMatrix{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		Status:             types.BaselineStatusCompleted,
		IdealSkillMatrixID: uuid.New(),
	}
	svc := newGapService(t,
		&fakeBaselineRepo{rows: []*types.BaselineSkillMatrix{baseline}},
		&fakeIdealRepo{},
		&fakeScoringClient{},
	)

	// The baseline exists but its ideal reference dangles. This must not be
	// reported as not-found: the caller's id was right.
	_, err := svc.Compose(context.Background(), nil, baseline.ID)
	if !apierr.IsKind(err, apierr.KindDependencyError) {
		t.Fatalf("expected dependency error for dangling ideal reference, got %v", err)
	}
}

func TestCheckExists_PrefersCompletedOverNewer(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()
	completed := &types.BaselineSkillMatrix{
		ID: uuid.New(), UserID: userID,
		Status:             types.BaselineStatusCompleted,
		IdealSkillMatrixID: uuid.New(),
		CreatedAt:          now.Add(-time.Hour),
	}
	analyzing := &types.BaselineSkillMatrix{
		ID: uuid.New(), UserID: userID,
		Status:             types.BaselineStatusAnalyzing,
		IdealSkillMatrixID: uuid.New(),
		CreatedAt:          now,
	}
	scoringClient := &fakeScoringClient{}
	svc := newGapService(t,
		&fakeBaselineRepo{rows: []*types.BaselineSkillMatrix{completed, analyzing}},
		&fakeIdealRepo{}, scoringClient,
	)

	out, err := svc.CheckExists(context.Background(), nil, userID, "")
	if err != nil {
		t.Fatalf("check exists: %v", err)
	}
	if !out.Exists || !out.IsCompleted || out.BaselineID == nil || *out.BaselineID != completed.ID {
		t.Fatalf("expected the completed baseline to win, got %+v", out)
	}
	if scoringClient.calls != 0 {
		t.Fatalf("existing baseline must not trigger scoring")
	}
}

func TestCheckExists_FallsBackToAnyStatus(t *testing.T) {
	userID := uuid.New()
	analyzing := &types.BaselineSkillMatrix{
		ID: uuid.New(), UserID: userID,
		Status:             types.BaselineStatusAnalyzing,
		IdealSkillMatrixID: uuid.New(),
	}
	svc := newGapService(t,
		&fakeBaselineRepo{rows: []*types.BaselineSkillMatrix{analyzing}},
		&fakeIdealRepo{}, &fakeScoringClient{},
	)

	out, err := svc.CheckExists(context.Background(), nil, userID, "")
	if err != nil {
		t.Fatalf("check exists: %v", err)
	}
	if !out.Exists || out.IsCompleted || out.Status != types.BaselineStatusAnalyzing {
		t.Fatalf("expected in-progress baseline, got %+v", out)
	}
}

func TestCheckExists_LegacyReturnsExistingWithoutScoring(t *testing.T) {
	legacy := uuid.NewString()
	row := &types.BaselineSkillMatrix{
		ID:                  uuid.New(),
		UserID:              uuid.New(),
		LegacyCorrelationID: &legacy,
		Status:              types.BaselineStatusCompleted,
		IdealSkillMatrixID:  uuid.New(),
	}
	scoringClient := &fakeScoringClient{}
	svc := newGapService(t,
		&fakeBaselineRepo{rows: []*types.BaselineSkillMatrix{row}},
		&fakeIdealRepo{}, scoringClient,
	)

	out, err := svc.CheckExists(context.Background(), nil, uuid.Nil, legacy)
	if err != nil {
		t.Fatalf("check exists: %v", err)
	}
	if !out.Exists || out.BaselineID == nil || *out.BaselineID != row.ID || !out.IsCompleted {
		t.Fatalf("expected legacy baseline, got %+v", out)
	}
	if scoringClient.calls != 0 {
		t.Fatalf("existing legacy baseline must not trigger scoring")
	}
}

func TestCheckExists_LegacyRequestsNewBaseline(t *testing.T) {
	legacy := uuid.NewString()
	createdID := uuid.New()
	scoringClient := &fakeScoringClient{id: createdID}
	svc := newGapService(t, &fakeBaselineRepo{}, &fakeIdealRepo{}, scoringClient)

	out, err := svc.CheckExists(context.Background(), nil, uuid.Nil, legacy)
	if err != nil {
		t.Fatalf("check exists: %v", err)
	}
	if !out.Exists || out.BaselineID == nil || *out.BaselineID != createdID {
		t.Fatalf("expected freshly requested baseline, got %+v", out)
	}
	if out.Status != types.BaselineStatusPending || out.IsCompleted {
		t.Fatalf("new baseline must read as pending, got %+v", out)
	}
	if scoringClient.calls != 1 || scoringClient.lastLegacy != legacy {
		t.Fatalf("scoring should be asked once for %s, got calls=%d legacy=%s",
			legacy, scoringClient.calls, scoringClient.lastLegacy)
	}
}

func TestCheckExists_NoIdentifierIsValidation(t *testing.T) {
	svc := newGapService(t, &fakeBaselineRepo{}, &fakeIdealRepo{}, &fakeScoringClient{})

	_, err := svc.CheckExists(context.Background(), nil, uuid.Nil, "  ")
	if !apierr.IsKind(err, apierr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
