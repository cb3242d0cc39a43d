package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/apierr"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/repos/testutil"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/types"
)

func newReconciler(t *testing.T, results *fakeResultRepo, subs *fakeSubmissionRepo, computeClient *fakeComputeClient) ReconcilerService {
	t.Helper()
	return NewReconcilerService(nil, testutil.Logger(t), results, subs, computeClient, nil)
}

func TestReconcile_PrimaryComputeWins(t *testing.T) {
	results := newFakeResultRepo()
	userID := uuid.New()
	results.add(&types.InterpretationResult{UserID: userID, AssessmentID: uuid.New()})
	computeClient := &fakeComputeClient{processed: 2}
	svc := newReconciler(t, results, &fakeSubmissionRepo{}, computeClient)

	out, err := svc.Reconcile(context.Background(), userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !out.Success || out.Count != 2 || out.Message != "Processed by compute service" {
		t.Fatalf("expected primary outcome, got %+v", out)
	}
	if computeClient.calls != 1 {
		t.Fatalf("expected one compute call, got %d", computeClient.calls)
	}
	// The primary path handled it; the local fallback must not also touch
	// the rows.
	if len(results.markCalls) != 0 {
		t.Fatalf("fallback ran after primary succeeded: %v", results.markCalls)
	}
}

func TestReconcile_FallbackCompletesOnlyThisUsersPendingRows(t *testing.T) {
	results := newFakeResultRepo()
	userID := uuid.New()
	otherID := uuid.New()
	p1 := results.add(&types.InterpretationResult{UserID: userID, AssessmentID: uuid.New()})
	p2 := results.add(&types.InterpretationResult{UserID: userID, AssessmentID: uuid.New()})
	done := results.add(&types.InterpretationResult{
		UserID: userID, AssessmentID: uuid.New(),
		Status: types.InterpretationStatusCompleted,
	})
	foreign := results.add(&types.InterpretationResult{UserID: otherID, AssessmentID: uuid.New()})
	computeClient := &fakeComputeClient{err: errors.New("compute down")}
	svc := newReconciler(t, results, &fakeSubmissionRepo{}, computeClient)

	out, err := svc.Reconcile(context.Background(), userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected 2 completions, got %+v", out)
	}
	for _, id := range []uuid.UUID{p1.ID, p2.ID} {
		if results.rows[id].Status != types.InterpretationStatusCompleted {
			t.Fatalf("row %s should be completed", id)
		}
		if status := types.PayloadStatus(results.rows[id].Payload); status != types.InterpretationStatusCompleted {
			t.Fatalf("completed row %s carries payload status %q", id, status)
		}
	}
	if results.rows[foreign.ID].Status != types.InterpretationStatusPending {
		t.Fatalf("another user's pending row was touched")
	}
	if results.rows[done.ID].Payload != nil {
		t.Fatalf("already-completed row was rewritten")
	}
}

func TestReconcile_RowFailureDoesNotAbortSiblings(t *testing.T) {
	results := newFakeResultRepo()
	userID := uuid.New()
	good1 := results.add(&types.InterpretationResult{UserID: userID, AssessmentID: uuid.New()})
	bad := results.add(&types.InterpretationResult{UserID: userID, AssessmentID: uuid.New()})
	good2 := results.add(&types.InterpretationResult{UserID: userID, AssessmentID: uuid.New()})
	results.markErrs[bad.ID] = errors.New("row locked")
	svc := newReconciler(t, results, &fakeSubmissionRepo{}, &fakeComputeClient{err: errors.New("down")})

	out, err := svc.Reconcile(context.Background(), userID)
	if err != nil {
		t.Fatalf("a single row failure must not fail the batch: %v", err)
	}
	if !out.Success || out.Count != 2 {
		t.Fatalf("expected 2 of 3 completed, got %+v", out)
	}
	for _, id := range []uuid.UUID{good1.ID, good2.ID} {
		if results.rows[id].Status != types.InterpretationStatusCompleted {
			t.Fatalf("sibling %s should have completed despite the failure", id)
		}
	}
	if results.rows[bad.ID].Status != types.InterpretationStatusPending {
		t.Fatalf("failed row should remain pending for the next pass")
	}
}

func TestReconcile_NoPendingWithHistoryIsZeroCount(t *testing.T) {
	results := newFakeResultRepo()
	userID := uuid.New()
	results.add(&types.InterpretationResult{
		UserID: userID, AssessmentID: uuid.New(),
		Status: types.InterpretationStatusCompleted,
	})
	svc := newReconciler(t, results, &fakeSubmissionRepo{}, &fakeComputeClient{})

	out, err := svc.Reconcile(context.Background(), userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !out.Success || out.Count != 0 || out.Message != "No pending interpretations" {
		t.Fatalf("expected zero-count success, got %+v", out)
	}
}

func TestReconcile_SynthesizesResultWhenNoRowsExist(t *testing.T) {
	results := newFakeResultRepo()
	userID := uuid.New()
	sub := &types.AssessmentSubmission{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	svc := newReconciler(t, results, &fakeSubmissionRepo{subs: []*types.AssessmentSubmission{sub}}, &fakeComputeClient{})

	out, err := svc.Reconcile(context.Background(), userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if out.Count != 1 || out.Message != "Created new interpretation result" {
		t.Fatalf("expected synthesized result, got %+v", out)
	}
	if len(results.rows) != 1 {
		t.Fatalf("expected one synthesized row, got %d", len(results.rows))
	}
	for _, row := range results.rows {
		if row.AssessmentID != sub.ID {
			t.Fatalf("synthesized row should target the latest submission")
		}
		if row.Status != types.InterpretationStatusCompleted {
			t.Fatalf("synthesized row must be born completed, got %s", row.Status)
		}
		if status := types.PayloadStatus(row.Payload); status != types.InterpretationStatusCompleted {
			t.Fatalf("synthesized payload status %q", status)
		}
	}
}

func TestReconcile_NoRowsNoSubmissionIsNotFound(t *testing.T) {
	svc := newReconciler(t, newFakeResultRepo(), &fakeSubmissionRepo{}, &fakeComputeClient{})

	_, err := svc.Reconcile(context.Background(), uuid.New())
	if !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestReconcile_RepeatedRunsConverge(t *testing.T) {
	results := newFakeResultRepo()
	userID := uuid.New()
	results.add(&types.InterpretationResult{UserID: userID, AssessmentID: uuid.New()})
	svc := newReconciler(t, results, &fakeSubmissionRepo{}, &fakeComputeClient{})
	ctx := context.Background()

	first, err := svc.Reconcile(ctx, userID)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first.Count != 1 {
		t.Fatalf("first pass should complete the row, got %+v", first)
	}

	second, err := svc.Reconcile(ctx, userID)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second.Count != 0 || second.Message != "No pending interpretations" {
		t.Fatalf("second pass must be a no-op, got %+v", second)
	}
}

func TestReconcile_MissingUserIsValidation(t *testing.T) {
	svc := newReconciler(t, newFakeResultRepo(), &fakeSubmissionRepo{}, &fakeComputeClient{})

	_, err := svc.Reconcile(context.Background(), uuid.Nil)
	if !apierr.IsKind(err, apierr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
