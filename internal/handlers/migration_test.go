package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/services"
)

type fakeMigrationService struct {
	report *services.MigrationReport
	err    error
	last   string
}

func (f *fakeMigrationService) Run(ctx context.Context, which string) (*services.MigrationReport, error) {
	f.last = which
	return f.report, f.err
}

func newMigrationRouter(svc services.MigrationService) *gin.Engine {
	h := NewMigrationHandler(svc)
	router := gin.New()
	router.POST("/api/migrations/run", h.Run)
	return router
}

func TestMigrationHandler_StepFailureStillReturns200(t *testing.T) {
	svc := &fakeMigrationService{report: &services.MigrationReport{
		Status:  services.StepStatusError,
		Message: "one or more migration steps failed",
		Steps: []services.StepReport{
			{Name: services.MigrationAddColumns, Status: services.StepStatusSuccess},
			{Name: services.MigrationExtractSkills, Status: services.StepStatusError, Message: "insert skills: disk full"},
		},
	}}
	router := newMigrationRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/migrations/run", strings.NewReader(`{"migration":"all"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("per-step statuses are the contract, expected 200, got %d", rec.Code)
	}
	if svc.last != "all" {
		t.Fatalf("expected migration name passed through, got %q", svc.last)
	}
	var out services.MigrationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if out.Status != services.StepStatusError || len(out.Steps) != 2 {
		t.Fatalf("unexpected report: %+v", out)
	}
}

func TestMigrationHandler_InvalidBody(t *testing.T) {
	router := newMigrationRouter(&fakeMigrationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/migrations/run", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
