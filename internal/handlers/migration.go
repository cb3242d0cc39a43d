package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/services"
)

type MigrationHandler struct {
	migrations services.MigrationService
}

func NewMigrationHandler(migrations services.MigrationService) *MigrationHandler {
	return &MigrationHandler{migrations: migrations}
}

type runMigrationRequest struct {
	Migration string `json:"migration"`
}

// POST /api/migrations/run
// The report is returned with 200 even when individual steps failed; the
// per-step statuses are the contract, not the HTTP code.
func (h *MigrationHandler) Run(c *gin.Context) {
	var req runMigrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	report, err := h.migrations.Run(c.Request.Context(), req.Migration)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}
