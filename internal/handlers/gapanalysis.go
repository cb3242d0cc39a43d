package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/services"
)

type GapAnalysisHandler struct {
	gaps services.GapAnalysisService
}

func NewGapAnalysisHandler(gaps services.GapAnalysisService) *GapAnalysisHandler {
	return &GapAnalysisHandler{gaps: gaps}
}

// GET /api/gap-analysis/:baselineId
func (h *GapAnalysisHandler) GetView(c *gin.Context) {
	baselineID, err := uuid.Parse(c.Param("baselineId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_baseline_id", err)
		return
	}
	view, err := h.gaps.Compose(c.Request.Context(), nil, baselineID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

// GET /api/gap-analysis/exists?userId=&legacyCorrelationId=
func (h *GapAnalysisHandler) CheckExists(c *gin.Context) {
	var userID uuid.UUID
	if raw := c.Query("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
			return
		}
		userID = parsed
	}
	legacyID := c.Query("legacyCorrelationId")

	result, err := h.gaps.CheckExists(c.Request.Context(), nil, userID, legacyID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
