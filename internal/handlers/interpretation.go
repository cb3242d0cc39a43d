package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Aashu-11/AdivirtusAI-sub002/internal/requestdata"
	"github.com/Aashu-11/AdivirtusAI-sub002/internal/services"
)

type InterpretationHandler struct {
	interpretations services.InterpretationService
	reconciler      services.ReconcilerService
}

func NewInterpretationHandler(interpretations services.InterpretationService, reconciler services.ReconcilerService) *InterpretationHandler {
	return &InterpretationHandler{interpretations: interpretations, reconciler: reconciler}
}

type startInterpretationRequest struct {
	UserID       string `json:"userId"`
	AssessmentID string `json:"assessmentId"`
}

// POST /api/interpretations
func (h *InterpretationHandler) Start(c *gin.Context) {
	var req startInterpretationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	userID, err := resolveUserID(c, req.UserID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	var assessmentID uuid.UUID
	if req.AssessmentID != "" {
		assessmentID, err = uuid.Parse(req.AssessmentID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
			return
		}
	}

	result, err := h.interpretations.Start(c.Request.Context(), nil, userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/interpretations/status?userId=
func (h *InterpretationHandler) Status(c *gin.Context) {
	userID, err := resolveUserID(c, c.Query("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	result, err := h.interpretations.Status(c.Request.Context(), nil, userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

type reconcileRequest struct {
	UserID string `json:"userId"`
}

// POST /api/interpretations/reconcile
func (h *InterpretationHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	userID, err := resolveUserID(c, req.UserID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}
	result, err := h.reconciler.Reconcile(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// resolveUserID prefers an explicit identifier and falls back to the one
// the auth middleware parsed out of the bearer token.
func resolveUserID(c *gin.Context, explicit string) (uuid.UUID, error) {
	if explicit != "" {
		return uuid.Parse(explicit)
	}
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
		return rd.UserID, nil
	}
	return uuid.Nil, fmt.Errorf("user id is required")
}
