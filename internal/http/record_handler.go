package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neohealth/internal/domain"
	"neohealth/internal/service"
)

// RecordHandler expone el flujo de envio de registros diarios.
type RecordHandler struct {
	logger   *zap.Logger
	workflow *service.SubmissionWorkflow
	sessions *service.SessionManager
}

func NewRecordHandler(logger *zap.Logger, workflow *service.SubmissionWorkflow, sessions *service.SessionManager) *RecordHandler {
	return &RecordHandler{
		logger:   logger,
		workflow: workflow,
		sessions: sessions,
	}
}

// SubmitRecord maneja POST /api/records.
func (h *RecordHandler) SubmitRecord(c *gin.Context) {
	var form service.RecordForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Warn("invalid record request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, _ := GetSession(c)
	outcome, err := h.workflow.Submit(c.Request.Context(), session, form)
	h.respond(c, session, outcome, err)
}

// RetryPrediction maneja POST /api/predictions/retry.
func (h *RecordHandler) RetryPrediction(c *gin.Context) {
	var req struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid retry request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, _ := GetSession(c)
	outcome, err := h.workflow.RetryPrediction(c.Request.Context(), session, req.Date)
	h.respond(c, session, outcome, err)
}

func (h *RecordHandler) respond(c *gin.Context, session domain.Session, outcome service.SubmissionOutcome, err error) {
	if err == nil {
		c.JSON(http.StatusCreated, outcome)
		return
	}

	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": outcome.Message, "fields": verrs, "outcome": outcome})
	case errors.Is(err, service.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "a submission is already in progress"})
	case domain.IsAuthError(err):
		h.sessions.Invalidate(c.Request.Context(), session, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired", "outcome": outcome})
	case errors.Is(err, service.ErrRecordNotSaved):
		c.JSON(collaboratorStatus(err), gin.H{"error": outcome.Message, "outcome": outcome})
	case errors.Is(err, service.ErrPredictionFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": outcome.Message, "outcome": outcome})
	default:
		h.logger.Error("record submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit record"})
	}
}
