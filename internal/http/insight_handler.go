package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neohealth/internal/domain"
	"neohealth/internal/service"
)

// InsightHandler sirve el dashboard compuesto y la navegacion de datasets.
type InsightHandler struct {
	logger   *zap.Logger
	composer *service.DashboardComposer
	datasets service.DatasetBackend
	sessions *service.SessionManager
}

func NewInsightHandler(logger *zap.Logger, composer *service.DashboardComposer, datasets service.DatasetBackend, sessions *service.SessionManager) *InsightHandler {
	return &InsightHandler{
		logger:   logger,
		composer: composer,
		datasets: datasets,
		sessions: sessions,
	}
}

// GetInsights maneja GET /api/insights.
func (h *InsightHandler) GetInsights(c *gin.Context) {
	session, _ := GetSession(c)
	state, err := h.composer.Compose(c.Request.Context(), session)
	if err != nil {
		if errors.Is(err, service.ErrCompositionAbandoned) {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		h.logger.Error("compose dashboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard"})
		return
	}
	if state.SessionExpired {
		h.sessions.Invalidate(c.Request.Context(), session, errors.New("collaborator rejected session"))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// ListDatasets maneja GET /api/datasets.
func (h *InsightHandler) ListDatasets(c *gin.Context) {
	session, _ := GetSession(c)
	items, err := h.datasets.ListDatasets(c.Request.Context(), session)
	if err != nil {
		h.collaboratorFailure(c, session, "list datasets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": service.NewDatasetCatalog(items)})
}

// DatasetStats maneja GET /api/datasets/:name/stats.
func (h *InsightHandler) DatasetStats(c *gin.Context) {
	session, _ := GetSession(c)
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dataset name is required"})
		return
	}
	stats, err := h.datasets.DatasetStats(c.Request.Context(), session, name)
	if err != nil {
		h.collaboratorFailure(c, session, "dataset stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *InsightHandler) collaboratorFailure(c *gin.Context, session domain.Session, op string, err error) {
	if domain.IsAuthError(err) {
		h.sessions.Invalidate(c.Request.Context(), session, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}
	h.logger.Warn(op+" failed", zap.Error(err))
	c.JSON(collaboratorStatus(err), gin.H{"error": collaboratorMessage(err, "could not load "+strings.TrimPrefix(op, "list "))})
}
