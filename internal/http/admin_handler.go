package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neohealth/internal/domain"
	"neohealth/internal/service"
)

// AdminBackend son las operaciones de mantenimiento que expone el backend.
type AdminBackend interface {
	SeedExamples(ctx context.Context, session domain.Session) error
	AdminStats(ctx context.Context, session domain.Session) (domain.AdminStats, error)
}

// AdminHandler carga datos de ejemplo y expone los conteos globales.
type AdminHandler struct {
	logger   *zap.Logger
	backend  AdminBackend
	sessions *service.SessionManager
}

func NewAdminHandler(logger *zap.Logger, backend AdminBackend, sessions *service.SessionManager) *AdminHandler {
	return &AdminHandler{logger: logger, backend: backend, sessions: sessions}
}

// SeedExamples maneja POST /api/examples/seed.
func (h *AdminHandler) SeedExamples(c *gin.Context) {
	session, _ := GetSession(c)
	if err := h.backend.SeedExamples(c.Request.Context(), session); err != nil {
		h.failure(c, session, "seed examples", err)
		return
	}
	h.logger.Info("example data seeded", zap.Int64("user_id", session.User.ID))
	c.JSON(http.StatusOK, gin.H{"message": "example data loaded"})
}

// Stats maneja GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	session, _ := GetSession(c)
	stats, err := h.backend.AdminStats(c.Request.Context(), session)
	if err != nil {
		h.failure(c, session, "admin stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) failure(c *gin.Context, session domain.Session, op string, err error) {
	if domain.IsAuthError(err) {
		h.sessions.Invalidate(c.Request.Context(), session, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}
	h.logger.Warn(op+" failed", zap.Error(err))
	c.JSON(collaboratorStatus(err), gin.H{"error": collaboratorMessage(err, op+" failed")})
}
