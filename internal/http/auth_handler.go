package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neohealth/internal/domain"
	"neohealth/internal/service"
)

// AuthHandler expone login, registro y logout sobre el SessionManager.
type AuthHandler struct {
	logger   *zap.Logger
	sessions *service.SessionManager
}

func NewAuthHandler(logger *zap.Logger, sessions *service.SessionManager) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), domain.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		status := collaboratorStatus(err)
		if status != http.StatusUnauthorized {
			h.logger.Error("login failed", zap.Error(err))
		}
		c.JSON(status, gin.H{"error": collaboratorMessage(err, "could not log in")})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"expires_at": session.ExpiresAt,
		"user":       session.User,
	})
}

// Register maneja POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.sessions.Register(c.Request.Context(), domain.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warn("register failed", zap.Error(err))
		c.JSON(collaboratorStatus(err), gin.H{"error": collaboratorMessage(err, "could not register")})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}

// Logout maneja POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, _ := GetSession(c)
	if err := h.sessions.Logout(c.Request.Context(), session.ID); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// Me maneja GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	session, _ := GetSession(c)
	user, err := h.sessions.CurrentUser(c.Request.Context(), session)
	if err != nil {
		if domain.IsAuthError(err) {
			h.sessions.Invalidate(c.Request.Context(), session, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		h.logger.Error("current user failed", zap.Error(err))
		c.JSON(collaboratorStatus(err), gin.H{"error": collaboratorMessage(err, "could not load user")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
