package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"neohealth/internal/domain"
)

const sessionKey = "auth_session"

// SessionResolver traduce el id de sesion del cliente en una sesion vigente.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (domain.Session, error)
}

// SessionMiddleware exige "Authorization: Bearer <session id>" y guarda la sesion en el contexto.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resolver == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sessions not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			c.Abort()
			return
		}

		id := strings.TrimSpace(header[len("Bearer "):])
		session, err := resolver.Resolve(c.Request.Context(), id)
		if err != nil {
			if domain.IsAuthError(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			} else {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			}
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// GetSession obtiene la sesion resuelta por SessionMiddleware.
func GetSession(c *gin.Context) (domain.Session, bool) {
	val, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := val.(domain.Session)
	return session, ok
}
