package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"neohealth/internal/domain"
)

// AuthProvider es el colaborador remoto de autenticacion.
type AuthProvider interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error)
	Register(ctx context.Context, reg domain.Registration) error
	CurrentUser(ctx context.Context, session domain.Session) (domain.User, error)
}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionManager crea, resuelve e invalida sesiones. El token del upstream queda
// guardado del lado del servidor; el cliente solo conoce el id de sesion.
type SessionManager struct {
	logger     *zap.Logger
	auth       AuthProvider
	store      SessionStore
	defaultTTL time.Duration
	now        func() time.Time
}

func NewSessionManager(logger *zap.Logger, auth AuthProvider, store SessionStore, defaultTTL time.Duration) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemorySessionStore()
	}
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &SessionManager{
		logger:     logger,
		auth:       auth,
		store:      store,
		defaultTTL: defaultTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Login autentica contra el upstream y abre una sesion. La sesion vence cuando
// vence el token (claim exp) o, si no trae exp, tras defaultTTL.
func (m *SessionManager) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	result, err := m.auth.Login(ctx, creds)
	if err != nil {
		return domain.Session{}, err
	}
	now := m.now()
	expiresAt := now.Add(m.defaultTTL)
	if exp, ok := tokenExpiry(result.Token); ok {
		expiresAt = exp
	}
	if !expiresAt.After(now) {
		return domain.Session{}, &domain.AuthError{Reason: "token already expired", Err: ErrSessionExpired}
	}

	session := domain.Session{
		ID:        uuid.NewString(),
		Token:     result.Token,
		User:      result.User,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := m.store.Save(ctx, session, expiresAt.Sub(now)); err != nil {
		return domain.Session{}, err
	}
	m.logger.Info("session opened",
		zap.Int64("user_id", session.User.ID),
		zap.Time("expires_at", session.ExpiresAt),
	)
	return session, nil
}

// Resolve busca la sesion por id. Una sesion ausente o vencida es un AuthError.
func (m *SessionManager) Resolve(ctx context.Context, id string) (domain.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Session{}, &domain.AuthError{Reason: "missing session", Err: ErrSessionNotFound}
	}
	session, ok, err := m.store.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, &domain.AuthError{Reason: "session not found", Err: ErrSessionNotFound}
	}
	if session.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return domain.Session{}, &domain.AuthError{Reason: "session expired", Err: ErrSessionExpired}
	}
	return session, nil
}

func (m *SessionManager) Logout(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Invalidate borra la sesion despues de que un colaborador la rechazo.
func (m *SessionManager) Invalidate(ctx context.Context, session domain.Session, cause error) {
	if err := m.store.Delete(ctx, session.ID); err != nil {
		m.logger.Warn("session invalidation failed", zap.Int64("user_id", session.User.ID), zap.Error(err))
		return
	}
	m.logger.Info("session invalidated", zap.Int64("user_id", session.User.ID), zap.Error(cause))
}

func (m *SessionManager) Register(ctx context.Context, reg domain.Registration) error {
	return m.auth.Register(ctx, reg)
}

func (m *SessionManager) CurrentUser(ctx context.Context, session domain.Session) (domain.User, error) {
	return m.auth.CurrentUser(ctx, session)
}

// tokenExpiry lee exp sin verificar la firma; la firma la valida el upstream.
func tokenExpiry(token string) (time.Time, bool) {
	if strings.TrimSpace(token) == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.UTC(), true
}
