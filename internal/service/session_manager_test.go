package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"neohealth/internal/domain"
)

type stubAuth struct {
	result   domain.LoginResult
	loginErr error
	user     domain.User
}

func (s *stubAuth) Login(context.Context, domain.Credentials) (domain.LoginResult, error) {
	return s.result, s.loginErr
}

func (s *stubAuth) Register(context.Context, domain.Registration) error { return nil }

func (s *stubAuth) CurrentUser(context.Context, domain.Session) (domain.User, error) {
	return s.user, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "42"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newTestManager(auth AuthProvider, now time.Time) *SessionManager {
	m := NewSessionManager(nil, auth, NewMemorySessionStore(), time.Hour)
	m.now = func() time.Time { return now }
	return m
}

func TestSessionManagerLogin_UsesTokenExpiry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	exp := now.Add(15 * time.Minute)
	auth := &stubAuth{result: domain.LoginResult{Token: signedToken(t, exp), User: domain.User{ID: 42, Username: "ana"}}}
	m := newTestManager(auth, now)

	session, err := m.Login(context.Background(), domain.Credentials{Username: "ana", Password: "x"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.ID == "" || session.ID == session.Token {
		t.Fatalf("expected opaque session id, got %q", session.ID)
	}
	if !session.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, session.ExpiresAt)
	}

	resolved, err := m.Resolve(context.Background(), session.ID)
	if err != nil || resolved.Token != session.Token {
		t.Fatalf("expected resolvable session, got %+v err=%v", resolved, err)
	}
}

func TestSessionManagerLogin_DefaultTTLForOpaqueToken(t *testing.T) {
	now := time.Now().UTC()
	m := newTestManager(&stubAuth{result: domain.LoginResult{Token: "not-a-jwt"}}, now)

	session, err := m.Login(context.Background(), domain.Credentials{})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !session.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected default ttl, got %v", session.ExpiresAt)
	}
}

func TestSessionManagerLogin_RejectsExpiredToken(t *testing.T) {
	now := time.Now().UTC()
	auth := &stubAuth{result: domain.LoginResult{Token: signedToken(t, now.Add(-time.Minute))}}
	m := newTestManager(auth, now)

	_, err := m.Login(context.Background(), domain.Credentials{})
	if !domain.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestSessionManagerLogin_PropagatesUpstreamError(t *testing.T) {
	upstreamErr := &domain.AuthError{Reason: "Bad username or password"}
	m := newTestManager(&stubAuth{loginErr: upstreamErr}, time.Now())
	if _, err := m.Login(context.Background(), domain.Credentials{}); !errors.Is(err, upstreamErr) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestSessionManagerResolve(t *testing.T) {
	now := time.Now().UTC()
	m := newTestManager(&stubAuth{result: domain.LoginResult{Token: "opaque"}}, now)
	ctx := context.Background()

	if _, err := m.Resolve(ctx, ""); !errors.Is(err, ErrSessionNotFound) || !domain.IsAuthError(err) {
		t.Fatalf("expected not found auth error, got %v", err)
	}
	if _, err := m.Resolve(ctx, "unknown"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	session, _ := m.Login(ctx, domain.Credentials{})
	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := m.Resolve(ctx, session.ID); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestSessionManagerLogoutAndInvalidate(t *testing.T) {
	m := newTestManager(&stubAuth{result: domain.LoginResult{Token: "opaque"}}, time.Now().UTC())
	ctx := context.Background()

	first, _ := m.Login(ctx, domain.Credentials{})
	if err := m.Logout(ctx, first.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := m.Resolve(ctx, first.ID); err == nil {
		t.Fatalf("expected session gone after logout")
	}

	second, _ := m.Login(ctx, domain.Credentials{})
	m.Invalidate(ctx, second, &domain.AuthError{Reason: "session expired"})
	if _, err := m.Resolve(ctx, second.ID); err == nil {
		t.Fatalf("expected session gone after invalidate")
	}
}
