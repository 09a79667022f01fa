package upstream

import (
	"context"
	"strings"

	"neohealth/internal/domain"
)

// Login delega las credenciales al servicio de auth; este servicio no las valida.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	var out domain.LoginResult
	if err := c.post(ctx, nil, "auth.login", "/auth/login", creds, &out); err != nil {
		return domain.LoginResult{}, err
	}
	if strings.TrimSpace(out.Token) == "" {
		return domain.LoginResult{}, &domain.TransportError{
			Op:      "auth.login",
			Kind:    domain.KindServer,
			Message: "login response without token",
		}
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	return c.post(ctx, nil, "auth.register", "/auth/register", reg, nil)
}

func (c *Client) CurrentUser(ctx context.Context, session domain.Session) (domain.User, error) {
	var out domain.User
	if err := c.get(ctx, &session, "auth.me", "/auth/me", &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}
