package upstream

import (
	"context"

	"neohealth/internal/domain"
)

// SeedExamples pide al backend que cargue datos del estudio en los registros del usuario.
// No se reintenta: repetirlo duplica los registros.
func (c *Client) SeedExamples(ctx context.Context, session domain.Session) error {
	return c.post(ctx, &session, "admin.seed", "/admin/seed", struct{}{}, nil)
}

// AdminStats devuelve los conteos globales; el backend responde 403 a quien no es admin.
func (c *Client) AdminStats(ctx context.Context, session domain.Session) (domain.AdminStats, error) {
	var out domain.AdminStats
	if err := c.get(ctx, &session, "admin.stats", "/admin/stats", &out); err != nil {
		return domain.AdminStats{}, err
	}
	if out.RecentLogs == nil {
		out.RecentLogs = []domain.PredictionLog{}
	}
	return out, nil
}
