package upstream

import (
	"context"
	"net/url"
	"strings"

	"neohealth/internal/domain"
)

// ListDatasets devuelve los descriptores tal como los lista el backend.
func (c *Client) ListDatasets(ctx context.Context, session domain.Session) ([]domain.DatasetDescriptor, error) {
	var out []domain.DatasetDescriptor
	if err := c.get(ctx, &session, "datasets.list", "/datasets/list", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.DatasetDescriptor{}
	}
	return out, nil
}

// Summary obtiene el resumen global y ordena la distribucion por frecuencia.
func (c *Client) Summary(ctx context.Context, session domain.Session) (domain.GlobalSummary, error) {
	var out domain.GlobalSummary
	if err := c.get(ctx, &session, "datasets.summary", "/datasets/summary", &out); err != nil {
		return domain.GlobalSummary{}, err
	}
	out.PhaseDistribution.SortByFrequency()
	return out, nil
}

func (c *Client) DatasetStats(ctx context.Context, session domain.Session, name string) (domain.DatasetStats, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DatasetStats{}, &domain.TransportError{
			Op:      "datasets.stats",
			Kind:    domain.KindInvalidInput,
			Message: "dataset name is required",
		}
	}
	var out domain.DatasetStats
	if err := c.get(ctx, &session, "datasets.stats", "/datasets/stats/"+url.PathEscape(name), &out); err != nil {
		return domain.DatasetStats{}, err
	}
	return out, nil
}
