package service

import (
	"context"
	"errors"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"neohealth/internal/domain"
)

// DatasetBackend es el colaborador de datasets completo, incluida la consulta de estadisticas.
type DatasetBackend interface {
	DatasetSource
	SummarySource
	DatasetStats(ctx context.Context, session domain.Session, name string) (domain.DatasetStats, error)
}

type cacheKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedDatasetBackend guarda en Redis el resumen global, que el backend sirve sin sesion.
// El listado y las estadisticas pasan siempre al backend para que valide el token.
// Cualquier falla de Redis se trata como miss.
type CachedDatasetBackend struct {
	source DatasetBackend
	kv     cacheKV
	ttl    time.Duration
	logger *zap.Logger
	prefix string
}

func NewCachedDatasetBackend(logger *zap.Logger, source DatasetBackend, client *redis.Client, ttl time.Duration) DatasetBackend {
	if client == nil || ttl <= 0 {
		return source
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDatasetBackend{
		source: source,
		kv:     client,
		ttl:    ttl,
		logger: logger,
		prefix: "insights:",
	}
}

func (c *CachedDatasetBackend) ListDatasets(ctx context.Context, session domain.Session) ([]domain.DatasetDescriptor, error) {
	return c.source.ListDatasets(ctx, session)
}

func (c *CachedDatasetBackend) Summary(ctx context.Context, session domain.Session) (domain.GlobalSummary, error) {
	var cached domain.GlobalSummary
	if c.load(ctx, "summary", &cached) {
		return cached, nil
	}
	summary, err := c.source.Summary(ctx, session)
	if err != nil {
		return domain.GlobalSummary{}, err
	}
	c.store(ctx, "summary", summary)
	return summary, nil
}

func (c *CachedDatasetBackend) DatasetStats(ctx context.Context, session domain.Session, name string) (domain.DatasetStats, error) {
	return c.source.DatasetStats(ctx, session, name)
}

func (c *CachedDatasetBackend) load(ctx context.Context, key string, dst any) bool {
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	raw, err := c.kv.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := gojson.Unmarshal(raw, dst); err != nil {
		c.logger.Debug("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedDatasetBackend) store(ctx context.Context, key string, value any) {
	payload, err := gojson.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	if err := c.kv.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
