package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Backends soportados para registros de salud.
const (
	RecordBackendUpstream = "upstream"
	RecordBackendPostgres = "postgres"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort                string   `env:"HTTP_PORT" envDefault:"8080"`
	UpstreamBaseURL         string   `env:"UPSTREAM_BASE_URL" envDefault:"http://localhost:5000/api"`
	UpstreamTimeoutSeconds  int      `env:"UPSTREAM_TIMEOUT_SECONDS" envDefault:"15"`
	UpstreamReadRetries     int      `env:"UPSTREAM_READ_RETRIES" envDefault:"2"`
	DashboardTimeoutSeconds int      `env:"DASHBOARD_TIMEOUT_SECONDS" envDefault:"20"`
	RecordBackend           string   `env:"RECORD_BACKEND" envDefault:"upstream"`
	DatabaseURL             string   `env:"DATABASE_URL"`
	RedisAddr               string   `env:"REDIS_ADDR"`
	RedisPassword           string   `env:"REDIS_PASSWORD"`
	RedisDB                 int      `env:"REDIS_DB" envDefault:"0"`
	SummaryCacheTTLSeconds  int      `env:"SUMMARY_CACHE_TTL_SECONDS" envDefault:"300"`
	SessionTTLMinutes       int      `env:"SESSION_TTL_MINUTES" envDefault:"1440"`
	CORSAllowedOrigins      []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
	OtelEnabled             bool     `env:"OTEL_ENABLED" envDefault:"false"`
	OtelServiceName         string   `env:"OTEL_SERVICE_NAME" envDefault:"neohealth-insights"`
	OtelEndpoint            string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelSampleRatio         float64  `env:"OTEL_SAMPLER_RATIO" envDefault:"0.1"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.RecordBackend = strings.ToLower(strings.TrimSpace(cfg.RecordBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	switch c.RecordBackend {
	case RecordBackendUpstream:
	case RecordBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when RECORD_BACKEND=%s", RecordBackendPostgres)
		}
	default:
		return fmt.Errorf("unknown RECORD_BACKEND %q", c.RecordBackend)
	}
	if strings.TrimSpace(c.UpstreamBaseURL) == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if c.OtelSampleRatio < 0 || c.OtelSampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLER_RATIO must be within [0,1]")
	}
	return nil
}

func (c *Config) UpstreamTimeout() time.Duration {
	return secondsOr(c.UpstreamTimeoutSeconds, 15)
}

func (c *Config) DashboardTimeout() time.Duration {
	return secondsOr(c.DashboardTimeoutSeconds, 20)
}

func (c *Config) SummaryCacheTTL() time.Duration {
	return secondsOr(c.SummaryCacheTTLSeconds, 300)
}

func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func secondsOr(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
