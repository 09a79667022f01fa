package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RECORD_BACKEND", "upstream")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port, got %s", cfg.HTTPPort)
	}
	if cfg.UpstreamTimeout() != 15*time.Second {
		t.Fatalf("unexpected upstream timeout %v", cfg.UpstreamTimeout())
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("RECORD_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/neohealth")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RecordBackend != RecordBackendPostgres {
		t.Fatalf("expected normalized backend, got %s", cfg.RecordBackend)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{RecordBackend: "mongo", UpstreamBaseURL: "http://x"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Config{}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.SessionTTL())
	}
	if cfg.SummaryCacheTTL() != 5*time.Minute {
		t.Fatalf("unexpected cache ttl %v", cfg.SummaryCacheTTL())
	}
}
