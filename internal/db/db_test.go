package db

import (
	"context"
	"strings"
	"testing"

	"neohealth/internal/config"
)

func TestOpen_RejectsMalformedURL(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DatabaseURL: "postgres://user:pw@localhost:notaport/health"})
	if err == nil {
		t.Fatalf("expected error for malformed DATABASE_URL")
	}
	if !strings.Contains(err.Error(), "parse DATABASE_URL") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRequiredTables(t *testing.T) {
	want := map[string]bool{"health_records": true, "predictions": true}
	if len(RequiredTables) != len(want) {
		t.Fatalf("unexpected tables %v", RequiredTables)
	}
	for _, table := range RequiredTables {
		if !want[table] {
			t.Fatalf("unexpected table %q", table)
		}
	}
}
