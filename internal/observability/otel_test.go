package observability

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestInitOTel_DisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), zap.NewNop(), OtelConfig{Enabled: false})
	if shutdown == nil {
		t.Fatalf("expected shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown failed: %v", err)
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0: 0, 0.25: 0.25, 1: 1, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v) = %v, want %v", in, got, want)
		}
	}
}
