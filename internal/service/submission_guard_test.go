package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisLocker struct {
	held       map[string]string
	setNXErr   error
	lastTTL    time.Duration
	lastScript string
	evalCalls  int
}

func (m *mockRedisLocker) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.lastTTL = expiration
	cmd := redis.NewBoolCmd(ctx)
	if m.setNXErr != nil {
		cmd.SetErr(m.setNXErr)
		return cmd
	}
	if _, ok := m.held[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	m.held[key] = value.(string)
	cmd.SetVal(true)
	return cmd
}

func (m *mockRedisLocker) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.evalCalls++
	cmd := redis.NewCmd(ctx)
	if m.held[keys[0]] == args[0] {
		delete(m.held, keys[0])
		cmd.SetVal(int64(1))
		return cmd
	}
	cmd.SetVal(int64(0))
	return cmd
}

func TestMemorySubmissionGuard(t *testing.T) {
	g := NewMemorySubmissionGuard()
	ctx := context.Background()

	release, ok := g.Acquire(ctx, "user:1")
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}
	if _, ok := g.Acquire(ctx, "user:1"); ok {
		t.Fatalf("expected second acquire to fail while held")
	}
	if _, ok := g.Acquire(ctx, "user:2"); !ok {
		t.Fatalf("other users must not be blocked")
	}
	release()
	release()
	if _, ok := g.Acquire(ctx, "user:1"); !ok {
		t.Fatalf("expected acquire after release")
	}
}

func TestRedisSubmissionGuard(t *testing.T) {
	t.Run("exclusive per key", func(t *testing.T) {
		mock := &mockRedisLocker{held: map[string]string{}}
		g := &redisSubmissionGuard{client: mock, ttl: 10 * time.Second, prefix: "submission:lock:"}

		release, ok := g.Acquire(context.Background(), " user:1 ")
		if !ok {
			t.Fatalf("expected lock")
		}
		if _, held := mock.held["submission:lock:user:1"]; !held {
			t.Fatalf("unexpected keys %+v", mock.held)
		}
		if mock.lastTTL != 10*time.Second {
			t.Fatalf("expected ttl 10s, got %v", mock.lastTTL)
		}
		if _, ok := g.Acquire(context.Background(), "user:1"); ok {
			t.Fatalf("expected second acquire rejected")
		}
		release()
		if mock.lastScript != redisGuardReleaseScript || len(mock.held) != 0 {
			t.Fatalf("expected compare-and-delete release, held=%+v", mock.held)
		}
	})

	t.Run("release does not drop a foreign lock", func(t *testing.T) {
		mock := &mockRedisLocker{held: map[string]string{}}
		g := &redisSubmissionGuard{client: mock, ttl: time.Second, prefix: "submission:lock:"}
		release, _ := g.Acquire(context.Background(), "user:1")
		mock.held["submission:lock:user:1"] = "someone-else"
		release()
		if mock.held["submission:lock:user:1"] != "someone-else" {
			t.Fatalf("foreign lock was removed")
		}
	})

	t.Run("redis errors fall back to in-process lock", func(t *testing.T) {
		mock := &mockRedisLocker{held: map[string]string{}, setNXErr: errors.New("down")}
		g := &redisSubmissionGuard{client: mock, ttl: time.Second, prefix: "submission:lock:", fallback: NewMemorySubmissionGuard()}
		release, ok := g.Acquire(context.Background(), "user:1")
		if !ok || release == nil {
			t.Fatalf("expected first acquire through fallback")
		}
		if _, ok := g.Acquire(context.Background(), "user:1"); ok {
			t.Fatalf("expected second acquire rejected while redis is down")
		}
		release()
		if mock.evalCalls != 0 {
			t.Fatalf("no release script expected without a redis lock")
		}
		if _, ok := g.Acquire(context.Background(), "user:1"); !ok {
			t.Fatalf("expected acquire after fallback release")
		}
	})

	t.Run("redis errors without fallback reject", func(t *testing.T) {
		mock := &mockRedisLocker{held: map[string]string{}, setNXErr: errors.New("down")}
		g := &redisSubmissionGuard{client: mock, ttl: time.Second, prefix: "submission:lock:"}
		if _, ok := g.Acquire(context.Background(), "user:1"); ok {
			t.Fatalf("expected rejection without fallback")
		}
	})

	t.Run("nil receiver fail-open", func(t *testing.T) {
		var g *redisSubmissionGuard
		if _, ok := g.Acquire(context.Background(), "user:1"); !ok {
			t.Fatalf("expected fail-open for nil guard")
		}
	})
}
