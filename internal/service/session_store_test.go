package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"neohealth/internal/domain"
)

type mockRedisKVClient struct {
	data       map[string][]byte
	lastSetKey string
	lastSetTTL time.Duration
	lastDel    []string

	setErr error
	getErr error
}

func newMockRedisKV() *mockRedisKVClient {
	return &mockRedisKVClient{data: map[string][]byte{}}
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	m.data[key] = value.([]byte)
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(v))
	return cmd
}

func (m *mockRedisKVClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastDel = keys
	cmd := redis.NewIntCmd(ctx)
	for _, k := range keys {
		delete(m.data, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestMemorySessionStore_Basics(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing session false,nil; got %v,%v", ok, err)
	}
	if err := store.Save(ctx, testSession, 50*time.Millisecond); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, ok, err := store.Get(ctx, testSession.ID)
	if err != nil || !ok || got.Token != "tok" {
		t.Fatalf("expected stored session, got %+v ok=%v err=%v", got, ok, err)
	}

	time.Sleep(70 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, testSession.ID); ok {
		t.Fatalf("expected session expired")
	}
}

func TestMemorySessionStore_DeleteAndEmptyID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	if err := store.Save(ctx, domain.Session{}, time.Minute); err == nil {
		t.Fatalf("expected error for empty id")
	}
	_ = store.Save(ctx, testSession, time.Minute)
	if err := store.Delete(ctx, testSession.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, testSession.ID); ok {
		t.Fatalf("expected deleted session absent")
	}
}

func TestRedisSessionStore_RoundTripKeepsToken(t *testing.T) {
	mock := newMockRedisKV()
	store := &redisSessionStore{client: mock, prefix: "auth:session:"}
	ctx := context.Background()

	session := testSession
	session.ExpiresAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.Save(ctx, session, 0); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(mock.lastSetKey, "auth:session:") || strings.Contains(mock.lastSetKey, session.ID) {
		t.Fatalf("expected hashed key, got %q", mock.lastSetKey)
	}
	if mock.lastSetTTL <= 0 {
		t.Fatalf("expected positive TTL fallback, got %v", mock.lastSetTTL)
	}

	got, ok, err := store.Get(ctx, " "+session.ID+" ")
	if err != nil || !ok {
		t.Fatalf("expected session, got ok=%v err=%v", ok, err)
	}
	if got.Token != "tok" || got.User.ID != 42 || !got.ExpiresAt.Equal(session.ExpiresAt) {
		t.Fatalf("round trip lost data: %+v", got)
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(mock.lastDel) != 1 || mock.lastDel[0] != mock.lastSetKey {
		t.Fatalf("unexpected del keys %+v", mock.lastDel)
	}
	if _, ok, _ := store.Get(ctx, session.ID); ok {
		t.Fatalf("expected session removed")
	}
}

func TestRedisSessionStore_ErrorPaths(t *testing.T) {
	mock := newMockRedisKV()
	mock.setErr = errors.New("set failed")
	mock.getErr = errors.New("get failed")
	store := &redisSessionStore{client: mock, prefix: "auth:session:"}
	ctx := context.Background()

	if err := store.Save(ctx, testSession, time.Minute); err == nil {
		t.Fatalf("expected set error")
	}
	if _, _, err := store.Get(ctx, testSession.ID); err == nil {
		t.Fatalf("expected get error")
	}
	if _, ok, err := store.Get(ctx, ""); err != nil || ok {
		t.Fatalf("empty id should be false,nil; got %v,%v", ok, err)
	}
}
