package service

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"neohealth/internal/domain"
)

// SessionStore guarda sesiones por id y las expira con su TTL.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (domain.Session, bool, error)
	Delete(ctx context.Context, id string) error
}

// sessionKey evita guardar el id en claro; el id es la credencial del cliente.
func sessionKey(id string) string {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(id)))
	return hex.EncodeToString(sum[:])
}

type memorySessionEntry struct {
	session domain.Session
	expires time.Time
}

type memorySessionStore struct {
	mu    sync.Mutex
	items map[string]memorySessionEntry
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		items: make(map[string]memorySessionEntry),
	}
}

func (s *memorySessionStore) Save(_ context.Context, session domain.Session, ttl time.Duration) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionKey(session.ID)] = memorySessionEntry{
		session: session,
		expires: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(id)
	entry, ok := s.items[key]
	if !ok {
		return domain.Session{}, false, nil
	}
	if time.Now().UTC().After(entry.expires) {
		delete(s.items, key)
		return domain.Session{}, false, nil
	}
	return entry.session, true, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionKey(id))
	return nil
}

type redisKV interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// storedSession incluye el token, que domain.Session no serializa.
type storedSession struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

type redisSessionStore struct {
	client redisKV
	prefix string
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	if client == nil {
		return nil
	}
	return &redisSessionStore{
		client: client,
		prefix: "auth:session:",
	}
}

func (s *redisSessionStore) Save(ctx context.Context, session domain.Session, ttl time.Duration) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	payload, err := gojson.Marshal(storedSession{
		ID:        session.ID,
		Token:     session.Token,
		User:      session.User,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+sessionKey(session.ID), payload, ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (domain.Session, bool, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Session{}, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := s.client.Get(ctx, s.prefix+sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	var stored storedSession
	if err := gojson.Unmarshal(raw, &stored); err != nil {
		return domain.Session{}, false, err
	}
	return domain.Session{
		ID:        stored.ID,
		Token:     stored.Token,
		User:      stored.User,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}, true, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+sessionKey(id)).Err()
}
