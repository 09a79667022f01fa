package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SubmissionGuard impide dos envios simultaneos para la misma clave.
// Acquire devuelve ok=false si ya hay uno en curso.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool)
}

type memorySubmissionGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewMemorySubmissionGuard() SubmissionGuard {
	return &memorySubmissionGuard{inFlight: make(map[string]struct{})}
}

func (g *memorySubmissionGuard) Acquire(_ context.Context, key string) (func(), bool) {
	key = strings.TrimSpace(key)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return nil, false
	}
	g.inFlight[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, true
}

// Borra la clave solo si sigue siendo nuestra.
const redisGuardReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisSubmissionGuard struct {
	client   redisLocker
	ttl      time.Duration
	prefix   string
	fallback SubmissionGuard
}

// NewRedisSubmissionGuard comparte el bloqueo entre replicas. ttl acota cuanto
// puede durar un bloqueo huerfano.
func NewRedisSubmissionGuard(client *redis.Client, ttl time.Duration) SubmissionGuard {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisSubmissionGuard{
		client:   client,
		ttl:      ttl,
		prefix:   "submission:lock:",
		fallback: NewMemorySubmissionGuard(),
	}
}

func (g *redisSubmissionGuard) Acquire(ctx context.Context, key string) (func(), bool) {
	key = strings.TrimSpace(key)
	if g == nil || g.client == nil || key == "" {
		return func() {}, true
	}
	redisKey := g.prefix + key
	token := uuid.NewString()

	lockCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	acquired, err := g.client.SetNX(lockCtx, redisKey, token, g.ttl).Result()
	if err != nil {
		// Sin Redis el bloqueo queda limitado a esta replica.
		if g.fallback == nil {
			return nil, false
		}
		return g.fallback.Acquire(ctx, key)
	}
	if !acquired {
		return nil, false
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			_ = g.client.Eval(releaseCtx, redisGuardReleaseScript, []string{redisKey}, token).Err()
		})
	}, true
}
