package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

// BusyMessage is shown when a submit arrives while the previous one for the
// same session and workflow is still running.
const BusyMessage = "A previous submission is still being processed."

// Guard admits at most one in-flight submit per key.  Acquire returns a
// release func when admitted.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool)
}

// MemoryGuard is a process-local Guard.
type MemoryGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard { return &MemoryGuard{busy: map[string]struct{}{}} }

func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.busy[key]; ok {
		return nil, false
	}
	g.busy[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.busy, key)
		g.mu.Unlock()
	}, true
}

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// RedisGuard shares the in-flight state between portal instances.  The TTL
// only reclaims locks left behind by a crashed instance.  Redis errors
// admit the submit.
type RedisGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{rdb: rdb, ttl: ttl, prefix: "inflight"}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), bool) {
	k := g.prefix + ":" + key
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, k, token, g.ttl).Result()
	if err != nil {
		log.Warnf("inflight guard unavailable for %s: %v", k, err)
		return func() {}, true
	}
	if !ok {
		return nil, false
	}
	return func() {
		// the request context may already be done; release on a fresh one
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, g.rdb, []string{k}, token).Err(); err != nil && err != redis.Nil {
			log.Warnf("inflight guard release %s: %v", k, err)
		}
	}, true
}
