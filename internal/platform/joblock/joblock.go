// Package joblock provides a best-effort advisory lock keyed by job type.
//
// Reconciliation jobs are human-triggered and low frequency; the lock exists
// to avoid double-processing under concurrent admin clicks, not to provide
// isolation. Two jobs of different types may still interleave their reads and
// writes against the entity gateway.
package joblock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker acquires and releases a named advisory lock.
type Locker interface {
	// Acquire returns a release func, or ok=false if the lock is held.
	Acquire(ctx context.Context, name string) (release func(), ok bool, err error)
}

// MemoryLocker is the in-process fallback used when Redis is not configured.
// It protects against concurrent triggers within a single instance only.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemory() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]bool)}
}

func (l *MemoryLocker) Acquire(_ context.Context, name string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return nil, false, nil
	}
	l.held[name] = true
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, name)
	}
	return release, true, nil
}

const lockKeyPrefix = "joblock:"

// releaseScript deletes the lock only if this process still owns it, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is the shared advisory lock for multi-instance deployments.
// SET NX with a TTL so a crashed job cannot wedge its job type forever.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, name string) (func(), bool, error) {
	key := lockKeyPrefix + name
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !acquired {
		return nil, false, nil
	}

	release := func() {
		// Release on a fresh context: the job's context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}
