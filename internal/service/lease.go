package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/abdulrafay1716/shopflow-automation/internal/pkg/clock"
)

// Lease guarantees at most one batch runs at a time. A holder that dies keeps
// the lease only until ttl expires.
type Lease interface {
	// Acquire reports ok=false when another holder has the lease. release is
	// only non-nil when ok is true. A failed release leaves the lease held
	// until ttl expires.
	Acquire(ctx context.Context, ttl time.Duration) (release func() error, ok bool, err error)
}

type memoryLease struct {
	mu      sync.Mutex
	clock   clock.Clock
	token   string
	expires time.Time
}

// NewMemoryLease is the single-process lease used when no Redis is configured.
func NewMemoryLease(clk clock.Clock) Lease {
	return &memoryLease{clock: clk}
}

func (l *memoryLease) Acquire(_ context.Context, ttl time.Duration) (func() error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if l.token != "" && now.Before(l.expires) {
		return nil, false, nil
	}

	token := uuid.NewString()
	l.token = token
	l.expires = now.Add(ttl)

	return func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.token == token {
			l.token = ""
		}
		return nil
	}, true, nil
}

// releaseScript deletes the key only while it still holds our token, so a
// holder whose lease expired cannot free someone else's.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLease struct {
	rdb *redis.Client
	key string
}

// NewRedisLease shares the lease between every instance pointed at rdb.
func NewRedisLease(rdb *redis.Client, key string) Lease {
	return &redisLease{
		rdb: rdb,
		key: key,
	}
}

func (l *redisLease) Acquire(ctx context.Context, ttl time.Duration) (func() error, bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: acquire lease: %v", ErrUpstreamUnavailable, err)
	}
	if !ok {
		return nil, false, nil
	}

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("release lease %s: %w", l.key, err)
		}
		return nil
	}, true, nil
}
