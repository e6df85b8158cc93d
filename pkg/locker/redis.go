package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements DistributedLocker with Redsync (Redlock over a
// single Redis). Held mutexes are remembered per key so that only the owner
// can release.
type RedisLocker struct {
	rs        *redsync.Redsync
	logger    *zap.Logger
	keyPrefix string

	mu      sync.Mutex
	mutexes map[string]*redsync.Mutex
}

// Option configures a RedisLocker.
type Option func(*RedisLocker)

// WithKeyPrefix namespaces every lock key.
func WithKeyPrefix(prefix string) Option {
	return func(r *RedisLocker) {
		r.keyPrefix = prefix
	}
}

// NewRedisLocker creates a new Redis-based distributed locker.
func NewRedisLocker(client redis.UniversalClient, logger *zap.Logger, opts ...Option) *RedisLocker {
	r := &RedisLocker{
		rs:      redsync.New(goredis.NewPool(client)),
		logger:  logger,
		mutexes: make(map[string]*redsync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Acquire tries the lock once and returns false when another instance holds it.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	name := r.name(key)
	mutex := r.rs.NewMutex(
		name,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isTaken(err) {
			r.logger.Debug("lock already held by another instance", zap.String("key", name))
			return false, nil
		}

		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}

	r.mu.Lock()
	r.mutexes[name] = mutex
	r.mu.Unlock()

	r.logger.Debug("lock acquired",
		zap.String("key", name),
		zap.Duration("ttl", ttl),
	)

	return true, nil
}

// Release unlocks key if this instance holds it.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	name := r.name(key)

	r.mu.Lock()
	mutex, exists := r.mutexes[name]
	delete(r.mutexes, name)
	r.mu.Unlock()

	if !exists {
		return nil
	}

	ok, err := mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	if !ok {
		r.logger.Debug("lock already expired", zap.String("key", name))
	}

	return nil
}

func (r *RedisLocker) name(key string) string {
	if r.keyPrefix == "" {
		return key
	}

	return r.keyPrefix + ":" + key
}

// isTaken reports lock contention. Redsync reports it either as ErrFailed or
// as a wrapped "lock already taken" error naming the locked nodes.
func isTaken(err error) bool {
	return errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken")
}
