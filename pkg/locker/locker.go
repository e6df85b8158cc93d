// Package locker provides distributed locking for coordinating background
// jobs across service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker provides distributed lock capabilities across multiple instances.
// Implementations must be safe for concurrent use.
type DistributedLocker interface {
	// Acquire attempts to acquire the lock without waiting. Returns true if
	// the lock was acquired, false if another instance holds it. The lock
	// expires after ttl if not released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases a lock held by this instance. Releasing a lock that
	// is not held is a no-op.
	Release(ctx context.Context, key string) error
}

// Outcome describes what RunOnce did.
type Outcome int

const (
	Skipped   Outcome = iota // another instance held the lock
	Completed                // fn succeeded; the lock is kept until its ttl as a cooldown
	Failed                   // fn failed; the lock was released so another instance may retry
)

// RunOnce runs fn under the lock named key, holding it for ttl on success so
// that other instances skip the same period. On failure the lock is released
// at once. The returned error is fn's error or a locking error.
func RunOnce(ctx context.Context, l DistributedLocker, key string, ttl time.Duration, fn func(ctx context.Context) error) (Outcome, error) {
	acquired, err := l.Acquire(ctx, key, ttl)
	if err != nil {
		return Failed, err
	}
	if !acquired {
		return Skipped, nil
	}

	if err := fn(ctx); err != nil {
		if relErr := l.Release(context.WithoutCancel(ctx), key); relErr != nil {
			return Failed, relErr
		}

		return Failed, err
	}

	return Completed, nil
}
