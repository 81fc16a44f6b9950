package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/iho/pawnledger/internal/usecase"
)

// Locker implements usecase.Locker with redislock.
type Locker struct {
	client *redislock.Client
	retry  redislock.RetryStrategy
	ttl    time.Duration
}

// NewLocker creates a Locker that retries a held key a few times before giving up.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{
		client: redislock.New(client),
		retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 5),
	}
}

// WithTTL makes every lock use ttl instead of the duration asked for by the caller.
func (l *Locker) WithTTL(ttl time.Duration) *Locker {
	l.ttl = ttl
	return l
}

// Obtain takes the lock for key, returning usecase.ErrLockHeld if another holder keeps it.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (usecase.Lock, error) {
	if l.ttl > 0 {
		ttl = l.ttl
	}
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, usecase.ErrLockHeld
	}
	if err != nil {
		return nil, err
	}
	return &heldLock{lock: lock}, nil
}

type heldLock struct {
	lock *redislock.Lock
}

// Release frees the lock. A lock that already expired is not an error.
func (h *heldLock) Release(ctx context.Context) error {
	err := h.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}
