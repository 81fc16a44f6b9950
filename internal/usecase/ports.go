package usecase

import (
	"context"
	"time"

	"github.com/iho/pawnledger/internal/domain"
)

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so it can be retried.
	Release(ctx context.Context, key string) error
}

// Retrier re-runs an operation that failed on a transient storage conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Lock is a held distributed lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker obtains short-lived locks keyed by resource.
// Obtain returns ErrLockHeld when another holder keeps the key past the wait budget.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// PriceProvider returns current precious-metal prices. Implementations degrade to cached
// or fallback quotes instead of failing.
type PriceProvider interface {
	GetCurrentPrices(ctx context.Context) (*domain.PriceQuote, error)
}
