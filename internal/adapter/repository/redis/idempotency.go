package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/pawnledger/internal/usecase"
)

const idempotencyNamespace = "pawnledger:idempotency:"

// releasePending deletes a key only while it still holds the pending marker, so a
// completed response can never be dropped by a late release.
var releasePending = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// IdempotencyStore implements usecase.IdempotencyStore. Keys hold either the pending
// marker while a mutation is in flight or the encoded response once it completed.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// CheckAndSet claims key, storing response or the pending marker when response is nil.
// If another request already claimed it, the stored value is returned with exists=true.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (exists bool, stored []byte, err error) {
	if response == nil {
		response = []byte(usecase.IdempotencyPending)
	}

	claimed, err := s.client.SetNX(ctx, idempotencyNamespace+key, response, ttl).Result()
	if err != nil {
		return false, nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if claimed {
		return false, nil, nil
	}

	stored, err = s.client.Get(ctx, idempotencyNamespace+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		// expired between SETNX and GET; the caller proceeds unguarded
		return false, nil, nil
	case err != nil:
		return false, nil, fmt.Errorf("read idempotency key: %w", err)
	}
	return true, stored, nil
}

// Update replaces the pending marker with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, idempotencyNamespace+key, response, ttl).Err(); err != nil {
		return fmt.Errorf("store idempotent response: %w", err)
	}
	return nil
}

// Release frees a pending key after a failed request so the client can retry it.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	err := releasePending.Run(ctx, s.client, []string{idempotencyNamespace + key}, usecase.IdempotencyPending).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
