package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

func TestLocker_ObtainAndRelease(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewLocker(client)
	ctx := context.Background()

	lock, err := locker.Obtain(ctx, "lock:payment:u1", time.Second)
	if err != nil {
		t.Fatalf("obtain failed: %v", err)
	}
	if !mr.Exists("lock:payment:u1") {
		t.Fatalf("expected lock key in redis")
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if mr.Exists("lock:payment:u1") {
		t.Fatalf("expected lock key to be removed")
	}

	again, err := locker.Obtain(ctx, "lock:payment:u1", time.Second)
	if err != nil {
		t.Fatalf("expected released lock to be obtainable, got %v", err)
	}
	_ = again.Release(ctx)
}

func TestLocker_HeldKey(t *testing.T) {
	client, _ := newTestRedisClient(t)

	locker := NewLocker(client)
	ctx := context.Background()

	lock, err := locker.Obtain(ctx, "lock:payment:u1", time.Minute)
	if err != nil {
		t.Fatalf("obtain failed: %v", err)
	}
	defer lock.Release(ctx)

	_, err = locker.Obtain(ctx, "lock:payment:u1", time.Minute)
	if !errors.Is(err, usecase.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected held lock to be a conflict, got %v", err)
	}
}

func TestLocker_ReleaseAfterExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewLocker(client)
	ctx := context.Background()

	lock, err := locker.Obtain(ctx, "lock:payment:u2", time.Second)
	if err != nil {
		t.Fatalf("obtain failed: %v", err)
	}
	mr.FastForward(2 * time.Second)

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("expected expired lock release to be a no-op, got %v", err)
	}
}

func TestLocker_BackendDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	mr.Close()

	_, err := NewLocker(client).Obtain(context.Background(), "lock:payment:u3", time.Second)
	if err == nil || errors.Is(err, usecase.ErrLockHeld) {
		t.Fatalf("expected a backend error, got %v", err)
	}
}

func TestLocker_WithTTLOverridesRequested(t *testing.T) {
	client, mr := newTestRedisClient(t)

	locker := NewLocker(client).WithTTL(30 * time.Second)

	lock, err := locker.Obtain(context.Background(), "lock:payment:u9", time.Second)
	if err != nil {
		t.Fatalf("obtain failed: %v", err)
	}
	defer func() { _ = lock.Release(context.Background()) }()

	if ttl := mr.TTL("lock:payment:u9"); ttl != 30*time.Second {
		t.Fatalf("expected configured ttl, got %s", ttl)
	}
}
