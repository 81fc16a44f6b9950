package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ClientConfig describes the Redis instance backing the price cache, idempotency keys
// and payment locks.
type ClientConfig struct {
	URL string
	// PoolSize overrides the pool size from the URL when positive.
	PoolSize int
	// ConnectRetries is the number of extra pings while Redis is starting up.
	ConnectRetries uint64
}

// NewClient opens a client and waits for the server to answer a PING.
func NewClient(ctx context.Context, cfg ClientConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	attempt := 0
	ping := func() error {
		attempt++
		err := client.Ping(ctx).Err()
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("addr", opts.Addr).Msg("redis not reachable yet")
		}
		return err
	}

	if err := backoff.Retry(ping, backoff.WithContext(backoff.WithMaxRetries(b, cfg.ConnectRetries), ctx)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	return client, nil
}
