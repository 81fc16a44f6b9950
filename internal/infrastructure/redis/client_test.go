package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_AppliesPoolSize(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), ClientConfig{URL: "redis://" + s.Addr(), PoolSize: 7})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	assert.Equal(t, 7, client.Options().PoolSize)
	require.NoError(t, client.Set(context.Background(), "prices:last-known-good", "{}", time.Minute).Err())
	assert.True(t, s.Exists("prices:last-known-good"))
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{URL: "://bad-url"})
	assert.ErrorContains(t, err, "parse redis URL")
}

func TestNewClient_GivesUpWhenServerIsDown(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	_, err := NewClient(context.Background(), ClientConfig{URL: url, ConnectRetries: 1})
	assert.ErrorContains(t, err, "failed to ping redis")
}

func TestNewClient_WaitsForLateServer(t *testing.T) {
	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	restarted := make(chan error, 1)
	go func() {
		time.Sleep(150 * time.Millisecond)
		restarted <- s.Restart()
	}()

	client, err := NewClient(context.Background(), ClientConfig{URL: url, ConnectRetries: 6})
	require.NoError(t, <-restarted)
	require.NoError(t, err)
	client.Close()
}
