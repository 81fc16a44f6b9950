package pricing

import (
	"sync"
	"time"

	"github.com/iho/pawnledger/internal/domain"
)

const (
	// DefaultTTL is how long a live quote is served without refreshing.
	DefaultTTL = 5 * time.Minute
	// FailureBackoff is how long a degraded quote is served after a failed refresh
	// before the upstream is tried again.
	FailureBackoff = 30 * time.Second
)

// QuoteCache holds the most recent live quote and when it stops being fresh.
// The last value is kept after expiry so it can be served when the upstream is down.
type QuoteCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	value     *domain.PriceQuote
	expiresAt time.Time

	held      *domain.PriceQuote
	heldUntil time.Time
}

// NewQuoteCache creates a cache. A nil clock uses time.Now.
func NewQuoteCache(ttl time.Duration, now func() time.Time) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &QuoteCache{ttl: ttl, now: now}
}

// Fresh returns the cached quote if it has not expired, or the quote held by Hold
// while its back-off lasts.
func (c *QuoteCache) Fresh() (*domain.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	if c.value != nil && now.Before(c.expiresAt) {
		return c.value, true
	}
	if c.held != nil && now.Before(c.heldUntil) {
		return c.held, true
	}
	return nil, false
}

// LastKnown returns the last stored quote regardless of age.
func (c *QuoteCache) LastKnown() (*domain.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.value, c.value != nil
}

// Store records q as the current value and restarts the TTL.
func (c *QuoteCache) Store(q *domain.PriceQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = q
	c.expiresAt = c.now().Add(c.ttl)
	c.held = nil
}

// Hold serves q from Fresh for d without replacing the last known live quote.
func (c *QuoteCache) Hold(q *domain.PriceQuote, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.held = q
	c.heldUntil = c.now().Add(d)
}

// ExpiresAt reports when the current value stops being fresh.
func (c *QuoteCache) ExpiresAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.expiresAt
}
