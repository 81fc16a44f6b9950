package pricing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/infrastructure/metrics"
	"github.com/iho/pawnledger/internal/usecase"
)

const (
	lastKnownGoodKey = "prices:last-known-good"
	lastKnownGoodTTL = 7 * 24 * time.Hour
)

// Provider implements usecase.PriceProvider.
//
// A fresh cached quote is returned as is. Otherwise one caller refreshes from the upstream
// while concurrent callers wait for the same result. When the upstream fails the last
// known good quote is served tagged "cached", first from memory and then from the shared
// store, and the hardcoded fallback is used when neither has one. Whatever was served
// after a failure is held for FailureBackoff before the upstream is tried again.
type Provider struct {
	upstream Upstream
	cache    *QuoteCache
	store    usecase.Cache
	metrics  *metrics.Metrics
	now      func() time.Time
	group    singleflight.Group
}

// NewProvider creates a Provider. store and m may be nil.
func NewProvider(upstream Upstream, cache *QuoteCache, store usecase.Cache, m *metrics.Metrics) *Provider {
	if cache == nil {
		cache = NewQuoteCache(DefaultTTL, nil)
	}
	return &Provider{
		upstream: upstream,
		cache:    cache,
		store:    store,
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp fallback quotes.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// GetCurrentPrices never fails; the error return satisfies usecase.PriceProvider.
func (p *Provider) GetCurrentPrices(ctx context.Context) (*domain.PriceQuote, error) {
	if q, ok := p.cache.Fresh(); ok {
		p.observe(q.Source)
		return q, nil
	}

	v, _, _ := p.group.Do("refresh", func() (any, error) {
		// a cancelled caller must not fail the others sharing this refresh
		return p.refresh(context.WithoutCancel(ctx)), nil
	})

	q := v.(*domain.PriceQuote)
	p.observe(q.Source)
	return q, nil
}

func (p *Provider) refresh(ctx context.Context) *domain.PriceQuote {
	start := time.Now()
	q, err := p.fetch(ctx)
	if p.metrics != nil {
		p.metrics.PriceUpstreamDur.Observe(time.Since(start).Seconds())
	}

	if err == nil {
		p.cache.Store(q)
		p.persist(ctx, q)
		return q
	}

	log.Warn().Err(err).Dur("backoff", FailureBackoff).Msg("price upstream unavailable, serving last known quote")

	served := p.degraded(ctx)
	p.cache.Hold(served, FailureBackoff)
	return served
}

func (p *Provider) degraded(ctx context.Context) *domain.PriceQuote {
	if last, ok := p.cache.LastKnown(); ok {
		return last.WithSource(domain.QuoteSourceCached)
	}
	if last, ok := p.loadPersisted(ctx); ok {
		return last.WithSource(domain.QuoteSourceCached)
	}
	return FallbackQuote(p.now().UTC())
}

func (p *Provider) fetch(ctx context.Context) (*domain.PriceQuote, error) {
	if p.upstream == nil {
		return nil, domain.ErrUpstreamUnavailable
	}
	return p.upstream.Fetch(ctx)
}

func (p *Provider) persist(ctx context.Context, q *domain.PriceQuote) {
	if p.store == nil {
		return
	}
	data, err := json.Marshal(q)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode price quote")
		return
	}
	if err := p.store.Set(ctx, lastKnownGoodKey, data, lastKnownGoodTTL); err != nil {
		log.Warn().Err(err).Msg("failed to persist price quote")
	}
}

func (p *Provider) loadPersisted(ctx context.Context) (*domain.PriceQuote, bool) {
	if p.store == nil {
		return nil, false
	}
	data, err := p.store.Get(ctx, lastKnownGoodKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read persisted price quote")
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var q domain.PriceQuote
	if err := json.Unmarshal(data, &q); err != nil {
		log.Warn().Err(err).Msg("failed to decode persisted price quote")
		return nil, false
	}
	return &q, true
}

func (p *Provider) observe(source domain.QuoteSource) {
	if p.metrics != nil {
		p.metrics.PriceQuotes.WithLabelValues(string(source)).Inc()
	}
}
