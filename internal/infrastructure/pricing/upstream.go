package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pawnledger/internal/domain"
)

// DefaultTimeout bounds a single upstream fetch. Failures are not retried.
const DefaultTimeout = 5 * time.Second

var (
	gramsPerTroyOunce = decimal.RequireFromString("31.1034768")
	paisePerRupee     = decimal.NewFromInt(100)
)

// Upstream fetches a live quote.
type Upstream interface {
	Fetch(ctx context.Context) (*domain.PriceQuote, error)
}

// ratesResponse covers both feeds: metals quoted as USD per troy ounce keyed by XAU/XAG,
// and FX quoted as units per USD keyed by currency code.
type ratesResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// HTTPUpstream reads spot prices from a metals feed and converts them with an FX feed.
type HTTPUpstream struct {
	metalsURL  string
	fxURL      string
	httpClient *http.Client
	now        func() time.Time
}

// NewHTTPUpstream creates an upstream client. A non-positive timeout uses DefaultTimeout.
func NewHTTPUpstream(metalsURL, fxURL string, timeout time.Duration) *HTTPUpstream {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPUpstream{
		metalsURL:  metalsURL,
		fxURL:      fxURL,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Fetch returns a live per-gram quote in paise.
func (u *HTTPUpstream) Fetch(ctx context.Context) (*domain.PriceQuote, error) {
	metals, err := u.get(ctx, u.metalsURL)
	if err != nil {
		return nil, fmt.Errorf("metals feed: %w", err)
	}
	fx, err := u.get(ctx, u.fxURL)
	if err != nil {
		return nil, fmt.Errorf("fx feed: %w", err)
	}

	inr, ok := fx.Rates["INR"]
	if !ok || !inr.IsPositive() {
		return nil, fmt.Errorf("%w: fx feed has no INR rate", domain.ErrUpstreamUnavailable)
	}
	goldOz, ok := metals.Rates["XAU"]
	if !ok || !goldOz.IsPositive() {
		return nil, fmt.Errorf("%w: metals feed has no XAU price", domain.ErrUpstreamUnavailable)
	}
	silverOz, ok := metals.Rates["XAG"]
	if !ok || !silverOz.IsPositive() {
		return nil, fmt.Errorf("%w: metals feed has no XAG price", domain.ErrUpstreamUnavailable)
	}

	return &domain.PriceQuote{
		Gold:        domain.MetalRates{Rates: domain.ScaleByPurity(perGramPaise(goldOz, inr), domain.GoldPurities)},
		Silver:      domain.MetalRates{Rates: domain.ScaleByPurity(perGramPaise(silverOz, inr), domain.SilverPurities)},
		LastUpdated: u.now().UTC(),
		Source:      domain.QuoteSourceLive,
	}, nil
}

func (u *HTTPUpstream) get(ctx context.Context, url string) (*ratesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, truncate(body, 200))
	}

	var out ratesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return &out, nil
}

// perGramPaise converts a USD/troy-ounce price to paise per gram.
func perGramPaise(usdPerOunce, inrPerUSD decimal.Decimal) domain.Paise {
	perGram := usdPerOunce.Mul(inrPerUSD).Div(gramsPerTroyOunce)
	return domain.Paise(perGram.Mul(paisePerRupee).Round(0).IntPart())
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
