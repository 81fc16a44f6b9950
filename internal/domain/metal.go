package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metal is a traded precious metal.
type Metal string

const (
	MetalGold   Metal = "gold"
	MetalSilver Metal = "silver"
)

// Purity is a fineness denomination. Gold uses karats, silver uses millesimal fineness.
type Purity string

const (
	Purity24K Purity = "24K"
	Purity22K Purity = "22K"
	Purity18K Purity = "18K"
	Purity14K Purity = "14K"

	PurityFineSilver     Purity = "999"
	PuritySterlingSilver Purity = "925"
)

var purityFractions = map[Purity]decimal.Decimal{
	Purity24K:            decimal.NewFromInt(1),
	Purity22K:            decimal.NewFromInt(22).Div(decimal.NewFromInt(24)),
	Purity18K:            decimal.NewFromInt(18).Div(decimal.NewFromInt(24)),
	Purity14K:            decimal.NewFromInt(14).Div(decimal.NewFromInt(24)),
	PurityFineSilver:     decimal.NewFromInt(1),
	PuritySterlingSilver: decimal.RequireFromString("0.925"),
}

// GoldPurities lists gold denominations in quote order.
var GoldPurities = []Purity{Purity24K, Purity22K, Purity18K, Purity14K}

// SilverPurities lists silver denominations in quote order.
var SilverPurities = []Purity{PurityFineSilver, PuritySterlingSilver}

// Fraction returns the pure-metal share of the denomination relative to the finest grade.
func (p Purity) Fraction() (decimal.Decimal, bool) {
	f, ok := purityFractions[p]
	return f, ok
}

// IsGold reports whether p is a karat denomination.
func (p Purity) IsGold() bool {
	switch p {
	case Purity24K, Purity22K, Purity18K, Purity14K:
		return true
	}
	return false
}

// QuoteSource tells where a price quote came from.
type QuoteSource string

const (
	QuoteSourceLive     QuoteSource = "live"
	QuoteSourceCached   QuoteSource = "cached"
	QuoteSourceFallback QuoteSource = "fallback"
)

// MetalRates holds a per-gram price for each purity.
type MetalRates struct {
	Rates map[Purity]Paise `json:"rates"`
}

// PriceQuote is a snapshot of per-gram metal prices.
type PriceQuote struct {
	Gold        MetalRates  `json:"gold"`
	Silver      MetalRates  `json:"silver"`
	LastUpdated time.Time   `json:"lastUpdated"`
	Source      QuoteSource `json:"source"`
}

// RateFor returns the per-gram price for a purity, looking in the matching metal table.
func (q *PriceQuote) RateFor(p Purity) (Paise, bool) {
	table := q.Silver.Rates
	if p.IsGold() {
		table = q.Gold.Rates
	}
	rate, ok := table[p]
	return rate, ok
}

// WithSource returns a copy of the quote tagged with src.
func (q PriceQuote) WithSource(src QuoteSource) *PriceQuote {
	q.Source = src
	return &q
}

// ScaleByPurity derives a per-purity table from the finest-grade per-gram price.
func ScaleByPurity(fine Paise, purities []Purity) map[Purity]Paise {
	rates := make(map[Purity]Paise, len(purities))
	base := decimal.NewFromInt(int64(fine))
	for _, p := range purities {
		f, ok := p.Fraction()
		if !ok {
			continue
		}
		rates[p] = roundPaise(base.Mul(f))
	}
	return rates
}
