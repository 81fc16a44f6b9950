package pricing

import (
	"time"

	"github.com/iho/pawnledger/internal/domain"
)

// Hardcoded per-gram prices used when neither the upstream nor any cache can answer.
const (
	FallbackGold24KPaise   domain.Paise = 720000 // ₹7,200/g
	FallbackSilver999Paise domain.Paise = 9000   // ₹90/g
)

// FallbackQuote builds the hardcoded quote stamped with at.
func FallbackQuote(at time.Time) *domain.PriceQuote {
	return &domain.PriceQuote{
		Gold:        domain.MetalRates{Rates: domain.ScaleByPurity(FallbackGold24KPaise, domain.GoldPurities)},
		Silver:      domain.MetalRates{Rates: domain.ScaleByPurity(FallbackSilver999Paise, domain.SilverPurities)},
		LastUpdated: at,
		Source:      domain.QuoteSourceFallback,
	}
}
