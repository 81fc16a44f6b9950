package domain

import (
	"github.com/shopspring/decimal"
)

// Paise is an amount of Indian rupees in minor units (1/100 rupee).
type Paise int64

var paisePerRupee = decimal.NewFromInt(100)

// Rupees converts the amount to major units for presentation.
func (p Paise) Rupees() decimal.Decimal {
	return decimal.NewFromInt(int64(p)).Div(paisePerRupee).Round(2)
}

// String formats the amount as a rupee value with two decimals.
func (p Paise) String() string {
	return p.Rupees().StringFixed(2)
}

// PaiseFromRupees converts a rupee amount, rounding half away from zero to whole paise.
func PaiseFromRupees(r decimal.Decimal) Paise {
	return Paise(r.Mul(paisePerRupee).Round(0).IntPart())
}

// roundPaise rounds a fractional paise amount to whole paise.
func roundPaise(d decimal.Decimal) Paise {
	return Paise(d.Round(0).IntPart())
}

// SumPaise adds up amounts.
func SumPaise(amounts ...Paise) Paise {
	var total Paise
	for _, a := range amounts {
		total += a
	}
	return total
}

// ClampZero returns p, or 0 when p is negative.
func ClampZero(p Paise) Paise {
	if p < 0 {
		return 0
	}
	return p
}
