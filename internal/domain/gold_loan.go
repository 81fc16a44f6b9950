package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GoldLoanStatus is the lifecycle state of a gold loan. The stored value is a cache of
// what ReconcileStatus derives from the payments.
type GoldLoanStatus string

const (
	GoldLoanStatusActive    GoldLoanStatus = "active"
	GoldLoanStatusCompleted GoldLoanStatus = "completed"
	GoldLoanStatusOverdue   GoldLoanStatus = "overdue"
)

// IsValid reports whether s is a known status.
func (s GoldLoanStatus) IsValid() bool {
	switch s {
	case GoldLoanStatusActive, GoldLoanStatusCompleted, GoldLoanStatusOverdue:
		return true
	}
	return false
}

// InterestType selects how the rate is read.
type InterestType string

const (
	InterestMonthly InterestType = "monthly"
	InterestYearly  InterestType = "yearly"
)

// IsValid reports whether t is a known interest type.
func (t InterestType) IsValid() bool {
	return t == InterestMonthly || t == InterestYearly
}

// LoanPaymentType declares what a gold loan payment settles.
type LoanPaymentType string

const (
	LoanPaymentInterest  LoanPaymentType = "interest"
	LoanPaymentPrincipal LoanPaymentType = "principal"
	LoanPaymentBoth      LoanPaymentType = "both"
)

// IsValid reports whether t is a known payment type.
func (t LoanPaymentType) IsValid() bool {
	switch t {
	case LoanPaymentInterest, LoanPaymentPrincipal, LoanPaymentBoth:
		return true
	}
	return false
}

// PledgedItem is a piece of jewellery held as collateral.
type PledgedItem struct {
	Description string
	WeightGrams decimal.Decimal
	Purity      Purity
}

// GoldLoanPayment is one payment against a gold loan, already split into its parts.
type GoldLoanPayment struct {
	ID             string
	LoanID         string
	Type           LoanPaymentType
	AmountPaise    Paise
	PrincipalPaise Paise
	InterestPaise  Paise
	PaymentMethod  PaymentMethod
	PaymentDate    time.Time
	Note           string
	CreatedAt      time.Time
}

// GoldLoan is a loan secured by pledged gold.
type GoldLoan struct {
	ID             string
	CustomerID     string
	PrincipalPaise Paise
	InterestRate   decimal.Decimal
	InterestType   InterestType
	Items          []PledgedItem
	StartDate      time.Time
	DueDate        time.Time
	Status         GoldLoanStatus
	Payments       []GoldLoanPayment
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the loan invariants and fills defaults.
func (l *GoldLoan) Validate() error {
	if strings.TrimSpace(l.CustomerID) == "" {
		return ErrMissingCustomerID
	}
	if l.PrincipalPaise <= 0 {
		return ErrInvalidAmount
	}
	if l.InterestRate.IsNegative() {
		return ErrNegativeRate
	}
	if l.InterestType == "" {
		l.InterestType = InterestMonthly
	}
	if !l.InterestType.IsValid() {
		return ErrInvalidInterestType
	}
	if len(l.Items) == 0 {
		return ErrNoCollateral
	}
	for _, item := range l.Items {
		if !item.Purity.IsGold() {
			return ErrInvalidPurity
		}
		if !item.WeightGrams.IsPositive() {
			return ErrInvalidAmount
		}
	}
	if !l.DueDate.IsZero() && l.DueDate.Before(l.StartDate) {
		return ErrInvalidDueDate
	}
	if l.Status == "" {
		l.Status = GoldLoanStatusActive
	}
	return nil
}

// TotalWeight returns the combined weight of the pledged items.
func (l *GoldLoan) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.Items {
		total = total.Add(item.WeightGrams)
	}
	return total
}

// PrincipalPaid sums the principal parts of all payments.
func (l *GoldLoan) PrincipalPaid() Paise {
	var total Paise
	for _, p := range l.Payments {
		total += p.PrincipalPaise
	}
	return total
}

// InterestPaid sums the interest parts of all payments.
func (l *GoldLoan) InterestPaid() Paise {
	var total Paise
	for _, p := range l.Payments {
		total += p.InterestPaise
	}
	return total
}

// OutstandingPrincipal is the principal minus principal-tagged payments, floored at zero.
func (l *GoldLoan) OutstandingPrincipal() Paise {
	return ClampZero(l.PrincipalPaise - l.PrincipalPaid())
}

// Instrument returns the balance-calculator view of the loan. Gold loans are always receivable.
func (l *GoldLoan) Instrument() Instrument {
	return Instrument{
		ID:             l.ID,
		CustomerID:     l.CustomerID,
		PrincipalPaise: l.PrincipalPaise,
		Direction:      DirectionReceivable,
	}
}

// InterestTerms returns the inputs for ComputeAccruedInterest at the loan's current principal.
func (l *GoldLoan) InterestTerms() InterestTerms {
	return InterestTerms{
		StartDate:        l.StartDate,
		Rate:             l.InterestRate,
		Type:             l.InterestType,
		CurrentPrincipal: l.OutstandingPrincipal(),
	}
}
