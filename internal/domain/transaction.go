package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a business transaction.
type TransactionType string

const (
	TransactionLoanGiven        TransactionType = "loan_given"
	TransactionInterestReceived TransactionType = "interest_received"
	TransactionRepayment        TransactionType = "repayment"
	TransactionGoldSale         TransactionType = "gold_sale"
	TransactionSilverSale       TransactionType = "silver_sale"
)

// IsValid reports whether t is a known type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionLoanGiven, TransactionInterestReceived, TransactionRepayment,
		TransactionGoldSale, TransactionSilverSale:
		return true
	}
	return false
}

// Metal returns the metal traded by a sale, if any.
func (t TransactionType) Metal() (Metal, bool) {
	switch t {
	case TransactionGoldSale:
		return MetalGold, true
	case TransactionSilverSale:
		return MetalSilver, true
	}
	return "", false
}

// Transaction is a plain record of a business event. Nothing is derived from it.
type Transaction struct {
	ID               string
	CustomerID       string
	LoanID           *string
	Type             TransactionType
	AmountPaise      Paise
	Date             time.Time
	Description      string
	ReceiptNumber    string
	MetalWeightGrams decimal.NullDecimal
	Purity           Purity
	RatePerGramPaise Paise
	CreatedAt        time.Time
}

// Validate checks the transaction invariants.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.CustomerID) == "" {
		return ErrMissingCustomerID
	}
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if t.AmountPaise <= 0 {
		return ErrInvalidAmount
	}
	if metal, ok := t.Type.Metal(); ok && t.Purity != "" {
		if (metal == MetalGold) != t.Purity.IsGold() {
			return ErrInvalidPurity
		}
		if _, known := t.Purity.Fraction(); !known {
			return ErrInvalidPurity
		}
	}
	return nil
}

// NeedsRate reports whether a sale should get a suggested per-gram rate.
func (t *Transaction) NeedsRate() bool {
	_, isSale := t.Type.Metal()
	return isSale && t.RatePerGramPaise == 0
}

// DefaultPurity returns the purity assumed for a sale without one.
func (t *Transaction) DefaultPurity() Purity {
	if t.Purity != "" {
		return t.Purity
	}
	if t.Type == TransactionSilverSale {
		return PurityFineSilver
	}
	return Purity22K
}
