package domain

import (
	"strings"
	"time"
)

// Direction is the sign of an udhari entry's effect on the shop's receivable position.
type Direction int

const (
	// DirectionReceivable means money moved from the shop to the customer.
	DirectionReceivable Direction = 1
	// DirectionPayable means money moved from the customer to the shop.
	DirectionPayable Direction = -1
)

// IsValid reports whether d is +1 or -1.
func (d Direction) IsValid() bool {
	return d == DirectionReceivable || d == DirectionPayable
}

// DefaultUdhariKind is used when an entry is created without a category tag.
const DefaultUdhariKind = "udhari"

// UdhariEntry is one informal credit extended to or taken from a customer.
type UdhariEntry struct {
	ID             string
	CustomerID     string
	Kind           string
	PrincipalPaise Paise
	InterestPaise  Paise
	Direction      Direction
	TakenDate      time.Time
	ReturnDate     *time.Time
	Note           string
	CreatedAt      time.Time
}

// Validate checks the entry invariants.
func (e *UdhariEntry) Validate() error {
	if strings.TrimSpace(e.CustomerID) == "" {
		return ErrMissingCustomerID
	}
	if !e.Direction.IsValid() {
		return ErrInvalidDirection
	}
	if e.PrincipalPaise < 0 {
		return ErrNegativePrincipal
	}
	if e.InterestPaise < 0 {
		return ErrNegativeInterest
	}
	if strings.TrimSpace(e.Kind) == "" {
		e.Kind = DefaultUdhariKind
	}
	return nil
}

// SignedEffect returns Direction * PrincipalPaise.
func (e *UdhariEntry) SignedEffect() Paise {
	return Paise(e.Direction) * e.PrincipalPaise
}

// Instrument returns the balance-calculator view of the entry.
func (e *UdhariEntry) Instrument() Instrument {
	return Instrument{
		ID:             e.ID,
		CustomerID:     e.CustomerID,
		PrincipalPaise: e.PrincipalPaise,
		Direction:      e.Direction,
	}
}

// PaymentMethod is how a settlement was paid.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid reports whether m is a known method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// Payment settles part of an udhari entry. It is stored as a sibling row referencing the entry.
type Payment struct {
	ID             string
	CustomerID     string
	SourceRef      string
	PrincipalPaise Paise
	PaymentMethod  PaymentMethod
	PaymentDate    time.Time
	Reference      string
	Note           string
	CreatedAt      time.Time
}

// Validate checks the payment invariants.
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.CustomerID) == "" {
		return ErrMissingCustomerID
	}
	if strings.TrimSpace(p.SourceRef) == "" {
		return ErrPaymentSourceUnset
	}
	if p.PrincipalPaise <= 0 {
		return ErrInvalidPaymentAmount
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = PaymentMethodCash
	}
	if !p.PaymentMethod.IsValid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}
