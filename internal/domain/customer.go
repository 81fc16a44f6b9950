package domain

import (
	"time"
)

// CustomerStatus marks whether a customer is still transacting with the shop.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// IsValid reports whether s is a known status.
func (s CustomerStatus) IsValid() bool {
	return s == CustomerStatusActive || s == CustomerStatusInactive
}

// Address is a postal address.
type Address struct {
	Line1   string
	City    string
	State   string
	Pincode string
}

// Customer is a person the shop lends to, borrows from or trades with.
type Customer struct {
	ID      string
	Name    string
	Phone   string
	Email   string
	Address Address
	Status  CustomerStatus

	// Counters derived from udhari entries. Kept current by RefreshCounters on udhari writes and customer reads.
	TotalAmountTakenFromJewellers Paise
	TotalAmountTakenByUs          Paise

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks required fields and normalizes the phone number to E.164.
func (c *Customer) Validate() error {
	if err := ValidateCustomerName(c.Name); err != nil {
		return err
	}

	if c.Status == "" {
		c.Status = CustomerStatusActive
	}
	if !c.Status.IsValid() {
		return ErrInvalidStatus
	}

	if c.Phone != "" {
		phone, err := NormalizePhone(c.Phone)
		if err != nil {
			return err
		}
		c.Phone = phone
	}

	if c.Email != "" {
		if err := ValidateEmail(c.Email); err != nil {
			return err
		}
	}

	return nil
}

// RefreshCounters recomputes the aggregate counters from the customer's udhari entries.
// Money the shop handed out counts as taken by the customer from the jeweller; money the
// customer handed over counts as taken by us.
func (c *Customer) RefreshCounters(entries []*UdhariEntry) bool {
	var fromJewellers, byUs Paise
	for _, e := range entries {
		switch e.Direction {
		case DirectionReceivable:
			fromJewellers += e.PrincipalPaise
		case DirectionPayable:
			byUs += e.PrincipalPaise
		}
	}

	changed := c.TotalAmountTakenFromJewellers != fromJewellers || c.TotalAmountTakenByUs != byUs
	c.TotalAmountTakenFromJewellers = fromJewellers
	c.TotalAmountTakenByUs = byUs

	return changed
}
