package domain

import (
	"sort"
	"strings"
	"time"
)

// ExpenseStatus tracks whether an expense has been settled.
type ExpenseStatus string

const (
	ExpenseStatusPaid    ExpenseStatus = "paid"
	ExpenseStatusPending ExpenseStatus = "pending"
)

// IsValid reports whether s is a known status.
func (s ExpenseStatus) IsValid() bool {
	return s == ExpenseStatusPaid || s == ExpenseStatusPending
}

// BusinessExpense is a shop running cost. It is independent of the customer ledger.
type BusinessExpense struct {
	ID            string
	Category      string
	Subcategory   string
	GrossPaise    Paise
	TaxPaise      Paise
	NetPaise      Paise
	Vendor        string
	PaymentStatus ExpenseStatus
	ExpenseDate   time.Time
	PaidAt        *time.Time
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks amounts, derives the net amount when it is missing and fills defaults.
func (e *BusinessExpense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrMissingCategory
	}
	if e.GrossPaise <= 0 {
		return ErrInvalidAmount
	}
	if e.TaxPaise < 0 || e.TaxPaise > e.GrossPaise {
		return ErrInvalidExpenseTotal
	}
	if e.NetPaise == 0 {
		e.NetPaise = e.GrossPaise - e.TaxPaise
	}
	if e.NetPaise < 0 {
		return ErrInvalidAmount
	}
	if e.PaymentStatus == "" {
		e.PaymentStatus = ExpenseStatusPending
	}
	if !e.PaymentStatus.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// CategoryTotal is the net spend of one category.
type CategoryTotal struct {
	Category string
	NetPaise Paise
	Count    int
}

// ExpenseSummary totals a set of expenses.
type ExpenseSummary struct {
	TotalGross Paise
	TotalTax   Paise
	TotalNet   Paise
	PaidNet    Paise
	PendingNet Paise
	Count      int
	ByCategory []CategoryTotal
}

// SummarizeExpenses totals expenses; categories are sorted by net spend, largest first.
func SummarizeExpenses(expenses []*BusinessExpense) ExpenseSummary {
	var s ExpenseSummary
	byCategory := make(map[string]*CategoryTotal)

	for _, e := range expenses {
		s.TotalGross += e.GrossPaise
		s.TotalTax += e.TaxPaise
		s.TotalNet += e.NetPaise
		s.Count++

		if e.PaymentStatus == ExpenseStatusPaid {
			s.PaidNet += e.NetPaise
		} else {
			s.PendingNet += e.NetPaise
		}

		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.NetPaise += e.NetPaise
		ct.Count++
	}

	s.ByCategory = make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		s.ByCategory = append(s.ByCategory, *ct)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].NetPaise != s.ByCategory[j].NetPaise {
			return s.ByCategory[i].NetPaise > s.ByCategory[j].NetPaise
		}
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})

	return s
}
