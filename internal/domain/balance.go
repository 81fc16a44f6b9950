package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// Instrument is the part of a loan-like record the balance calculator needs.
type Instrument struct {
	ID             string
	CustomerID     string
	PrincipalPaise Paise
	Direction      Direction
}

// Outstanding is the derived balance of one instrument.
type Outstanding struct {
	PrincipalPaise    Paise
	PaidPaise         Paise
	OutstandingPaise  Paise
	ExcessPaise       Paise
	Overpaid          bool
	CompletionPercent decimal.Decimal
}

// ComputeOutstanding derives the unpaid principal of inst from its payments.
// The result never goes below zero: an excess is reported through Overpaid and ExcessPaise.
func ComputeOutstanding(inst Instrument, payments []Payment) (Outstanding, error) {
	if inst.PrincipalPaise < 0 {
		return Outstanding{}, ErrNegativePrincipal
	}

	var paid Paise
	for i := range payments {
		p := &payments[i]
		if p.PrincipalPaise <= 0 {
			return Outstanding{}, ErrInvalidPaymentAmount
		}
		if p.SourceRef != inst.ID {
			return Outstanding{}, ErrPaymentSourceMissing
		}
		paid += p.PrincipalPaise
	}

	out := Outstanding{
		PrincipalPaise:    inst.PrincipalPaise,
		PaidPaise:         paid,
		OutstandingPaise:  ClampZero(inst.PrincipalPaise - paid),
		CompletionPercent: completionPercent(inst.PrincipalPaise, paid),
	}
	if paid > inst.PrincipalPaise {
		out.Overpaid = true
		out.ExcessPaise = paid - inst.PrincipalPaise
	}

	return out, nil
}

func completionPercent(principal, paid Paise) decimal.Decimal {
	if principal == 0 {
		return hundred
	}
	pct := decimal.NewFromInt(int64(paid)).Mul(hundred).Div(decimal.NewFromInt(int64(principal)))
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.Round(2)
}

// InterestTerms are the inputs to interest accrual.
type InterestTerms struct {
	StartDate        time.Time
	Rate             decimal.Decimal // percent per period
	Type             InterestType
	CurrentPrincipal Paise
}

// ElapsedMonths counts calendar-month boundaries between start and asOf. The day of the month
// is ignored, so 15 Jan to 20 Mar is two months and 31 Jan to 1 Feb is one. Negative spans are zero.
func ElapsedMonths(start, asOf time.Time) int {
	months := (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// ComputeAccruedInterest returns simple interest on the current principal for the whole
// months elapsed since the start date. Partial months are not prorated and earlier principal
// levels are not considered: a payment of principal lowers the interest for all past months too.
// A zero asOf means now.
func ComputeAccruedInterest(terms InterestTerms, asOf time.Time) (Paise, error) {
	if terms.Rate.IsNegative() {
		return 0, ErrNegativeRate
	}
	if terms.CurrentPrincipal < 0 {
		return 0, ErrNegativePrincipal
	}

	interestType := terms.Type
	if interestType == "" {
		interestType = InterestMonthly
	}
	if !interestType.IsValid() {
		return 0, ErrInvalidInterestType
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}

	months := decimal.NewFromInt(int64(ElapsedMonths(terms.StartDate, asOf)))
	perMonth := terms.Rate.Div(hundred)
	if interestType == InterestYearly {
		perMonth = perMonth.Div(monthsPerYear)
	}

	accrued := decimal.NewFromInt(int64(terms.CurrentPrincipal)).Mul(perMonth).Mul(months)

	return roundPaise(accrued), nil
}

// PendingInterest is accrued interest not yet covered by interest payments, floored at zero.
func PendingInterest(loan *GoldLoan, asOf time.Time) (Paise, error) {
	accrued, err := ComputeAccruedInterest(loan.InterestTerms(), asOf)
	if err != nil {
		return 0, err
	}
	return ClampZero(accrued - loan.InterestPaid()), nil
}

// PrincipalSettlements returns the principal-bearing payments of the loan as settlements of it.
func (l *GoldLoan) PrincipalSettlements() []Payment {
	settlements := make([]Payment, 0, len(l.Payments))
	for _, p := range l.Payments {
		if p.PrincipalPaise <= 0 {
			continue
		}
		settlements = append(settlements, Payment{
			ID:             p.ID,
			CustomerID:     l.CustomerID,
			SourceRef:      l.ID,
			PrincipalPaise: p.PrincipalPaise,
			PaymentMethod:  p.PaymentMethod,
			PaymentDate:    p.PaymentDate,
		})
	}
	return settlements
}

// PaymentSplit is a payment request against a gold loan.
type PaymentSplit struct {
	ID             string
	Type           LoanPaymentType
	AmountPaise    Paise
	PrincipalPaise Paise // explicit split for LoanPaymentBoth
	InterestPaise  Paise // explicit split for LoanPaymentBoth
	PaymentMethod  PaymentMethod
	PaymentDate    time.Time
	Note           string
}

// ApplyPayment splits a payment into interest and principal parts, appends it to the loan
// and recomputes the loan status.
//
// An interest payment larger than the pending interest is recorded as interest in full; the
// excess is not moved to principal. A "both" payment uses the caller's split when it adds up
// to the amount, otherwise it settles pending interest first and the rest goes to principal.
func ApplyPayment(loan *GoldLoan, in PaymentSplit, asOf time.Time) (*GoldLoanPayment, error) {
	if in.AmountPaise <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	if !in.Type.IsValid() {
		return nil, ErrInvalidPaymentType
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentMethodCash
	}
	if !in.PaymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	if loan.OutstandingPrincipal() == 0 {
		return nil, ErrLoanClosed
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	payment := GoldLoanPayment{
		ID:            in.ID,
		LoanID:        loan.ID,
		Type:          in.Type,
		AmountPaise:   in.AmountPaise,
		PaymentMethod: in.PaymentMethod,
		PaymentDate:   in.PaymentDate,
		Note:          in.Note,
		CreatedAt:     asOf,
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = asOf
	}

	switch in.Type {
	case LoanPaymentInterest:
		payment.InterestPaise = in.AmountPaise
	case LoanPaymentPrincipal:
		payment.PrincipalPaise = in.AmountPaise
	case LoanPaymentBoth:
		if in.PrincipalPaise >= 0 && in.InterestPaise >= 0 &&
			in.PrincipalPaise+in.InterestPaise == in.AmountPaise {
			payment.PrincipalPaise = in.PrincipalPaise
			payment.InterestPaise = in.InterestPaise
			break
		}

		pending, err := PendingInterest(loan, asOf)
		if err != nil {
			return nil, err
		}
		payment.InterestPaise = min(pending, in.AmountPaise)
		payment.PrincipalPaise = in.AmountPaise - payment.InterestPaise
	}

	loan.Payments = append(loan.Payments, payment)
	loan.Status = ReconcileStatus(loan, asOf)
	loan.UpdatedAt = asOf

	return &payment, nil
}

// ReconcileStatus derives the loan status from its payments and due date.
func ReconcileStatus(loan *GoldLoan, asOf time.Time) GoldLoanStatus {
	if loan.OutstandingPrincipal() == 0 {
		return GoldLoanStatusCompleted
	}
	if !loan.DueDate.IsZero() && asOf.After(loan.DueDate) {
		return GoldLoanStatusOverdue
	}
	return GoldLoanStatusActive
}
