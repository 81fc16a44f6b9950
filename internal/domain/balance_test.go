package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func payments(source string, amounts ...Paise) []Payment {
	out := make([]Payment, len(amounts))
	for i, a := range amounts {
		out[i] = Payment{SourceRef: source, PrincipalPaise: a}
	}
	return out
}

func TestComputeOutstanding(t *testing.T) {
	tests := []struct {
		name            string
		principal       Paise
		payments        []Paise
		wantOutstanding Paise
		wantOverpaid    bool
		wantExcess      Paise
		wantPercent     string
	}{
		{
			name:            "no payments",
			principal:       500000,
			wantOutstanding: 500000,
			wantPercent:     "0",
		},
		{
			name:            "partial payment",
			principal:       500000,
			payments:        []Paise{200000},
			wantOutstanding: 300000,
			wantPercent:     "40",
		},
		{
			name:            "exact settlement",
			principal:       5000,
			payments:        []Paise{2000, 3000},
			wantOutstanding: 0,
			wantPercent:     "100",
		},
		{
			name:            "overpaid is clamped",
			principal:       5000,
			payments:        []Paise{3000, 3000},
			wantOutstanding: 0,
			wantOverpaid:    true,
			wantExcess:      1000,
			wantPercent:     "100",
		},
		{
			name:            "zero principal",
			principal:       0,
			wantOutstanding: 0,
			wantPercent:     "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Instrument{ID: "u1", PrincipalPaise: tt.principal, Direction: DirectionReceivable}

			out, err := ComputeOutstanding(inst, payments("u1", tt.payments...))
			require.NoError(t, err)

			assert.Equal(t, tt.wantOutstanding, out.OutstandingPaise)
			assert.Equal(t, tt.wantOverpaid, out.Overpaid)
			assert.Equal(t, tt.wantExcess, out.ExcessPaise)
			assert.True(t, out.CompletionPercent.Equal(decimal.RequireFromString(tt.wantPercent)),
				"completion %s, want %s", out.CompletionPercent, tt.wantPercent)
			assert.GreaterOrEqual(t, out.OutstandingPaise, Paise(0))
			assert.LessOrEqual(t, out.OutstandingPaise, tt.principal)
		})
	}
}

func TestComputeOutstanding_Errors(t *testing.T) {
	inst := Instrument{ID: "u1", PrincipalPaise: 1000, Direction: DirectionReceivable}

	_, err := ComputeOutstanding(inst, payments("u1", 500, 0))
	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ComputeOutstanding(inst, payments("u1", -10))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ComputeOutstanding(inst, payments("other", 100))
	assert.ErrorIs(t, err, ErrPaymentSourceMissing)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ComputeOutstanding(Instrument{ID: "u1", PrincipalPaise: -1}, nil)
	assert.ErrorIs(t, err, ErrNegativePrincipal)
}

func TestComputeOutstanding_Idempotent(t *testing.T) {
	inst := Instrument{ID: "u1", PrincipalPaise: 90000, Direction: DirectionPayable}
	snapshot := payments("u1", 10000, 25000)

	first, err := ComputeOutstanding(inst, snapshot)
	require.NoError(t, err)
	second, err := ComputeOutstanding(inst, snapshot)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestElapsedMonths(t *testing.T) {
	assert.Equal(t, 2, ElapsedMonths(date(2024, 1, 15), date(2024, 3, 20)))
	assert.Equal(t, 2, ElapsedMonths(date(2024, 1, 15), date(2024, 3, 1)))
	assert.Equal(t, 1, ElapsedMonths(date(2024, 1, 31), date(2024, 2, 1)))
	assert.Equal(t, 13, ElapsedMonths(date(2023, 12, 1), date(2025, 1, 1)))
	assert.Equal(t, 0, ElapsedMonths(date(2024, 5, 1), date(2024, 5, 31)))
	assert.Equal(t, 0, ElapsedMonths(date(2024, 5, 1), date(2024, 1, 1)))
}

func TestComputeAccruedInterest(t *testing.T) {
	tests := []struct {
		name  string
		terms InterestTerms
		asOf  time.Time
		want  Paise
	}{
		{
			name: "monthly rate over two calendar months",
			terms: InterestTerms{
				StartDate:        date(2024, 1, 15),
				Rate:             decimal.NewFromInt(2),
				Type:             InterestMonthly,
				CurrentPrincipal: 100000,
			},
			asOf: date(2024, 3, 20),
			want: 4000,
		},
		{
			name: "yearly rate is spread per month",
			terms: InterestTerms{
				StartDate:        date(2024, 1, 1),
				Rate:             decimal.NewFromInt(12),
				Type:             InterestYearly,
				CurrentPrincipal: 100000,
			},
			asOf: date(2024, 7, 1),
			want: 6000,
		},
		{
			name: "same month accrues nothing",
			terms: InterestTerms{
				StartDate:        date(2024, 1, 1),
				Rate:             decimal.NewFromInt(3),
				Type:             InterestMonthly,
				CurrentPrincipal: 100000,
			},
			asOf: date(2024, 1, 31),
			want: 0,
		},
		{
			name: "fractional paise round half up",
			terms: InterestTerms{
				StartDate:        date(2024, 1, 1),
				Rate:             decimal.RequireFromString("1.5"),
				Type:             InterestMonthly,
				CurrentPrincipal: 333,
			},
			asOf: date(2024, 2, 1),
			want: 5,
		},
		{
			name: "empty type defaults to monthly",
			terms: InterestTerms{
				StartDate:        date(2024, 1, 1),
				Rate:             decimal.NewFromInt(1),
				CurrentPrincipal: 100000,
			},
			asOf: date(2024, 4, 1),
			want: 3000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeAccruedInterest(tt.terms, tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeAccruedInterest_Errors(t *testing.T) {
	_, err := ComputeAccruedInterest(InterestTerms{Rate: decimal.NewFromInt(-1)}, date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrNegativeRate)

	_, err = ComputeAccruedInterest(InterestTerms{Rate: decimal.NewFromInt(1), CurrentPrincipal: -5}, date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrNegativePrincipal)

	_, err = ComputeAccruedInterest(InterestTerms{Rate: decimal.NewFromInt(1), Type: "daily"}, date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidInterestType)
}

func newLoan() *GoldLoan {
	return &GoldLoan{
		ID:             "loan-1",
		CustomerID:     "cust-1",
		PrincipalPaise: 100000,
		InterestRate:   decimal.NewFromInt(2),
		InterestType:   InterestMonthly,
		Items:          []PledgedItem{{Description: "chain", WeightGrams: decimal.NewFromInt(10), Purity: Purity22K}},
		StartDate:      date(2024, 1, 15),
		DueDate:        date(2024, 12, 15),
		Status:         GoldLoanStatusActive,
	}
}

func TestApplyPayment_Interest(t *testing.T) {
	loan := newLoan()
	asOf := date(2024, 3, 20)

	// pending interest is 4000; the excess stays recorded as interest
	p, err := ApplyPayment(loan, PaymentSplit{ID: "p1", Type: LoanPaymentInterest, AmountPaise: 5000}, asOf)
	require.NoError(t, err)

	assert.Equal(t, Paise(5000), p.InterestPaise)
	assert.Equal(t, Paise(0), p.PrincipalPaise)
	assert.Equal(t, Paise(100000), loan.OutstandingPrincipal())
	assert.Equal(t, GoldLoanStatusActive, loan.Status)

	pending, err := PendingInterest(loan, asOf)
	require.NoError(t, err)
	assert.Equal(t, Paise(0), pending)
}

func TestApplyPayment_PrincipalCompletesLoan(t *testing.T) {
	loan := newLoan()

	_, err := ApplyPayment(loan, PaymentSplit{Type: LoanPaymentPrincipal, AmountPaise: 40000}, date(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, Paise(60000), loan.OutstandingPrincipal())
	assert.Equal(t, GoldLoanStatusActive, loan.Status)

	_, err = ApplyPayment(loan, PaymentSplit{Type: LoanPaymentPrincipal, AmountPaise: 60000}, date(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, Paise(0), loan.OutstandingPrincipal())
	assert.Equal(t, GoldLoanStatusCompleted, loan.Status)

	_, err = ApplyPayment(loan, PaymentSplit{Type: LoanPaymentPrincipal, AmountPaise: 1}, date(2024, 3, 2))
	assert.ErrorIs(t, err, ErrLoanClosed)
}

func TestApplyPayment_BothInterestFirst(t *testing.T) {
	loan := newLoan()

	p, err := ApplyPayment(loan, PaymentSplit{Type: LoanPaymentBoth, AmountPaise: 10000}, date(2024, 3, 20))
	require.NoError(t, err)

	assert.Equal(t, Paise(4000), p.InterestPaise)
	assert.Equal(t, Paise(6000), p.PrincipalPaise)
	assert.Equal(t, Paise(94000), loan.OutstandingPrincipal())
}

func TestApplyPayment_BothExplicitSplit(t *testing.T) {
	loan := newLoan()

	p, err := ApplyPayment(loan, PaymentSplit{
		Type:           LoanPaymentBoth,
		AmountPaise:    10000,
		PrincipalPaise: 9000,
		InterestPaise:  1000,
	}, date(2024, 3, 20))
	require.NoError(t, err)

	assert.Equal(t, Paise(1000), p.InterestPaise)
	assert.Equal(t, Paise(9000), p.PrincipalPaise)
}

func TestApplyPayment_Validation(t *testing.T) {
	loan := newLoan()

	_, err := ApplyPayment(loan, PaymentSplit{Type: LoanPaymentPrincipal, AmountPaise: 0}, date(2024, 2, 1))
	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)

	_, err = ApplyPayment(loan, PaymentSplit{Type: "penalty", AmountPaise: 10}, date(2024, 2, 1))
	assert.ErrorIs(t, err, ErrInvalidPaymentType)

	_, err = ApplyPayment(loan, PaymentSplit{Type: LoanPaymentPrincipal, AmountPaise: 10, PaymentMethod: "barter"}, date(2024, 2, 1))
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	assert.Empty(t, loan.Payments)
}

func TestReconcileStatus(t *testing.T) {
	loan := newLoan()

	assert.Equal(t, GoldLoanStatusActive, ReconcileStatus(loan, date(2024, 6, 1)))
	assert.Equal(t, GoldLoanStatusOverdue, ReconcileStatus(loan, date(2025, 1, 1)))

	loan.Payments = append(loan.Payments, GoldLoanPayment{PrincipalPaise: 100000})
	assert.Equal(t, GoldLoanStatusCompleted, ReconcileStatus(loan, date(2025, 1, 1)))
}

func TestGoldLoan_PrincipalSettlements(t *testing.T) {
	loan := newLoan()
	loan.Payments = []GoldLoanPayment{
		{ID: "a", InterestPaise: 2000},
		{ID: "b", PrincipalPaise: 30000},
		{ID: "c", PrincipalPaise: 5000, InterestPaise: 1000},
	}

	settlements := loan.PrincipalSettlements()
	require.Len(t, settlements, 2)

	out, err := ComputeOutstanding(loan.Instrument(), settlements)
	require.NoError(t, err)
	assert.Equal(t, Paise(65000), out.OutstandingPaise)
	assert.Equal(t, loan.OutstandingPrincipal(), out.OutstandingPaise)
}
