package usecase

import (
	"context"
	"time"

	"github.com/iho/pawnledger/internal/domain"
)

// dashboardLoanLimit caps the loans scanned for the dashboard in one page.
const dashboardLoanLimit = 500

// GoldLoanTotals is the shop-wide gold loan position.
type GoldLoanTotals struct {
	ActiveCount          int
	OverdueCount         int
	CompletedCount       int
	OutstandingPrincipal domain.Paise
	PendingInterest      domain.Paise
}

// Dashboard is the business overview.
type Dashboard struct {
	Udhari    domain.BusinessSummary
	GoldLoans GoldLoanTotals
	Expenses  domain.ExpenseSummary
	AsOf      time.Time
}

// SummaryUseCase builds the business dashboard.
type SummaryUseCase struct {
	udhari   *UdhariUseCase
	loanRepo GoldLoanRepository
	expenses *ExpenseUseCase
	now      func() time.Time
}

// NewSummaryUseCase creates a new SummaryUseCase.
func NewSummaryUseCase(udhari *UdhariUseCase, loanRepo GoldLoanRepository, expenses *ExpenseUseCase) *SummaryUseCase {
	return &SummaryUseCase{
		udhari:   udhari,
		loanRepo: loanRepo,
		expenses: expenses,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard computes the udhari position, gold loan totals and expense totals.
func (uc *SummaryUseCase) Dashboard(ctx context.Context) (*Dashboard, error) {
	asOf := uc.now()

	udhari, err := uc.udhari.Summary(ctx)
	if err != nil {
		return nil, err
	}

	loans, err := uc.loanTotals(ctx, asOf)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.expenses.Summary(ctx, ListExpensesInput{})
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Udhari:    udhari,
		GoldLoans: loans,
		Expenses:  expenses,
		AsOf:      asOf,
	}, nil
}

func (uc *SummaryUseCase) loanTotals(ctx context.Context, asOf time.Time) (GoldLoanTotals, error) {
	var totals GoldLoanTotals

	for offset := 0; ; offset += dashboardLoanLimit {
		loans, err := uc.loanRepo.List(ctx, GoldLoanFilter{Limit: dashboardLoanLimit, Offset: offset})
		if err != nil {
			return GoldLoanTotals{}, err
		}

		for _, loan := range loans {
			v, err := viewLoan(loan, asOf)
			if err != nil {
				return GoldLoanTotals{}, err
			}

			switch loan.Status {
			case domain.GoldLoanStatusCompleted:
				totals.CompletedCount++
				continue
			case domain.GoldLoanStatusOverdue:
				totals.OverdueCount++
			default:
				totals.ActiveCount++
			}
			totals.OutstandingPrincipal += v.Outstanding.OutstandingPaise
			totals.PendingInterest += v.PendingInterest
		}

		if len(loans) < dashboardLoanLimit {
			break
		}
	}

	return totals, nil
}
