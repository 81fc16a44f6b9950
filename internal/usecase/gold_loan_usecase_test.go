package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
	"github.com/iho/pawnledger/internal/usecase/mocks"
)

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
}

func sampleLoan() *domain.GoldLoan {
	return &domain.GoldLoan{
		ID:             "loan-1",
		CustomerID:     "cust-1",
		PrincipalPaise: 100000,
		InterestRate:   decimal.NewFromInt(2),
		InterestType:   domain.InterestMonthly,
		Items: []domain.PledgedItem{
			{Description: "bangle", WeightGrams: decimal.NewFromInt(12), Purity: domain.Purity22K},
		},
		StartDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Status:    domain.GoldLoanStatusActive,
	}
}

func newGoldLoanUseCase(loans *mocks.MockGoldLoanRepository, clock func() time.Time) *usecase.GoldLoanUseCase {
	customers := mocks.NewMockCustomerRepository(&domain.Customer{ID: "cust-1", Name: "Ramesh"})
	return usecase.NewGoldLoanUseCase(
		mocks.NewMockTransactionManager(),
		loans,
		customers,
		nil,
		mocks.NewMockIDGenerator(),
		nil,
	).WithClock(clock)
}

func TestGoldLoanUseCase_CreateLoan(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateGoldLoanInput
		expectError bool
		errorType   error
	}{
		{
			name: "successful loan",
			input: usecase.CreateGoldLoanInput{
				CustomerID:     "cust-1",
				PrincipalPaise: 5000000,
				InterestRate:   decimal.RequireFromString("1.5"),
				Items:          []domain.PledgedItem{{Description: "chain", WeightGrams: decimal.NewFromInt(20), Purity: domain.Purity22K}},
			},
		},
		{
			name: "no collateral",
			input: usecase.CreateGoldLoanInput{
				CustomerID:     "cust-1",
				PrincipalPaise: 5000000,
				InterestRate:   decimal.NewFromInt(1),
			},
			expectError: true,
			errorType:   domain.ErrNoCollateral,
		},
		{
			name: "unknown customer",
			input: usecase.CreateGoldLoanInput{
				CustomerID:     "ghost",
				PrincipalPaise: 100,
				InterestRate:   decimal.NewFromInt(1),
				Items:          []domain.PledgedItem{{WeightGrams: decimal.NewFromInt(1), Purity: domain.Purity24K}},
			},
			expectError: true,
			errorType:   domain.ErrNotFound,
		},
		{
			name: "silver is not accepted as collateral",
			input: usecase.CreateGoldLoanInput{
				CustomerID:     "cust-1",
				PrincipalPaise: 100,
				InterestRate:   decimal.NewFromInt(1),
				Items:          []domain.PledgedItem{{WeightGrams: decimal.NewFromInt(1), Purity: domain.PurityFineSilver}},
			},
			expectError: true,
			errorType:   domain.ErrInvalidPurity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loans := mocks.NewMockGoldLoanRepository()
			uc := newGoldLoanUseCase(loans, fixedClock(2024, 3, 1))

			loan, err := uc.CreateLoan(context.Background(), tt.input)

			if tt.expectError {
				if !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if loan.Status != domain.GoldLoanStatusActive {
				t.Errorf("expected active loan, got %s", loan.Status)
			}
			if loan.InterestType != domain.InterestMonthly {
				t.Errorf("expected monthly interest by default, got %s", loan.InterestType)
			}
			if !loan.StartDate.Equal(fixedClock(2024, 3, 1)()) {
				t.Errorf("expected start date to default to now, got %v", loan.StartDate)
			}
		})
	}
}

func TestGoldLoanUseCase_GetInterest(t *testing.T) {
	loans := mocks.NewMockGoldLoanRepository(sampleLoan())
	uc := newGoldLoanUseCase(loans, fixedClock(2024, 3, 20))

	stmt, err := uc.GetInterest(context.Background(), "loan-1", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stmt.ElapsedMonths != 2 {
		t.Errorf("expected 2 elapsed months, got %d", stmt.ElapsedMonths)
	}
	if stmt.AccruedInterest != 4000 {
		t.Errorf("expected accrued 4000, got %d", stmt.AccruedInterest)
	}
	if stmt.PendingInterest != 4000 {
		t.Errorf("expected pending 4000, got %d", stmt.PendingInterest)
	}
	if stmt.OutstandingPrincipal != 100000 {
		t.Errorf("expected outstanding 100000, got %d", stmt.OutstandingPrincipal)
	}
}

func TestGoldLoanUseCase_AddPayment(t *testing.T) {
	loans := mocks.NewMockGoldLoanRepository(sampleLoan())
	uc := newGoldLoanUseCase(loans, fixedClock(2024, 3, 20))
	ctx := context.Background()

	payment, view, err := uc.AddPayment(ctx, usecase.AddLoanPaymentInput{
		LoanID:      "loan-1",
		Type:        domain.LoanPaymentBoth,
		AmountPaise: 24000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.InterestPaise != 4000 || payment.PrincipalPaise != 20000 {
		t.Errorf("expected 4000 interest / 20000 principal, got %d / %d", payment.InterestPaise, payment.PrincipalPaise)
	}
	if view.Outstanding.OutstandingPaise != 80000 {
		t.Errorf("expected outstanding 80000, got %d", view.Outstanding.OutstandingPaise)
	}

	stored, err := loans.GetByID(ctx, "loan-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored.Payments) != 1 {
		t.Fatalf("expected payment to be stored, got %d payments", len(stored.Payments))
	}

	_, view, err = uc.AddPayment(ctx, usecase.AddLoanPaymentInput{
		LoanID:      "loan-1",
		Type:        domain.LoanPaymentPrincipal,
		AmountPaise: 80000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Loan.Status != domain.GoldLoanStatusCompleted {
		t.Errorf("expected completed loan, got %s", view.Loan.Status)
	}
	if got := loans.StatusUpdates[len(loans.StatusUpdates)-1]; got != domain.GoldLoanStatusCompleted {
		t.Errorf("expected stored status completed, got %s", got)
	}

	_, _, err = uc.AddPayment(ctx, usecase.AddLoanPaymentInput{
		LoanID:      "loan-1",
		Type:        domain.LoanPaymentInterest,
		AmountPaise: 100,
	})
	if !errors.Is(err, domain.ErrLoanClosed) {
		t.Errorf("expected ErrLoanClosed, got %v", err)
	}
}

func TestGoldLoanUseCase_AddPaymentRollsBackOnStoreError(t *testing.T) {
	loans := mocks.NewMockGoldLoanRepository(sampleLoan())
	storeErr := errors.New("insert failed")
	loans.AddPaymentFunc = func(ctx context.Context, tx usecase.Transaction, payment *domain.GoldLoanPayment) error {
		return storeErr
	}

	committed := false
	rolledBack := false
	txMgr := mocks.NewMockTransactionManager()
	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			CommitFunc:   func(ctx context.Context) error { committed = true; return nil },
			RollbackFunc: func(ctx context.Context) error { rolledBack = true; return nil },
		}, nil
	}

	uc := usecase.NewGoldLoanUseCase(txMgr, loans, mocks.NewMockCustomerRepository(), nil, mocks.NewMockIDGenerator(), nil).
		WithClock(fixedClock(2024, 3, 20))

	_, _, err := uc.AddPayment(context.Background(), usecase.AddLoanPaymentInput{
		LoanID:      "loan-1",
		Type:        domain.LoanPaymentPrincipal,
		AmountPaise: 100,
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if committed {
		t.Error("expected transaction not to be committed")
	}
	if !rolledBack {
		t.Error("expected transaction to be rolled back")
	}
}

func TestGoldLoanUseCase_GetLoanRepairsStatus(t *testing.T) {
	loans := mocks.NewMockGoldLoanRepository(sampleLoan())
	uc := newGoldLoanUseCase(loans, fixedClock(2024, 9, 1))

	view, err := uc.GetLoan(context.Background(), "loan-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Loan.Status != domain.GoldLoanStatusOverdue {
		t.Errorf("expected overdue status past due date, got %s", view.Loan.Status)
	}
	if view.AccruedInterest != 16000 {
		t.Errorf("expected 8 months of interest (16000), got %d", view.AccruedInterest)
	}
}

func TestGoldLoanUseCase_ListLoansRejectsUnknownStatus(t *testing.T) {
	uc := newGoldLoanUseCase(mocks.NewMockGoldLoanRepository(), fixedClock(2024, 1, 1))

	_, err := uc.ListLoans(context.Background(), usecase.ListGoldLoansInput{Status: "lost"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGoldLoanUseCase_AddPaymentRunsThroughRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().
		Retry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, operation func() error) error {
			return operation()
		}).
		Times(1)

	loans := mocks.NewMockGoldLoanRepository(sampleLoan())
	uc := newGoldLoanUseCase(loans, fixedClock(2024, 3, 20)).WithRetrier(retrier)

	_, view, err := uc.AddPayment(context.Background(), usecase.AddLoanPaymentInput{
		LoanID:      "loan-1",
		Type:        domain.LoanPaymentInterest,
		AmountPaise: 4000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.PendingInterest != 0 {
		t.Errorf("expected interest to be settled, got %d pending", view.PendingInterest)
	}
}

func TestGoldLoanUseCase_RetrierErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	conflict := errors.New("could not serialize access")
	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).Return(conflict)

	uc := newGoldLoanUseCase(mocks.NewMockGoldLoanRepository(sampleLoan()), fixedClock(2024, 3, 20)).WithRetrier(retrier)

	_, _, err := uc.AddPayment(context.Background(), usecase.AddLoanPaymentInput{
		LoanID:      "loan-1",
		Type:        domain.LoanPaymentInterest,
		AmountPaise: 4000,
	})
	if !errors.Is(err, conflict) {
		t.Fatalf("expected retrier error, got %v", err)
	}
}

func TestGoldLoanUseCase_ListLoansFiltersOnDerivedStatus(t *testing.T) {
	overdue := sampleLoan()
	overdue.ID = "loan-overdue"
	overdue.DueDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	current := sampleLoan()
	current.ID = "loan-current"
	current.DueDate = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	uc := newGoldLoanUseCase(mocks.NewMockGoldLoanRepository(overdue, current), fixedClock(2024, 6, 1))
	ctx := context.Background()

	tests := []struct {
		status domain.GoldLoanStatus
		want   []string
	}{
		{domain.GoldLoanStatusOverdue, []string{"loan-overdue"}},
		{domain.GoldLoanStatusActive, []string{"loan-current"}},
		{domain.GoldLoanStatusCompleted, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			views, err := uc.ListLoans(ctx, usecase.ListGoldLoansInput{Status: tt.status})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(views) != len(tt.want) {
				t.Fatalf("status=%s returned %d loans, want %d", tt.status, len(views), len(tt.want))
			}
			for i, v := range views {
				if v.Loan.ID != tt.want[i] {
					t.Errorf("loan %d = %s, want %s", i, v.Loan.ID, tt.want[i])
				}
				if v.Loan.Status != tt.status {
					t.Errorf("loan %s carries status %s", v.Loan.ID, v.Loan.Status)
				}
			}
		})
	}
}

func TestGoldLoanUseCase_ListLoansPagesAfterStatusFilter(t *testing.T) {
	var loans []*domain.GoldLoan
	for _, id := range []string{"a", "b", "c", "d"} {
		l := sampleLoan()
		l.ID = id
		if id == "b" || id == "d" {
			l.DueDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		}
		loans = append(loans, l)
	}
	uc := newGoldLoanUseCase(mocks.NewMockGoldLoanRepository(loans...), fixedClock(2024, 6, 1))

	views, err := uc.ListLoans(context.Background(), usecase.ListGoldLoansInput{Status: domain.GoldLoanStatusOverdue, Page: 2, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 || views[0].Loan.ID != "d" {
		t.Errorf("expected second overdue loan d, got %d views", len(views))
	}
}
