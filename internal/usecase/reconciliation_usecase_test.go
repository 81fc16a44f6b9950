package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
	"github.com/iho/pawnledger/internal/usecase/mocks"
)

func TestReconciliationUseCase_ReconcileAllLoans(t *testing.T) {
	overdue := sampleLoan()

	paidOff := sampleLoan()
	paidOff.ID = "loan-2"
	paidOff.Payments = []domain.GoldLoanPayment{{ID: "p1", LoanID: "loan-2", PrincipalPaise: 100000}}

	healthy := sampleLoan()
	healthy.ID = "loan-3"
	healthy.DueDate = healthy.DueDate.AddDate(1, 0, 0)

	loans := mocks.NewMockGoldLoanRepository(overdue, paidOff, healthy)
	uc := usecase.NewReconciliationUseCase(mocks.NewMockTransactionManager(), loans, nil).
		WithClock(fixedClock(2024, 9, 1))

	report, err := uc.ReconcileAllLoans(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalLoans)
	assert.Equal(t, 2, report.RepairedLoans)
	require.Len(t, report.Discrepancies, 2)

	byID := map[string]*usecase.ReconciliationResult{}
	for _, d := range report.Discrepancies {
		byID[d.LoanID] = d
	}
	assert.Equal(t, domain.GoldLoanStatusOverdue, byID["loan-1"].ComputedStatus)
	assert.Equal(t, domain.GoldLoanStatusCompleted, byID["loan-2"].ComputedStatus)

	stored, err := loans.GetByID(context.Background(), "loan-2")
	require.NoError(t, err)
	assert.Equal(t, domain.GoldLoanStatusCompleted, stored.Status)
}

func TestReconciliationUseCase_ReconcileLoanNoChange(t *testing.T) {
	loans := mocks.NewMockGoldLoanRepository(sampleLoan())
	uc := usecase.NewReconciliationUseCase(mocks.NewMockTransactionManager(), loans, nil).
		WithClock(fixedClock(2024, 2, 1))

	result, err := uc.ReconcileLoan(context.Background(), "loan-1")
	require.NoError(t, err)

	assert.False(t, result.Repaired)
	assert.Empty(t, loans.StatusUpdates)
}

func TestReconciliationUseCase_ReconcileLoanNotFound(t *testing.T) {
	uc := usecase.NewReconciliationUseCase(mocks.NewMockTransactionManager(), mocks.NewMockGoldLoanRepository(), nil)

	_, err := uc.ReconcileLoan(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrGoldLoanNotFound)
}
