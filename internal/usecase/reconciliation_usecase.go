package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/infrastructure/metrics"
)

// reconcileBatchSize is the page size used when walking all loans.
const reconcileBatchSize = 100

// ReconciliationUseCase repairs stored gold loan statuses from their payments
type ReconciliationUseCase struct {
	txManager TransactionManager
	loanRepo  GoldLoanRepository
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	txManager TransactionManager,
	loanRepo GoldLoanRepository,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager: txManager,
		loanRepo:  loanRepo,
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to judge overdue loans.
func (uc *ReconciliationUseCase) WithClock(now func() time.Time) *ReconciliationUseCase {
	uc.now = now
	return uc
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	LoanID         string
	StoredStatus   domain.GoldLoanStatus
	ComputedStatus domain.GoldLoanStatus
	Repaired       bool
	CheckedAt      time.Time
}

// ReconcileLoan recomputes the status of one loan and stores it when it differs
func (uc *ReconciliationUseCase) ReconcileLoan(ctx context.Context, loanID string) (*ReconciliationResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	result := &ReconciliationResult{
		LoanID:         loan.ID,
		StoredStatus:   loan.Status,
		ComputedStatus: domain.ReconcileStatus(loan, now),
		CheckedAt:      now,
	}

	if result.ComputedStatus == result.StoredStatus {
		return result, nil
	}

	if err := uc.loanRepo.UpdateStatus(txCtx, tx, loan.ID, result.ComputedStatus, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	result.Repaired = true
	if uc.metrics != nil {
		uc.metrics.LoansReconciled.WithLabelValues(string(result.ComputedStatus)).Inc()
	}

	return result, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalLoans    int
	RepairedLoans int
	Discrepancies []*ReconciliationResult
	CheckedAt     time.Time
}

// ReconcileAllLoans walks every loan, repairing stale statuses
func (uc *ReconciliationUseCase) ReconcileAllLoans(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     uc.now(),
	}

	for offset := 0; ; offset += reconcileBatchSize {
		loans, err := uc.loanRepo.List(ctx, GoldLoanFilter{Limit: reconcileBatchSize, Offset: offset})
		if err != nil {
			return nil, err
		}

		for _, loan := range loans {
			result, err := uc.ReconcileLoan(ctx, loan.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile loan %s: %w", loan.ID, err)
			}

			report.TotalLoans++
			if result.Repaired {
				report.RepairedLoans++
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		if len(loans) < reconcileBatchSize {
			break
		}
	}

	return report, nil
}
