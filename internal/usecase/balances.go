package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/infrastructure/metrics"
)

// EntryBalance is an udhari entry together with its derived balance.
type EntryBalance struct {
	Entry       *domain.UdhariEntry
	Outstanding domain.Outstanding
}

// LoanView is a gold loan with its derived principal balance and interest position.
type LoanView struct {
	Loan            *domain.GoldLoan
	Outstanding     domain.Outstanding
	AccruedInterest domain.Paise
	PendingInterest domain.Paise
	AsOf            time.Time
}

// balanceEntries fetches the payments for entries in one query and computes each balance.
func balanceEntries(ctx context.Context, payments PaymentRepository, entries []*domain.UdhariEntry) ([]EntryBalance, []domain.InstrumentBalance, error) {
	if len(entries) == 0 {
		return []EntryBalance{}, nil, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	rows, err := payments.ListBySources(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	bySource, err := domain.GroupPaymentsBySource(rows)
	if err != nil {
		return nil, nil, err
	}

	balances, err := domain.BalanceEntries(entries, bySource)
	if err != nil {
		return nil, nil, err
	}

	views := make([]EntryBalance, len(entries))
	for i, e := range entries {
		views[i] = EntryBalance{Entry: e, Outstanding: balances[i].Outstanding}
	}

	return views, balances, nil
}

// viewLoan recomputes the derived state of a loan as of asOf. The status is read-repaired in memory.
func viewLoan(loan *domain.GoldLoan, asOf time.Time) (*LoanView, error) {
	out, err := domain.ComputeOutstanding(loan.Instrument(), loan.PrincipalSettlements())
	if err != nil {
		return nil, err
	}

	accrued, err := domain.ComputeAccruedInterest(loan.InterestTerms(), asOf)
	if err != nil {
		return nil, err
	}

	loan.Status = domain.ReconcileStatus(loan, asOf)

	return &LoanView{
		Loan:            loan,
		Outstanding:     out,
		AccruedInterest: accrued,
		PendingInterest: domain.ClampZero(accrued - loan.InterestPaid()),
		AsOf:            asOf,
	}, nil
}

// withPaymentLock runs fn while holding the payment lock of sourceID. When the lock backend
// itself fails the write proceeds unlocked, since balances are recomputed on every read.
func withPaymentLock(ctx context.Context, locker Locker, m *metrics.Metrics, sourceID string, fn func() error) error {
	if locker == nil {
		return fn()
	}

	lock, err := locker.Obtain(ctx, paymentLockPrefix+sourceID, PaymentLockTTL)
	switch {
	case errors.Is(err, ErrLockHeld):
		if m != nil {
			m.LockFailures.WithLabelValues("held").Inc()
		}
		return err
	case err != nil:
		if m != nil {
			m.LockFailures.WithLabelValues("backend").Inc()
		}
		log.Warn().Err(err).Str("source", sourceID).Msg("payment lock unavailable, proceeding without lock")
		return fn()
	}

	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Str("source", sourceID).Msg("failed to release payment lock")
		}
	}()

	return fn()
}

// syncCounters recomputes the customer's udhari counters from its entries and persists
// them when they drifted.
func syncCounters(ctx context.Context, customers CustomerRepository, entries UdhariRepository, customer *domain.Customer, asOf time.Time) ([]*domain.UdhariEntry, error) {
	list, err := entries.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	if !customer.RefreshCounters(list) {
		return list, nil
	}

	customer.UpdatedAt = asOf
	if err := customers.UpdateCounters(ctx, customer.ID,
		customer.TotalAmountTakenFromJewellers, customer.TotalAmountTakenByUs, asOf); err != nil {
		return nil, err
	}

	return list, nil
}
