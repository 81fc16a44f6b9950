package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/pawnledger/internal/domain"
)

func fastRetrier(retries int) *Retrier {
	r := NewRetrier(retries)
	r.newDelay = func() *backoff.ExponentialBackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = time.Millisecond
		b.MaxInterval = time.Millisecond
		return b
	}
	return r
}

func TestRetrier_ReplaysConflicts(t *testing.T) {
	for _, code := range []string{sqlStateSerializationFailure, sqlStateDeadlockDetected} {
		t.Run(code, func(t *testing.T) {
			attempts := 0
			err := fastRetrier(3).Retry(context.Background(), func() error {
				attempts++
				if attempts < 3 {
					return fmt.Errorf("update gold loan: %w", &pgconn.PgError{Code: code})
				}
				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, 3, attempts)
		})
	}
}

func TestRetrier_DomainErrorsAreNotReplayed(t *testing.T) {
	attempts := 0
	err := fastRetrier(3).Retry(context.Background(), func() error {
		attempts++
		return domain.ErrLoanClosed
	})

	assert.ErrorIs(t, err, domain.ErrLoanClosed)
	assert.Equal(t, 1, attempts)
}

func TestRetrier_GivesUpAfterBudget(t *testing.T) {
	attempts := 0
	err := fastRetrier(2).Retry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("add gold loan payment: %w", &pgconn.PgError{Code: sqlStateSerializationFailure})
	})

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, sqlStateSerializationFailure, pgErr.Code)
	assert.Equal(t, 3, attempts)
}

func TestRetrier_ZeroRetriesRunsOnce(t *testing.T) {
	attempts := 0
	err := fastRetrier(0).Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: sqlStateDeadlockDetected}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetrier_NegativeCountUsesDefault(t *testing.T) {
	assert.Equal(t, uint64(DefaultPaymentRetries), NewRetrier(-1).retries)
}

func TestIsTransactionConflict(t *testing.T) {
	assert.True(t, isTransactionConflict(&pgconn.PgError{Code: sqlStateDeadlockDetected}))
	assert.False(t, isTransactionConflict(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isTransactionConflict(errors.New("connection reset")))
}
