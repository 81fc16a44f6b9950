package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/iho/pawnledger/internal/usecase"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// DefaultPaymentRetries is used when NewRetrier is given a negative count.
const DefaultPaymentRetries = 3

// Retrier replays a whole transaction when Postgres aborts it with a serialization
// failure or a deadlock. Any other error is returned after the first attempt.
type Retrier struct {
	retries  uint64
	newDelay func() *backoff.ExponentialBackOff
}

var _ usecase.Retrier = (*Retrier)(nil)

// NewRetrier allows up to retries extra attempts after the first one.
func NewRetrier(retries int) *Retrier {
	if retries < 0 {
		retries = DefaultPaymentRetries
	}
	return &Retrier{
		retries: uint64(retries),
		newDelay: func() *backoff.ExponentialBackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			b.MaxInterval = time.Second
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
	}
}

func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	attempt := 0
	run := func() error {
		attempt++
		err := operation()
		if err != nil && !isTransactionConflict(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("transaction conflict, replaying")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newDelay(), r.retries), ctx)
	return backoff.RetryNotify(run, policy, notify)
}

func isTransactionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
}
