package usecase

import (
	"fmt"
	"time"

	"github.com/iho/pawnledger/internal/domain"
)

const (
	// DefaultTransactionTimeout bounds one gold loan payment transaction, retries excluded.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// PaymentLockTTL bounds how long a payment may hold its source lock
	PaymentLockTTL = 10 * time.Second

	// IdempotencyPending marks an idempotency key whose first request has not finished
	IdempotencyPending = "processing"

	paymentLockPrefix = "lock:payment:"

	// Payment kinds used as metric labels
	paymentKindReceive  = "receive"
	paymentKindMake     = "make"
	paymentKindGoldLoan = "gold_loan"
)

// ErrLockHeld is returned when a payment lock is held by another writer.
var ErrLockHeld = fmt.Errorf("%w: another payment against this entry is in progress", domain.ErrConflict)
