package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/pawnledger/internal/usecase"
)

type txStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager on a pgx pool.
type TxManager struct {
	pool txStarter
	opts pgx.TxOptions
}

// NewTxManager creates a TxManager that opens READ COMMITTED transactions.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManager(pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
}

func newTxManager(pool txStarter, opts pgx.TxOptions) *TxManager {
	return &TxManager{pool: pool, opts: opts}
}

// WithIsolation returns a manager sharing the pool that opens transactions at level.
// Gold loan payments run at REPEATABLE READ so a concurrent change to the loan row
// surfaces as a serialization failure, which the Retrier replays.
func (m *TxManager) WithIsolation(level pgx.TxIsoLevel) *TxManager {
	opts := m.opts
	opts.IsoLevel = level
	return newTxManager(m.pool, opts)
}

// Begin starts a transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return nil, fmt.Errorf("begin %s transaction: %w", m.opts.IsoLevel, err)
	}
	return &Tx{tx: tx}, nil
}

// Tx adapts pgx.Tx to usecase.Transaction. Repositories unwrap it with PgxTx.
type Tx struct {
	tx pgx.Tx
}

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback is a no-op after Commit, so callers may always defer it.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
