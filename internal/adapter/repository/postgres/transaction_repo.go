package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

const transactionColumns = `id, customer_id, loan_id, type, amount_paise, date, description, receipt_number,
	metal_weight_grams, purity, rate_per_gram_paise, created_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a business transaction.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.CustomerID,
		t.LoanID,
		string(t.Type),
		int64(t.AmountPaise),
		t.Date,
		t.Description,
		t.ReceiptNumber,
		nullDecimalToNumeric(t.MetalWeightGrams),
		string(t.Purity),
		int64(t.RatePerGramPaise),
		t.CreatedAt,
	)

	return mapError(err, domain.ErrCustomerNotFound)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrTransactionNotFound)
	}
	return t, nil
}

// List returns transactions matching the filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	var where whereBuilder
	if filter.CustomerID != "" {
		where.add("customer_id = $%d", filter.CustomerID)
	}
	if filter.Type != "" {
		where.add("type = $%d", string(filter.Type))
	}
	if !filter.From.IsZero() {
		where.add("date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		where.add("date <= $%d", filter.To)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where.String() + ` ORDER BY date DESC, id DESC`
	query += where.page(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		kind   string
		amount int64
		weight pgtype.Numeric
		purity string
		rate   int64
	)

	err := row.Scan(
		&t.ID,
		&t.CustomerID,
		&t.LoanID,
		&kind,
		&amount,
		&t.Date,
		&t.Description,
		&t.ReceiptNumber,
		&weight,
		&purity,
		&rate,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = domain.TransactionType(kind)
	t.AmountPaise = domain.Paise(amount)
	t.MetalWeightGrams = numericToNullDecimal(weight)
	t.Purity = domain.Purity(purity)
	t.RatePerGramPaise = domain.Paise(rate)
	return &t, nil
}
