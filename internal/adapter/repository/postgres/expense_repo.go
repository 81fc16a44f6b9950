package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

const expenseColumns = `id, category, subcategory, gross_paise, tax_paise, net_paise, vendor, payment_status,
	expense_date, paid_at, description, created_at, updated_at`

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	db DBTX
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return newExpenseRepository(pool)
}

func newExpenseRepository(db DBTX) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts an expense.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.BusinessExpense) error {
	query := `
		INSERT INTO business_expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.Category,
		e.Subcategory,
		int64(e.GrossPaise),
		int64(e.TaxPaise),
		int64(e.NetPaise),
		e.Vendor,
		string(e.PaymentStatus),
		e.ExpenseDate,
		nullableTime(e.PaidAt),
		e.Description,
		e.CreatedAt,
		e.UpdatedAt,
	)

	return mapError(err, domain.ErrExpenseNotFound)
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.BusinessExpense, error) {
	query := `SELECT ` + expenseColumns + ` FROM business_expenses WHERE id = $1`

	e, err := scanExpense(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrExpenseNotFound)
	}
	return e, nil
}

// List returns expenses matching the filter, newest first.
func (r *ExpenseRepository) List(ctx context.Context, filter usecase.ExpenseFilter) ([]*domain.BusinessExpense, error) {
	var where whereBuilder
	if filter.Category != "" {
		where.add("category = $%d", filter.Category)
	}
	if filter.Status != "" {
		where.add("payment_status = $%d", string(filter.Status))
	}
	if !filter.From.IsZero() {
		where.add("expense_date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		where.add("expense_date <= $%d", filter.To)
	}

	query := `SELECT ` + expenseColumns + ` FROM business_expenses` + where.String() + ` ORDER BY expense_date DESC, id DESC`
	query += where.page(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.BusinessExpense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// MarkPaid flips a pending expense to paid.
func (r *ExpenseRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	query := `UPDATE business_expenses SET payment_status = 'paid', paid_at = $2, updated_at = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, paidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// Delete removes an expense.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM business_expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (*domain.BusinessExpense, error) {
	var (
		e               domain.BusinessExpense
		gross, tax, net int64
		status          string
		paidAt          *time.Time
	)

	err := row.Scan(
		&e.ID,
		&e.Category,
		&e.Subcategory,
		&gross,
		&tax,
		&net,
		&e.Vendor,
		&status,
		&e.ExpenseDate,
		&paidAt,
		&e.Description,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.GrossPaise = domain.Paise(gross)
	e.TaxPaise = domain.Paise(tax)
	e.NetPaise = domain.Paise(net)
	e.PaymentStatus = domain.ExpenseStatus(status)
	e.PaidAt = paidAt
	return &e, nil
}
