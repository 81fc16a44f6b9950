package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/pawnledger/internal/domain"
)

const paymentColumns = `id, customer_id, source_ref, principal_paise, payment_method, payment_date, reference, note, created_at`

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	db DBTX
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return newPaymentRepository(pool)
}

func newPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment. A sourceRef that does not exist is reported as not found.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO udhari_payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.CustomerID,
		p.SourceRef,
		int64(p.PrincipalPaise),
		string(p.PaymentMethod),
		p.PaymentDate,
		p.Reference,
		p.Note,
		p.CreatedAt,
	)

	return mapError(err, domain.ErrPaymentSourceMissing)
}

// ListBySource returns the payments settling one entry in date order.
func (r *PaymentRepository) ListBySource(ctx context.Context, sourceRef string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM udhari_payments WHERE source_ref = $1 ORDER BY payment_date, id`

	return r.list(ctx, query, sourceRef)
}

// ListBySources returns the payments of several entries in one round trip.
func (r *PaymentRepository) ListBySources(ctx context.Context, sourceRefs []string) ([]*domain.Payment, error) {
	if len(sourceRefs) == 0 {
		return []*domain.Payment{}, nil
	}

	query := `SELECT ` + paymentColumns + ` FROM udhari_payments WHERE source_ref = ANY($1) ORDER BY source_ref, payment_date, id`

	return r.list(ctx, query, sourceRefs)
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p         domain.Payment
		principal int64
		method    string
	)

	err := row.Scan(
		&p.ID,
		&p.CustomerID,
		&p.SourceRef,
		&principal,
		&method,
		&p.PaymentDate,
		&p.Reference,
		&p.Note,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PrincipalPaise = domain.Paise(principal)
	p.PaymentMethod = domain.PaymentMethod(method)
	return &p, nil
}
