package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/pawnledger/internal/domain"
)

const udhariColumns = `id, customer_id, kind, principal_paise, interest_paise, direction, taken_date, return_date, note, created_at`

// UdhariRepository implements usecase.UdhariRepository.
type UdhariRepository struct {
	db DBTX
}

// NewUdhariRepository creates a new UdhariRepository.
func NewUdhariRepository(pool *pgxpool.Pool) *UdhariRepository {
	return newUdhariRepository(pool)
}

func newUdhariRepository(db DBTX) *UdhariRepository {
	return &UdhariRepository{db: db}
}

// Create inserts a new udhari entry.
func (r *UdhariRepository) Create(ctx context.Context, e *domain.UdhariEntry) error {
	query := `
		INSERT INTO udhari_entries (` + udhariColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.CustomerID,
		e.Kind,
		int64(e.PrincipalPaise),
		int64(e.InterestPaise),
		int16(e.Direction),
		e.TakenDate,
		nullableTime(e.ReturnDate),
		e.Note,
		e.CreatedAt,
	)

	return mapError(err, domain.ErrCustomerNotFound)
}

// GetByID retrieves an udhari entry by ID.
func (r *UdhariRepository) GetByID(ctx context.Context, id string) (*domain.UdhariEntry, error) {
	query := `SELECT ` + udhariColumns + ` FROM udhari_entries WHERE id = $1`

	e, err := scanUdhari(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrUdhariNotFound)
	}
	return e, nil
}

// Update stores the administrative fields of an entry. Amounts and direction never change.
func (r *UdhariRepository) Update(ctx context.Context, e *domain.UdhariEntry) error {
	query := `UPDATE udhari_entries SET kind = $2, note = $3, return_date = $4 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, e.ID, e.Kind, e.Note, nullableTime(e.ReturnDate))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUdhariNotFound
	}
	return nil
}

// ListByCustomer returns a customer's entries, oldest first.
func (r *UdhariRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.UdhariEntry, error) {
	query := `SELECT ` + udhariColumns + ` FROM udhari_entries WHERE customer_id = $1 ORDER BY taken_date, id`

	return r.list(ctx, query, customerID)
}

// ListByDirection returns all entries with the given direction; zero means both.
func (r *UdhariRepository) ListByDirection(ctx context.Context, direction domain.Direction) ([]*domain.UdhariEntry, error) {
	if direction == 0 {
		return r.list(ctx, `SELECT `+udhariColumns+` FROM udhari_entries ORDER BY customer_id, taken_date, id`)
	}

	query := `SELECT ` + udhariColumns + ` FROM udhari_entries WHERE direction = $1 ORDER BY customer_id, taken_date, id`
	return r.list(ctx, query, int16(direction))
}

func (r *UdhariRepository) list(ctx context.Context, query string, args ...any) ([]*domain.UdhariEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.UdhariEntry, 0)
	for rows.Next() {
		e, err := scanUdhari(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func scanUdhari(row pgx.Row) (*domain.UdhariEntry, error) {
	var (
		e          domain.UdhariEntry
		principal  int64
		interest   int64
		direction  int16
		returnDate *time.Time
	)

	err := row.Scan(
		&e.ID,
		&e.CustomerID,
		&e.Kind,
		&principal,
		&interest,
		&direction,
		&e.TakenDate,
		&returnDate,
		&e.Note,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.PrincipalPaise = domain.Paise(principal)
	e.InterestPaise = domain.Paise(interest)
	e.Direction = domain.Direction(direction)
	e.ReturnDate = returnDate
	return &e, nil
}
