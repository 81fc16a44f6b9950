package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

const customerColumns = `id, name, phone, email, address_line1, address_city, address_state, address_pincode,
	status, total_amount_taken_from_jewellers, total_amount_taken_by_us, created_at, updated_at`

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	db DBTX
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return newCustomerRepository(pool)
}

func newCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Phone,
		c.Email,
		c.Address.Line1,
		c.Address.City,
		c.Address.State,
		c.Address.Pincode,
		string(c.Status),
		int64(c.TotalAmountTakenFromJewellers),
		int64(c.TotalAmountTakenByUs),
		c.CreatedAt,
		c.UpdatedAt,
	)

	if err != nil {
		err = mapError(err, domain.ErrCustomerNotFound)
		if isConflict(err) {
			return domain.ErrDuplicateCustomer
		}
		return err
	}
	return nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrCustomerNotFound)
	}
	return c, nil
}

// Update overwrites the editable profile fields.
func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, address_line1 = $5, address_city = $6,
			address_state = $7, address_pincode = $8, status = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Phone,
		c.Email,
		c.Address.Line1,
		c.Address.City,
		c.Address.State,
		c.Address.Pincode,
		string(c.Status),
		c.UpdatedAt,
	)
	if err != nil {
		err = mapError(err, domain.ErrCustomerNotFound)
		if isConflict(err) {
			return domain.ErrDuplicateCustomer
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// UpdateCounters stores the recomputed udhari totals.
func (r *CustomerRepository) UpdateCounters(ctx context.Context, id string, fromJewellers, byUs domain.Paise, updatedAt time.Time) error {
	query := `
		UPDATE customers
		SET total_amount_taken_from_jewellers = $2, total_amount_taken_by_us = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, int64(fromJewellers), int64(byUs), updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Delete removes a customer. Owned ledger rows go with it through ON DELETE CASCADE.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// List returns one page of customers ordered by name, and the total number of matches.
func (r *CustomerRepository) List(ctx context.Context, filter usecase.CustomerFilter) ([]*domain.Customer, int, error) {
	var where whereBuilder
	if filter.Search != "" {
		where.add("(name ILIKE $%[1]d OR phone LIKE $%[1]d)", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		where.add("status = $%d", string(filter.Status))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers` + where.String() + ` ORDER BY name, id`
	query += where.page(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}

	return customers, total, rows.Err()
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c             domain.Customer
		status        string
		fromJewellers int64
		byUs          int64
	)

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Address.Line1,
		&c.Address.City,
		&c.Address.State,
		&c.Address.Pincode,
		&status,
		&fromJewellers,
		&byUs,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = domain.CustomerStatus(status)
	c.TotalAmountTakenFromJewellers = domain.Paise(fromJewellers)
	c.TotalAmountTakenByUs = domain.Paise(byUs)
	return &c, nil
}
