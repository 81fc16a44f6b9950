package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

const (
	goldLoanColumns = `id, customer_id, principal_paise, interest_rate, interest_type, start_date, due_date,
	status, note, created_at, updated_at`
	goldLoanItemColumns    = `loan_id, position, description, weight_grams, purity`
	goldLoanPaymentColumns = `id, loan_id, type, amount_paise, principal_paise, interest_paise, payment_method,
	payment_date, note, created_at`
)

// GoldLoanRepository implements usecase.GoldLoanRepository.
type GoldLoanRepository struct {
	db DBTX
}

// NewGoldLoanRepository creates a new GoldLoanRepository.
func NewGoldLoanRepository(pool *pgxpool.Pool) *GoldLoanRepository {
	return newGoldLoanRepository(pool)
}

func newGoldLoanRepository(db DBTX) *GoldLoanRepository {
	return &GoldLoanRepository{db: db}
}

// Create inserts a loan with its pledged items.
func (r *GoldLoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.GoldLoan) error {
	db := txConn(tx)

	query := `
		INSERT INTO gold_loans (` + goldLoanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := db.Exec(ctx, query,
		loan.ID,
		loan.CustomerID,
		int64(loan.PrincipalPaise),
		decimalToNumeric(loan.InterestRate),
		string(loan.InterestType),
		loan.StartDate,
		loan.DueDate,
		string(loan.Status),
		loan.Note,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return mapError(err, domain.ErrCustomerNotFound)
	}

	itemQuery := `INSERT INTO gold_loan_items (` + goldLoanItemColumns + `) VALUES ($1, $2, $3, $4, $5)`
	for i, item := range loan.Items {
		_, err := db.Exec(ctx, itemQuery,
			loan.ID,
			i,
			item.Description,
			decimalToNumeric(item.WeightGrams),
			string(item.Purity),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a loan with its items and payments.
func (r *GoldLoanRepository) GetByID(ctx context.Context, id string) (*domain.GoldLoan, error) {
	return r.get(ctx, r.db, `SELECT `+goldLoanColumns+` FROM gold_loans WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a loan with a FOR UPDATE lock on its row.
func (r *GoldLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.GoldLoan, error) {
	return r.get(ctx, txConn(tx), `SELECT `+goldLoanColumns+` FROM gold_loans WHERE id = $1 FOR UPDATE`, id)
}

func (r *GoldLoanRepository) get(ctx context.Context, db DBTX, query, id string) (*domain.GoldLoan, error) {
	loan, err := scanGoldLoan(db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrGoldLoanNotFound)
	}

	if err := r.loadChildren(ctx, db, []*domain.GoldLoan{loan}); err != nil {
		return nil, err
	}
	return loan, nil
}

// List returns loans matching the filter, newest first.
func (r *GoldLoanRepository) List(ctx context.Context, filter usecase.GoldLoanFilter) ([]*domain.GoldLoan, error) {
	var where whereBuilder
	if filter.CustomerID != "" {
		where.add("customer_id = $%d", filter.CustomerID)
	}
	if filter.Status != "" {
		where.add("status = $%d", string(filter.Status))
	}

	query := `SELECT ` + goldLoanColumns + ` FROM gold_loans` + where.String() + ` ORDER BY start_date DESC, id`
	query += where.page(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]*domain.GoldLoan, 0)
	for rows.Next() {
		loan, err := scanGoldLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadChildren(ctx, r.db, loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// AddPayment inserts a loan payment.
func (r *GoldLoanRepository) AddPayment(ctx context.Context, tx usecase.Transaction, p *domain.GoldLoanPayment) error {
	query := `
		INSERT INTO gold_loan_payments (` + goldLoanPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := txConn(tx).Exec(ctx, query,
		p.ID,
		p.LoanID,
		string(p.Type),
		int64(p.AmountPaise),
		int64(p.PrincipalPaise),
		int64(p.InterestPaise),
		string(p.PaymentMethod),
		p.PaymentDate,
		p.Note,
		p.CreatedAt,
	)

	return mapError(err, domain.ErrGoldLoanNotFound)
}

// UpdateStatus stores a recomputed loan status.
func (r *GoldLoanRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.GoldLoanStatus, updatedAt time.Time) error {
	tag, err := txConn(tx).Exec(ctx,
		`UPDATE gold_loans SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoldLoanNotFound
	}
	return nil
}

// loadChildren fills Items and Payments for loans with one query per table.
func (r *GoldLoanRepository) loadChildren(ctx context.Context, db DBTX, loans []*domain.GoldLoan) error {
	if len(loans) == 0 {
		return nil
	}

	ids := make([]string, len(loans))
	byID := make(map[string]*domain.GoldLoan, len(loans))
	for i, loan := range loans {
		ids[i] = loan.ID
		byID[loan.ID] = loan
	}

	if err := r.loadItems(ctx, db, ids, byID); err != nil {
		return err
	}
	return r.loadPayments(ctx, db, ids, byID)
}

func (r *GoldLoanRepository) loadItems(ctx context.Context, db DBTX, ids []string, byID map[string]*domain.GoldLoan) error {
	query := `SELECT ` + goldLoanItemColumns + ` FROM gold_loan_items WHERE loan_id = ANY($1) ORDER BY loan_id, position`

	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			loanID   string
			position int32
			item     domain.PledgedItem
			weight   pgtype.Numeric
			purity   string
		)
		if err := rows.Scan(&loanID, &position, &item.Description, &weight, &purity); err != nil {
			return err
		}
		item.WeightGrams = numericToDecimal(weight)
		item.Purity = domain.Purity(purity)

		if loan, ok := byID[loanID]; ok {
			loan.Items = append(loan.Items, item)
		}
	}

	return rows.Err()
}

func (r *GoldLoanRepository) loadPayments(ctx context.Context, db DBTX, ids []string, byID map[string]*domain.GoldLoan) error {
	query := `SELECT ` + goldLoanPaymentColumns + ` FROM gold_loan_payments WHERE loan_id = ANY($1) ORDER BY loan_id, payment_date, id`

	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                         domain.GoldLoanPayment
			kind, method              string
			amount, principal, intrst int64
		)
		err := rows.Scan(
			&p.ID,
			&p.LoanID,
			&kind,
			&amount,
			&principal,
			&intrst,
			&method,
			&p.PaymentDate,
			&p.Note,
			&p.CreatedAt,
		)
		if err != nil {
			return err
		}
		p.Type = domain.LoanPaymentType(kind)
		p.AmountPaise = domain.Paise(amount)
		p.PrincipalPaise = domain.Paise(principal)
		p.InterestPaise = domain.Paise(intrst)
		p.PaymentMethod = domain.PaymentMethod(method)

		if loan, ok := byID[p.LoanID]; ok {
			loan.Payments = append(loan.Payments, p)
		}
	}

	return rows.Err()
}

func scanGoldLoan(row pgx.Row) (*domain.GoldLoan, error) {
	var (
		loan      domain.GoldLoan
		principal int64
		rate      pgtype.Numeric
		kind      string
		status    string
	)

	err := row.Scan(
		&loan.ID,
		&loan.CustomerID,
		&principal,
		&rate,
		&kind,
		&loan.StartDate,
		&loan.DueDate,
		&status,
		&loan.Note,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.PrincipalPaise = domain.Paise(principal)
	loan.InterestRate = numericToDecimal(rate)
	loan.InterestType = domain.InterestType(kind)
	loan.Status = domain.GoldLoanStatus(status)
	return &loan, nil
}
