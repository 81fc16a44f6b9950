package usecase

import (
	"context"
	"time"

	"github.com/iho/pawnledger/internal/domain"
)

// CustomerFilter narrows a customer listing.
type CustomerFilter struct {
	Search string
	Status domain.CustomerStatus
	Limit  int
	Offset int
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	UpdateCounters(ctx context.Context, id string, fromJewellers, byUs domain.Paise, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CustomerFilter) ([]*domain.Customer, int, error)
}

// UdhariRepository defines data access for udhari entries.
type UdhariRepository interface {
	Create(ctx context.Context, entry *domain.UdhariEntry) error
	GetByID(ctx context.Context, id string) (*domain.UdhariEntry, error)
	Update(ctx context.Context, entry *domain.UdhariEntry) error
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.UdhariEntry, error)
	// ListByDirection returns all entries with the given direction; zero means both.
	ListByDirection(ctx context.Context, direction domain.Direction) ([]*domain.UdhariEntry, error)
}

// PaymentRepository defines data access for udhari payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	ListBySource(ctx context.Context, sourceRef string) ([]*domain.Payment, error)
	ListBySources(ctx context.Context, sourceRefs []string) ([]*domain.Payment, error)
}

// GoldLoanFilter narrows a gold loan listing.
type GoldLoanFilter struct {
	CustomerID string
	Status     domain.GoldLoanStatus
	Limit      int
	Offset     int
}

// GoldLoanRepository defines data access for gold loans. Loaded loans carry their items and payments.
type GoldLoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.GoldLoan) error
	GetByID(ctx context.Context, id string) (*domain.GoldLoan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.GoldLoan, error)
	List(ctx context.Context, filter GoldLoanFilter) ([]*domain.GoldLoan, error)
	AddPayment(ctx context.Context, tx Transaction, payment *domain.GoldLoanPayment) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.GoldLoanStatus, updatedAt time.Time) error
}

// TransactionFilter narrows a transaction listing. Zero times are open bounds.
type TransactionFilter struct {
	CustomerID string
	Type       domain.TransactionType
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// TransactionRepository defines data access for business transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
}

// ExpenseFilter narrows an expense listing. Zero times are open bounds.
type ExpenseFilter struct {
	Category string
	Status   domain.ExpenseStatus
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}

// ExpenseRepository defines data access for business expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.BusinessExpense) error
	GetByID(ctx context.Context, id string) (*domain.BusinessExpense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]*domain.BusinessExpense, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
