package handler

import (
	"context"
	"time"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

// CustomerService is the customer use case as seen by the HTTP layer.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, input usecase.ListCustomersInput) (*usecase.CustomerPage, error)
	UpdateCustomer(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetCustomerLedger(ctx context.Context, id string) (*usecase.CustomerLedger, error)
}

// UdhariService is the udhari use case as seen by the HTTP layer.
type UdhariService interface {
	GiveUdhari(ctx context.Context, input usecase.CreateUdhariInput) (*domain.UdhariEntry, error)
	TakeUdhari(ctx context.Context, input usecase.CreateUdhariInput) (*domain.UdhariEntry, error)
	GetEntry(ctx context.Context, id string) (*usecase.EntryBalance, error)
	ListByCustomer(ctx context.Context, customerID string) ([]usecase.EntryBalance, domain.CustomerSummary, error)
	UpdateEntry(ctx context.Context, id string, input usecase.UpdateUdhariInput) (*domain.UdhariEntry, error)
	ReceivePayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
	MakePayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
	ListPayments(ctx context.Context, sourceRef string) ([]*domain.Payment, error)
	OutstandingToCollect(ctx context.Context) (*usecase.OutstandingReport, error)
	OutstandingToPay(ctx context.Context) (*usecase.OutstandingReport, error)
	Summary(ctx context.Context) (domain.BusinessSummary, error)
}

// GoldLoanService is the gold loan use case as seen by the HTTP layer.
type GoldLoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateGoldLoanInput) (*domain.GoldLoan, error)
	GetLoan(ctx context.Context, id string) (*usecase.LoanView, error)
	ListLoans(ctx context.Context, input usecase.ListGoldLoansInput) ([]*usecase.LoanView, error)
	AddPayment(ctx context.Context, input usecase.AddLoanPaymentInput) (*domain.GoldLoanPayment, *usecase.LoanView, error)
	GetInterest(ctx context.Context, id string, asOf time.Time) (*usecase.InterestStatement, error)
}

// LoanReconciler repairs stored gold loan statuses.
type LoanReconciler interface {
	ReconcileAllLoans(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// TransactionService is the transaction use case as seen by the HTTP layer.
type TransactionService interface {
	Create(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// ExpenseService is the expense use case as seen by the HTTP layer.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.BusinessExpense, error)
	ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.BusinessExpense, error)
	MarkPaid(ctx context.Context, id string) (*domain.BusinessExpense, error)
	DeleteExpense(ctx context.Context, id string) error
	Summary(ctx context.Context, input usecase.ListExpensesInput) (domain.ExpenseSummary, error)
}

// DashboardService builds the business overview.
type DashboardService interface {
	Dashboard(ctx context.Context) (*usecase.Dashboard, error)
}

var (
	_ CustomerService    = (*usecase.CustomerUseCase)(nil)
	_ UdhariService      = (*usecase.UdhariUseCase)(nil)
	_ GoldLoanService    = (*usecase.GoldLoanUseCase)(nil)
	_ LoanReconciler     = (*usecase.ReconciliationUseCase)(nil)
	_ TransactionService = (*usecase.TransactionUseCase)(nil)
	_ ExpenseService     = (*usecase.ExpenseUseCase)(nil)
	_ DashboardService   = (*usecase.SummaryUseCase)(nil)
)
