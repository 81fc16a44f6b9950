package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type customerServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	getFn    func(ctx context.Context, id string) (*domain.Customer, error)
	listFn   func(ctx context.Context, input usecase.ListCustomersInput) (*usecase.CustomerPage, error)
	updateFn func(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error)
	deleteFn func(ctx context.Context, id string) error
	ledgerFn func(ctx context.Context, id string) (*usecase.CustomerLedger, error)
}

func (s *customerServiceStub) CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
	return s.createFn(ctx, input)
}

func (s *customerServiceStub) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.getFn(ctx, id)
}

func (s *customerServiceStub) ListCustomers(ctx context.Context, input usecase.ListCustomersInput) (*usecase.CustomerPage, error) {
	return s.listFn(ctx, input)
}

func (s *customerServiceStub) UpdateCustomer(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error) {
	return s.updateFn(ctx, id, input)
}

func (s *customerServiceStub) DeleteCustomer(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *customerServiceStub) GetCustomerLedger(ctx context.Context, id string) (*usecase.CustomerLedger, error) {
	return s.ledgerFn(ctx, id)
}

type udhariServiceStub struct {
	giveFn      func(ctx context.Context, input usecase.CreateUdhariInput) (*domain.UdhariEntry, error)
	takeFn      func(ctx context.Context, input usecase.CreateUdhariInput) (*domain.UdhariEntry, error)
	getFn       func(ctx context.Context, id string) (*usecase.EntryBalance, error)
	listFn      func(ctx context.Context, customerID string) ([]usecase.EntryBalance, domain.CustomerSummary, error)
	updateFn    func(ctx context.Context, id string, input usecase.UpdateUdhariInput) (*domain.UdhariEntry, error)
	receiveFn   func(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
	makeFn      func(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
	paymentsFn  func(ctx context.Context, sourceRef string) ([]*domain.Payment, error)
	toCollectFn func(ctx context.Context) (*usecase.OutstandingReport, error)
	toPayFn     func(ctx context.Context) (*usecase.OutstandingReport, error)
	summaryFn   func(ctx context.Context) (domain.BusinessSummary, error)
}

func (s *udhariServiceStub) GiveUdhari(ctx context.Context, input usecase.CreateUdhariInput) (*domain.UdhariEntry, error) {
	return s.giveFn(ctx, input)
}

func (s *udhariServiceStub) TakeUdhari(ctx context.Context, input usecase.CreateUdhariInput) (*domain.UdhariEntry, error) {
	return s.takeFn(ctx, input)
}

func (s *udhariServiceStub) GetEntry(ctx context.Context, id string) (*usecase.EntryBalance, error) {
	return s.getFn(ctx, id)
}

func (s *udhariServiceStub) ListByCustomer(ctx context.Context, customerID string) ([]usecase.EntryBalance, domain.CustomerSummary, error) {
	return s.listFn(ctx, customerID)
}

func (s *udhariServiceStub) UpdateEntry(ctx context.Context, id string, input usecase.UpdateUdhariInput) (*domain.UdhariEntry, error) {
	return s.updateFn(ctx, id, input)
}

func (s *udhariServiceStub) ReceivePayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error) {
	return s.receiveFn(ctx, input)
}

func (s *udhariServiceStub) MakePayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error) {
	return s.makeFn(ctx, input)
}

func (s *udhariServiceStub) ListPayments(ctx context.Context, sourceRef string) ([]*domain.Payment, error) {
	return s.paymentsFn(ctx, sourceRef)
}

func (s *udhariServiceStub) OutstandingToCollect(ctx context.Context) (*usecase.OutstandingReport, error) {
	return s.toCollectFn(ctx)
}

func (s *udhariServiceStub) OutstandingToPay(ctx context.Context) (*usecase.OutstandingReport, error) {
	return s.toPayFn(ctx)
}

func (s *udhariServiceStub) Summary(ctx context.Context) (domain.BusinessSummary, error) {
	return s.summaryFn(ctx)
}

type goldLoanServiceStub struct {
	createFn   func(ctx context.Context, input usecase.CreateGoldLoanInput) (*domain.GoldLoan, error)
	getFn      func(ctx context.Context, id string) (*usecase.LoanView, error)
	listFn     func(ctx context.Context, input usecase.ListGoldLoansInput) ([]*usecase.LoanView, error)
	paymentFn  func(ctx context.Context, input usecase.AddLoanPaymentInput) (*domain.GoldLoanPayment, *usecase.LoanView, error)
	interestFn func(ctx context.Context, id string, asOf time.Time) (*usecase.InterestStatement, error)
}

func (s *goldLoanServiceStub) CreateLoan(ctx context.Context, input usecase.CreateGoldLoanInput) (*domain.GoldLoan, error) {
	return s.createFn(ctx, input)
}

func (s *goldLoanServiceStub) GetLoan(ctx context.Context, id string) (*usecase.LoanView, error) {
	return s.getFn(ctx, id)
}

func (s *goldLoanServiceStub) ListLoans(ctx context.Context, input usecase.ListGoldLoansInput) ([]*usecase.LoanView, error) {
	return s.listFn(ctx, input)
}

func (s *goldLoanServiceStub) AddPayment(ctx context.Context, input usecase.AddLoanPaymentInput) (*domain.GoldLoanPayment, *usecase.LoanView, error) {
	return s.paymentFn(ctx, input)
}

func (s *goldLoanServiceStub) GetInterest(ctx context.Context, id string, asOf time.Time) (*usecase.InterestStatement, error) {
	return s.interestFn(ctx, id, asOf)
}

type reconcilerStub struct {
	fn func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *reconcilerStub) ReconcileAllLoans(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.fn(ctx)
}

type expenseServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.BusinessExpense, error)
	listFn    func(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.BusinessExpense, error)
	payFn     func(ctx context.Context, id string) (*domain.BusinessExpense, error)
	deleteFn  func(ctx context.Context, id string) error
	summaryFn func(ctx context.Context, input usecase.ListExpensesInput) (domain.ExpenseSummary, error)
}

func (s *expenseServiceStub) CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.BusinessExpense, error) {
	return s.createFn(ctx, input)
}

func (s *expenseServiceStub) ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.BusinessExpense, error) {
	return s.listFn(ctx, input)
}

func (s *expenseServiceStub) MarkPaid(ctx context.Context, id string) (*domain.BusinessExpense, error) {
	return s.payFn(ctx, id)
}

func (s *expenseServiceStub) DeleteExpense(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *expenseServiceStub) Summary(ctx context.Context, input usecase.ListExpensesInput) (domain.ExpenseSummary, error) {
	return s.summaryFn(ctx, input)
}

type transactionServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	getFn    func(ctx context.Context, id string) (*domain.Transaction, error)
	listFn   func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

func (s *transactionServiceStub) Create(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, id)
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
	return s.listFn(ctx, input)
}
