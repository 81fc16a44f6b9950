package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/infrastructure/metrics"
)

// CustomerUseCase handles customer business logic.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	udhariRepo   UdhariRepository
	paymentRepo  PaymentRepository
	loanRepo     GoldLoanRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(
	customerRepo CustomerRepository,
	udhariRepo UdhariRepository,
	paymentRepo PaymentRepository,
	loanRepo GoldLoanRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		udhariRepo:   udhariRepo,
		paymentRepo:  paymentRepo,
		loanRepo:     loanRepo,
		idGen:        idGen,
		metrics:      metrics,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateCustomerInput represents input for creating a customer.
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address domain.Address
	Status  domain.CustomerStatus
}

// CreateCustomer creates a new customer.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	now := uc.now()

	customer := &domain.Customer{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Phone:     input.Phone,
		Email:     strings.TrimSpace(input.Email),
		Address:   input.Address,
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CustomersCreated.Inc()
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := syncCounters(ctx, uc.customerRepo, uc.udhariRepo, customer, uc.now()); err != nil {
		return nil, err
	}

	return customer, nil
}

// ListCustomersInput represents input for listing customers.
type ListCustomersInput struct {
	Search string
	Status domain.CustomerStatus
	Page   int
	Limit  int
}

// CustomerPage is one page of a customer listing.
type CustomerPage struct {
	Items []*domain.Customer
	Total int
	Page  int
	Limit int
}

// ListCustomers lists customers with search and pagination.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, input ListCustomersInput) (*CustomerPage, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	limit, offset := domain.ValidatePagination(input.Page, input.Limit)
	page := input.Page
	if page < 1 {
		page = 1
	}

	items, total, err := uc.customerRepo.List(ctx, CustomerFilter{
		Search: strings.TrimSpace(input.Search),
		Status: input.Status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	return &CustomerPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// UpdateCustomerInput carries the fields to change. Nil fields are left untouched.
type UpdateCustomerInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *domain.Address
	Status  *domain.CustomerStatus
}

// UpdateCustomer applies a partial update to a customer.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, id string, input UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = strings.TrimSpace(*input.Email)
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.Status != nil {
		customer.Status = *input.Status
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	customer.UpdatedAt = uc.now()

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer removes a customer. Entries, payments, loans and transactions go with it.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.customerRepo.Delete(ctx, id)
}

// CustomerLedger is everything the shop has on the books for one customer.
type CustomerLedger struct {
	Customer *domain.Customer
	Udhari   []EntryBalance
	Loans    []*LoanView
	Summary  domain.CustomerSummary
}

// GetCustomerLedger loads the customer's udhari entries and gold loans, recomputes their
// balances and summarizes them. Stale customer counters are repaired on the way.
func (uc *CustomerUseCase) GetCustomerLedger(ctx context.Context, id string) (*CustomerLedger, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	asOf := uc.now()
	entries, err := syncCounters(ctx, uc.customerRepo, uc.udhariRepo, customer, asOf)
	if err != nil {
		return nil, err
	}

	views, balances, err := balanceEntries(ctx, uc.paymentRepo, entries)
	if err != nil {
		return nil, err
	}

	loans, err := uc.loanRepo.List(ctx, GoldLoanFilter{CustomerID: id})
	if err != nil {
		return nil, err
	}

	loanViews := make([]*LoanView, 0, len(loans))
	for _, loan := range loans {
		v, err := viewLoan(loan, asOf)
		if err != nil {
			return nil, err
		}
		loanViews = append(loanViews, v)
		balances = append(balances, domain.InstrumentBalance{
			Instrument:  loan.Instrument(),
			Outstanding: v.Outstanding,
		})
	}

	return &CustomerLedger{
		Customer: customer,
		Udhari:   views,
		Loans:    loanViews,
		Summary:  domain.SummarizeCustomer(customer.ID, balances),
	}, nil
}
