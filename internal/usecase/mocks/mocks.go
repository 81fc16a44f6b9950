package mocks

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	CreateFunc         func(ctx context.Context, customer *domain.Customer) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Customer, error)
	UpdateFunc         func(ctx context.Context, customer *domain.Customer) error
	UpdateCountersFunc func(ctx context.Context, id string, fromJewellers, byUs domain.Paise, updatedAt time.Time) error
	DeleteFunc         func(ctx context.Context, id string) error
	ListFunc           func(ctx context.Context, filter usecase.CustomerFilter) ([]*domain.Customer, int, error)
}

func NewMockCustomerRepository(seed ...*domain.Customer) *MockCustomerRepository {
	m := &MockCustomerRepository{customers: make(map[string]*domain.Customer)}
	for _, c := range seed {
		m.customers[c.ID] = c
	}
	return m
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) UpdateCounters(ctx context.Context, id string, fromJewellers, byUs domain.Paise, updatedAt time.Time) error {
	if m.UpdateCountersFunc != nil {
		return m.UpdateCountersFunc(ctx, id, fromJewellers, byUs, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	c.TotalAmountTakenFromJewellers = fromJewellers
	c.TotalAmountTakenByUs = byUs
	c.UpdatedAt = updatedAt
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *MockCustomerRepository) List(ctx context.Context, filter usecase.CustomerFilter) ([]*domain.Customer, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.Customer
	for _, c := range m.customers {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, filter.Limit, filter.Offset), len(matched), nil
}

// MockUdhariRepository is a mock implementation of UdhariRepository.
type MockUdhariRepository struct {
	mu      sync.RWMutex
	entries []*domain.UdhariEntry

	CreateFunc          func(ctx context.Context, entry *domain.UdhariEntry) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.UdhariEntry, error)
	UpdateFunc          func(ctx context.Context, entry *domain.UdhariEntry) error
	ListByCustomerFunc  func(ctx context.Context, customerID string) ([]*domain.UdhariEntry, error)
	ListByDirectionFunc func(ctx context.Context, direction domain.Direction) ([]*domain.UdhariEntry, error)
}

func NewMockUdhariRepository(seed ...*domain.UdhariEntry) *MockUdhariRepository {
	return &MockUdhariRepository{entries: append([]*domain.UdhariEntry(nil), seed...)}
}

func (m *MockUdhariRepository) Create(ctx context.Context, entry *domain.UdhariEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockUdhariRepository) GetByID(ctx context.Context, id string) (*domain.UdhariEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrUdhariNotFound
}

func (m *MockUdhariRepository) Update(ctx context.Context, entry *domain.UdhariEntry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.ID == entry.ID {
			m.entries[i] = entry
			return nil
		}
	}
	return domain.ErrUdhariNotFound
}

func (m *MockUdhariRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.UdhariEntry, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.UdhariEntry
	for _, e := range m.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockUdhariRepository) ListByDirection(ctx context.Context, direction domain.Direction) ([]*domain.UdhariEntry, error) {
	if m.ListByDirectionFunc != nil {
		return m.ListByDirectionFunc(ctx, direction)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.UdhariEntry
	for _, e := range m.entries {
		if direction == 0 || e.Direction == direction {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments []*domain.Payment

	CreateFunc        func(ctx context.Context, payment *domain.Payment) error
	ListBySourceFunc  func(ctx context.Context, sourceRef string) ([]*domain.Payment, error)
	ListBySourcesFunc func(ctx context.Context, sourceRefs []string) ([]*domain.Payment, error)
}

func NewMockPaymentRepository(seed ...*domain.Payment) *MockPaymentRepository {
	return &MockPaymentRepository{payments: append([]*domain.Payment(nil), seed...)}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *MockPaymentRepository) ListBySource(ctx context.Context, sourceRef string) ([]*domain.Payment, error) {
	if m.ListBySourceFunc != nil {
		return m.ListBySourceFunc(ctx, sourceRef)
	}
	return m.ListBySources(ctx, []string{sourceRef})
}

func (m *MockPaymentRepository) ListBySources(ctx context.Context, sourceRefs []string) ([]*domain.Payment, error) {
	if m.ListBySourcesFunc != nil {
		return m.ListBySourcesFunc(ctx, sourceRefs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(sourceRefs))
	for _, s := range sourceRefs {
		wanted[s] = true
	}
	var out []*domain.Payment
	for _, p := range m.payments {
		if wanted[p.SourceRef] {
			out = append(out, p)
		}
	}
	return out, nil
}

// MockGoldLoanRepository is a mock implementation of GoldLoanRepository.
type MockGoldLoanRepository struct {
	mu    sync.RWMutex
	loans []*domain.GoldLoan

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, loan *domain.GoldLoan) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.GoldLoan, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.GoldLoan, error)
	ListFunc             func(ctx context.Context, filter usecase.GoldLoanFilter) ([]*domain.GoldLoan, error)
	AddPaymentFunc       func(ctx context.Context, tx usecase.Transaction, payment *domain.GoldLoanPayment) error
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.GoldLoanStatus, updatedAt time.Time) error

	// StatusUpdates records every UpdateStatus call in order.
	StatusUpdates []domain.GoldLoanStatus
}

func NewMockGoldLoanRepository(seed ...*domain.GoldLoan) *MockGoldLoanRepository {
	return &MockGoldLoanRepository{loans: append([]*domain.GoldLoan(nil), seed...)}
}

func (m *MockGoldLoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.GoldLoan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans = append(m.loans, loan)
	return nil
}

func (m *MockGoldLoanRepository) GetByID(ctx context.Context, id string) (*domain.GoldLoan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.loans {
		if l.ID == id {
			cp := *l
			cp.Payments = append([]domain.GoldLoanPayment(nil), l.Payments...)
			return &cp, nil
		}
	}
	return nil, domain.ErrGoldLoanNotFound
}

func (m *MockGoldLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.GoldLoan, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockGoldLoanRepository) List(ctx context.Context, filter usecase.GoldLoanFilter) ([]*domain.GoldLoan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.GoldLoan
	for _, l := range m.loans {
		if filter.CustomerID != "" && l.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		cp := *l
		cp.Payments = append([]domain.GoldLoanPayment(nil), l.Payments...)
		out = append(out, &cp)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

func (m *MockGoldLoanRepository) AddPayment(ctx context.Context, tx usecase.Transaction, payment *domain.GoldLoanPayment) error {
	if m.AddPaymentFunc != nil {
		return m.AddPaymentFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.loans {
		if l.ID == payment.LoanID {
			l.Payments = append(l.Payments, *payment)
			return nil
		}
	}
	return domain.ErrGoldLoanNotFound
}

func (m *MockGoldLoanRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.GoldLoanStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusUpdates = append(m.StatusUpdates, status)
	for _, l := range m.loans {
		if l.ID == id {
			l.Status = status
			l.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrGoldLoanNotFound
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns []*domain.Transaction

	CreateFunc  func(ctx context.Context, txn *domain.Transaction) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Transaction, error)
	ListFunc    func(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = append(m.txns, txn)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range m.txns {
		if filter.CustomerID != "" && t.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, t)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses []*domain.BusinessExpense

	CreateFunc   func(ctx context.Context, expense *domain.BusinessExpense) error
	GetByIDFunc  func(ctx context.Context, id string) (*domain.BusinessExpense, error)
	ListFunc     func(ctx context.Context, filter usecase.ExpenseFilter) ([]*domain.BusinessExpense, error)
	MarkPaidFunc func(ctx context.Context, id string, paidAt time.Time) error
	DeleteFunc   func(ctx context.Context, id string) error
}

func NewMockExpenseRepository(seed ...*domain.BusinessExpense) *MockExpenseRepository {
	return &MockExpenseRepository{expenses: append([]*domain.BusinessExpense(nil), seed...)}
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.BusinessExpense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = append(m.expenses, expense)
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.BusinessExpense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.expenses {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) List(ctx context.Context, filter usecase.ExpenseFilter) ([]*domain.BusinessExpense, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.BusinessExpense
	for _, e := range m.expenses {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Status != "" && e.PaymentStatus != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

func (m *MockExpenseRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, id, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.expenses {
		if e.ID == id {
			e.PaymentStatus = domain.ExpenseStatusPaid
			e.PaidAt = &paidAt
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.expenses {
		if e.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
