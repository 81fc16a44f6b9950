package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/pawnledger/internal/domain"
)

// ExpenseUseCase handles business expenses.
type ExpenseUseCase struct {
	expenseRepo ExpenseRepository
	idGen       IDGenerator
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(expenseRepo ExpenseRepository, idGen IDGenerator) *ExpenseUseCase {
	return &ExpenseUseCase{
		expenseRepo: expenseRepo,
		idGen:       idGen,
	}
}

// CreateExpenseInput represents input for recording an expense.
type CreateExpenseInput struct {
	Category      string
	Subcategory   string
	GrossPaise    domain.Paise
	TaxPaise      domain.Paise
	NetPaise      domain.Paise
	Vendor        string
	PaymentStatus domain.ExpenseStatus
	ExpenseDate   time.Time
	Description   string
}

// CreateExpense records an expense.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.BusinessExpense, error) {
	now := time.Now().UTC()

	expense := &domain.BusinessExpense{
		ID:            uc.idGen.Generate(),
		Category:      strings.TrimSpace(input.Category),
		Subcategory:   strings.TrimSpace(input.Subcategory),
		GrossPaise:    input.GrossPaise,
		TaxPaise:      input.TaxPaise,
		NetPaise:      input.NetPaise,
		Vendor:        input.Vendor,
		PaymentStatus: input.PaymentStatus,
		ExpenseDate:   input.ExpenseDate,
		Description:   input.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = now
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if expense.PaymentStatus == domain.ExpenseStatusPaid {
		expense.PaidAt = &now
	}

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesInput represents input for listing expenses.
type ListExpensesInput struct {
	Category string
	Status   domain.ExpenseStatus
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}

func (in ListExpensesInput) filter() (ExpenseFilter, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return ExpenseFilter{}, domain.ErrInvalidStatus
	}
	return ExpenseFilter{
		Category: strings.TrimSpace(in.Category),
		Status:   in.Status,
		From:     in.From,
		To:       in.To,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}, nil
}

// ListExpenses lists expenses newest first.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*domain.BusinessExpense, error) {
	if input.Limit <= 0 {
		input.Limit = domain.DefaultPageSize
	}
	if input.Limit > domain.MaxPageSize {
		input.Limit = domain.MaxPageSize
	}

	filter, err := input.filter()
	if err != nil {
		return nil, err
	}

	return uc.expenseRepo.List(ctx, filter)
}

// MarkPaid settles a pending expense. Paying an already paid expense is a no-op.
func (uc *ExpenseUseCase) MarkPaid(ctx context.Context, id string) (*domain.BusinessExpense, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if expense.PaymentStatus == domain.ExpenseStatusPaid {
		return expense, nil
	}

	now := time.Now().UTC()
	if err := uc.expenseRepo.MarkPaid(ctx, id, now); err != nil {
		return nil, err
	}

	expense.PaymentStatus = domain.ExpenseStatusPaid
	expense.PaidAt = &now
	expense.UpdatedAt = now

	return expense, nil
}

// DeleteExpense removes an expense.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, id string) error {
	return uc.expenseRepo.Delete(ctx, id)
}

// Summary totals the expenses matching the filter. Limit and offset are ignored.
func (uc *ExpenseUseCase) Summary(ctx context.Context, input ListExpensesInput) (domain.ExpenseSummary, error) {
	input.Limit = 0
	input.Offset = 0

	filter, err := input.filter()
	if err != nil {
		return domain.ExpenseSummary{}, err
	}

	expenses, err := uc.expenseRepo.List(ctx, filter)
	if err != nil {
		return domain.ExpenseSummary{}, err
	}

	return domain.SummarizeExpenses(expenses), nil
}
