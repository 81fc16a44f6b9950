package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/infrastructure/metrics"
)

// GoldLoanUseCase handles gold-backed loans.
type GoldLoanUseCase struct {
	txManager    TransactionManager
	loanRepo     GoldLoanRepository
	customerRepo CustomerRepository
	locker       Locker
	retrier      Retrier
	idGen        IDGenerator
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewGoldLoanUseCase creates a new GoldLoanUseCase. locker may be nil.
func NewGoldLoanUseCase(
	txManager TransactionManager,
	loanRepo GoldLoanRepository,
	customerRepo CustomerRepository,
	locker Locker,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *GoldLoanUseCase {
	return &GoldLoanUseCase{
		txManager:    txManager,
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		locker:       locker,
		idGen:        idGen,
		metrics:      metrics,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for interest accrual and status checks.
func (uc *GoldLoanUseCase) WithClock(now func() time.Time) *GoldLoanUseCase {
	uc.now = now
	return uc
}

// WithRetrier retries payment transactions that hit a deadlock or serialization failure.
func (uc *GoldLoanUseCase) WithRetrier(r Retrier) *GoldLoanUseCase {
	uc.retrier = r
	return uc
}

// CreateGoldLoanInput represents input for opening a gold loan.
type CreateGoldLoanInput struct {
	CustomerID     string
	PrincipalPaise domain.Paise
	InterestRate   decimal.Decimal
	InterestType   domain.InterestType
	Items          []domain.PledgedItem
	StartDate      time.Time
	DueDate        time.Time
	Note           string
}

// CreateLoan opens a gold loan.
func (uc *GoldLoanUseCase) CreateLoan(ctx context.Context, input CreateGoldLoanInput) (*domain.GoldLoan, error) {
	now := uc.now()

	loan := &domain.GoldLoan{
		ID:             uc.idGen.Generate(),
		CustomerID:     strings.TrimSpace(input.CustomerID),
		PrincipalPaise: input.PrincipalPaise,
		InterestRate:   input.InterestRate,
		InterestType:   input.InterestType,
		Items:          input.Items,
		StartDate:      input.StartDate,
		DueDate:        input.DueDate,
		Note:           input.Note,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if loan.StartDate.IsZero() {
		loan.StartDate = now
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}
	loan.Status = domain.ReconcileStatus(loan, now)

	if _, err := uc.customerRepo.GetByID(ctx, loan.CustomerID); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	if err := uc.loanRepo.Create(txCtx, tx, loan); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.GoldLoansCreated.Inc()
	}

	return loan, nil
}

// GetLoan returns a loan with its balance and interest as of now.
func (uc *GoldLoanUseCase) GetLoan(ctx context.Context, id string) (*LoanView, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewLoan(loan, uc.now())
}

// ListGoldLoansInput represents input for listing gold loans.
type ListGoldLoansInput struct {
	CustomerID string
	Status     domain.GoldLoanStatus
	Page       int
	Limit      int
}

// ListLoans lists loans. The status filter matches the status derived as of now, so a
// loan past its due date is listed as overdue whatever its stored status says.
func (uc *GoldLoanUseCase) ListLoans(ctx context.Context, input ListGoldLoansInput) ([]*LoanView, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	limit, offset := domain.ValidatePagination(input.Page, input.Limit)

	filter := GoldLoanFilter{CustomerID: input.CustomerID, Limit: limit, Offset: offset}
	if input.Status != "" {
		// The stored status lags the clock; page after deriving.
		filter.Limit, filter.Offset = 0, 0
	}

	loans, err := uc.loanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	asOf := uc.now()
	views := make([]*LoanView, 0, len(loans))
	for _, loan := range loans {
		v, err := viewLoan(loan, asOf)
		if err != nil {
			return nil, err
		}
		if input.Status != "" && v.Loan.Status != input.Status {
			continue
		}
		views = append(views, v)
	}

	if input.Status == "" {
		return views, nil
	}
	if offset >= len(views) {
		return []*LoanView{}, nil
	}
	views = views[offset:]
	if len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

// AddLoanPaymentInput represents a payment against a gold loan.
type AddLoanPaymentInput struct {
	LoanID         string
	Type           domain.LoanPaymentType
	AmountPaise    domain.Paise
	PrincipalPaise domain.Paise
	InterestPaise  domain.Paise
	PaymentMethod  domain.PaymentMethod
	PaymentDate    time.Time
	Note           string
}

// AddPayment splits a payment into interest and principal, stores it and updates the loan status
// in one database transaction.
func (uc *GoldLoanUseCase) AddPayment(ctx context.Context, input AddLoanPaymentInput) (*domain.GoldLoanPayment, *LoanView, error) {
	var (
		payment *domain.GoldLoanPayment
		view    *LoanView
	)

	err := withPaymentLock(ctx, uc.locker, uc.metrics, input.LoanID, func() error {
		op := func() error {
			var err error
			payment, view, err = uc.addPayment(ctx, input)
			return err
		}
		if uc.retrier == nil {
			return op()
		}
		return uc.retrier.Retry(ctx, op)
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.PaymentErrors.WithLabelValues(paymentKindGoldLoan).Inc()
		}
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.WithLabelValues(paymentKindGoldLoan).Inc()
		amount, _ := payment.AmountPaise.Rupees().Float64()
		uc.metrics.PaymentAmount.WithLabelValues(paymentKindGoldLoan).Observe(amount)
	}

	return payment, view, nil
}

func (uc *GoldLoanUseCase) addPayment(ctx context.Context, input AddLoanPaymentInput) (*domain.GoldLoanPayment, *LoanView, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(txCtx)

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, input.LoanID)
	if err != nil {
		return nil, nil, err
	}

	asOf := uc.now()
	payment, err := domain.ApplyPayment(loan, domain.PaymentSplit{
		ID:             uc.idGen.Generate(),
		Type:           input.Type,
		AmountPaise:    input.AmountPaise,
		PrincipalPaise: input.PrincipalPaise,
		InterestPaise:  input.InterestPaise,
		PaymentMethod:  input.PaymentMethod,
		PaymentDate:    input.PaymentDate,
		Note:           input.Note,
	}, asOf)
	if err != nil {
		return nil, nil, err
	}

	if err := uc.loanRepo.AddPayment(txCtx, tx, payment); err != nil {
		return nil, nil, err
	}

	if err := uc.loanRepo.UpdateStatus(txCtx, tx, loan.ID, loan.Status, loan.UpdatedAt); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	view, err := viewLoan(loan, asOf)
	if err != nil {
		return nil, nil, err
	}

	return payment, view, nil
}

// InterestStatement is the interest position of a loan on a given day.
type InterestStatement struct {
	LoanID               string
	AsOf                 time.Time
	ElapsedMonths        int
	OutstandingPrincipal domain.Paise
	AccruedInterest      domain.Paise
	InterestPaid         domain.Paise
	PendingInterest      domain.Paise
}

// GetInterest computes the interest position of a loan. A zero asOf means now.
func (uc *GoldLoanUseCase) GetInterest(ctx context.Context, id string, asOf time.Time) (*InterestStatement, error) {
	if asOf.IsZero() {
		asOf = uc.now()
	}

	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view, err := viewLoan(loan, asOf)
	if err != nil {
		return nil, err
	}

	return &InterestStatement{
		LoanID:               loan.ID,
		AsOf:                 asOf,
		ElapsedMonths:        domain.ElapsedMonths(loan.StartDate, asOf),
		OutstandingPrincipal: view.Outstanding.OutstandingPaise,
		AccruedInterest:      view.AccruedInterest,
		InterestPaid:         loan.InterestPaid(),
		PendingInterest:      view.PendingInterest,
	}, nil
}
