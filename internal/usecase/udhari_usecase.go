package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/infrastructure/metrics"
)

// UdhariUseCase handles informal credit entries and their payments.
type UdhariUseCase struct {
	udhariRepo   UdhariRepository
	paymentRepo  PaymentRepository
	customerRepo CustomerRepository
	locker       Locker
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewUdhariUseCase creates a new UdhariUseCase. locker may be nil.
func NewUdhariUseCase(
	udhariRepo UdhariRepository,
	paymentRepo PaymentRepository,
	customerRepo CustomerRepository,
	locker Locker,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *UdhariUseCase {
	return &UdhariUseCase{
		udhariRepo:   udhariRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		locker:       locker,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// CreateUdhariInput represents input for recording an udhari entry.
type CreateUdhariInput struct {
	CustomerID     string
	Kind           string
	PrincipalPaise domain.Paise
	InterestPaise  domain.Paise
	TakenDate      time.Time
	ReturnDate     *time.Time
	Note           string
}

// GiveUdhari records money the shop handed to a customer.
func (uc *UdhariUseCase) GiveUdhari(ctx context.Context, input CreateUdhariInput) (*domain.UdhariEntry, error) {
	return uc.create(ctx, input, domain.DirectionReceivable)
}

// TakeUdhari records money a customer handed to the shop.
func (uc *UdhariUseCase) TakeUdhari(ctx context.Context, input CreateUdhariInput) (*domain.UdhariEntry, error) {
	return uc.create(ctx, input, domain.DirectionPayable)
}

func (uc *UdhariUseCase) create(ctx context.Context, input CreateUdhariInput, direction domain.Direction) (*domain.UdhariEntry, error) {
	now := time.Now().UTC()

	entry := &domain.UdhariEntry{
		ID:             uc.idGen.Generate(),
		CustomerID:     strings.TrimSpace(input.CustomerID),
		Kind:           input.Kind,
		PrincipalPaise: input.PrincipalPaise,
		InterestPaise:  input.InterestPaise,
		Direction:      direction,
		TakenDate:      input.TakenDate,
		ReturnDate:     input.ReturnDate,
		Note:           input.Note,
		CreatedAt:      now,
	}
	if entry.TakenDate.IsZero() {
		entry.TakenDate = now
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, entry.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := uc.udhariRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if _, err := syncCounters(ctx, uc.customerRepo, uc.udhariRepo, customer, now); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		label := "receivable"
		if direction == domain.DirectionPayable {
			label = "payable"
		}
		uc.metrics.UdhariCreated.WithLabelValues(label).Inc()
	}

	return entry, nil
}

// GetEntry returns an entry with its current balance.
func (uc *UdhariUseCase) GetEntry(ctx context.Context, id string) (*EntryBalance, error) {
	entry, err := uc.udhariRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	views, _, err := balanceEntries(ctx, uc.paymentRepo, []*domain.UdhariEntry{entry})
	if err != nil {
		return nil, err
	}

	return &views[0], nil
}

// ListByCustomer returns every entry of a customer with balances and the customer summary.
func (uc *UdhariUseCase) ListByCustomer(ctx context.Context, customerID string) ([]EntryBalance, domain.CustomerSummary, error) {
	entries, err := uc.udhariRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, domain.CustomerSummary{}, err
	}

	views, balances, err := balanceEntries(ctx, uc.paymentRepo, entries)
	if err != nil {
		return nil, domain.CustomerSummary{}, err
	}

	return views, domain.SummarizeCustomer(customerID, balances), nil
}

// UpdateUdhariInput is an administrative correction. Amounts and direction cannot change.
type UpdateUdhariInput struct {
	Kind       *string
	Note       *string
	ReturnDate *time.Time
}

// UpdateEntry applies an administrative correction to an entry.
func (uc *UdhariUseCase) UpdateEntry(ctx context.Context, id string, input UpdateUdhariInput) (*domain.UdhariEntry, error) {
	entry, err := uc.udhariRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Kind != nil {
		entry.Kind = strings.TrimSpace(*input.Kind)
	}
	if input.Note != nil {
		entry.Note = *input.Note
	}
	if input.ReturnDate != nil {
		entry.ReturnDate = input.ReturnDate
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.udhariRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// RecordPaymentInput represents a settlement against an udhari entry.
type RecordPaymentInput struct {
	CustomerID     string
	SourceRef      string
	PrincipalPaise domain.Paise
	PaymentMethod  domain.PaymentMethod
	PaymentDate    time.Time
	Reference      string
	Note           string
}

// PaymentResult is a recorded payment with the source balance after it.
type PaymentResult struct {
	Payment     *domain.Payment
	Outstanding domain.Outstanding
}

// ReceivePayment records money the customer paid back against a receivable entry.
func (uc *UdhariUseCase) ReceivePayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	return uc.recordPayment(ctx, input, domain.DirectionReceivable, paymentKindReceive)
}

// MakePayment records money the shop paid back against a payable entry.
func (uc *UdhariUseCase) MakePayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	return uc.recordPayment(ctx, input, domain.DirectionPayable, paymentKindMake)
}

func (uc *UdhariUseCase) recordPayment(
	ctx context.Context,
	input RecordPaymentInput,
	direction domain.Direction,
	kind string,
) (*PaymentResult, error) {
	now := time.Now().UTC()

	payment := &domain.Payment{
		CustomerID:     strings.TrimSpace(input.CustomerID),
		SourceRef:      strings.TrimSpace(input.SourceRef),
		PrincipalPaise: input.PrincipalPaise,
		PaymentMethod:  input.PaymentMethod,
		PaymentDate:    input.PaymentDate,
		Reference:      input.Reference,
		Note:           input.Note,
		CreatedAt:      now,
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = now
	}

	result, err := uc.storePayment(ctx, payment, direction)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.PaymentErrors.WithLabelValues(kind).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.WithLabelValues(kind).Inc()
		amount, _ := payment.PrincipalPaise.Rupees().Float64()
		uc.metrics.PaymentAmount.WithLabelValues(kind).Observe(amount)
	}

	return result, nil
}

func (uc *UdhariUseCase) storePayment(ctx context.Context, payment *domain.Payment, direction domain.Direction) (*PaymentResult, error) {
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	var result *PaymentResult
	err := withPaymentLock(ctx, uc.locker, uc.metrics, payment.SourceRef, func() error {
		source, err := uc.udhariRepo.GetByID(ctx, payment.SourceRef)
		if err != nil {
			return err
		}
		if source.CustomerID != payment.CustomerID {
			return domain.ErrCustomerMismatch
		}
		if source.Direction != direction {
			return domain.ErrWrongPaymentSide
		}

		payment.ID = uc.idGen.Generate()
		if err := uc.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		existing, err := uc.paymentRepo.ListBySource(ctx, source.ID)
		if err != nil {
			return err
		}

		settlements := make([]domain.Payment, len(existing))
		for i, p := range existing {
			settlements[i] = *p
		}

		out, err := domain.ComputeOutstanding(source.Instrument(), settlements)
		if err != nil {
			return err
		}

		result = &PaymentResult{Payment: payment, Outstanding: out}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListPayments returns the payments recorded against an entry, oldest first.
func (uc *UdhariUseCase) ListPayments(ctx context.Context, sourceRef string) ([]*domain.Payment, error) {
	if _, err := uc.udhariRepo.GetByID(ctx, sourceRef); err != nil {
		return nil, err
	}
	return uc.paymentRepo.ListBySource(ctx, sourceRef)
}

// CustomerOutstanding is one row of an outstanding report.
type CustomerOutstanding struct {
	CustomerID       string
	CustomerName     string
	OutstandingPaise domain.Paise
	OriginalPaise    domain.Paise
	EntryCount       int
}

// OutstandingReport lists customers with an open balance on one side of the book.
type OutstandingReport struct {
	CustomerWise []CustomerOutstanding
	TotalPaise   domain.Paise
}

// OutstandingToCollect lists customers who still owe the shop.
func (uc *UdhariUseCase) OutstandingToCollect(ctx context.Context) (*OutstandingReport, error) {
	return uc.outstanding(ctx, domain.DirectionReceivable)
}

// OutstandingToPay lists customers the shop still owes.
func (uc *UdhariUseCase) OutstandingToPay(ctx context.Context) (*OutstandingReport, error) {
	return uc.outstanding(ctx, domain.DirectionPayable)
}

func (uc *UdhariUseCase) outstanding(ctx context.Context, direction domain.Direction) (*OutstandingReport, error) {
	entries, err := uc.udhariRepo.ListByDirection(ctx, direction)
	if err != nil {
		return nil, err
	}

	_, balances, err := balanceEntries(ctx, uc.paymentRepo, entries)
	if err != nil {
		return nil, err
	}

	report := &OutstandingReport{CustomerWise: []CustomerOutstanding{}}
	for _, s := range domain.SummarizeByCustomer(balances) {
		group := s.Receivable
		if direction == domain.DirectionPayable {
			group = s.Payable
		}
		if group.TotalOutstanding == 0 {
			continue
		}

		row := CustomerOutstanding{
			CustomerID:       s.CustomerID,
			OutstandingPaise: group.TotalOutstanding,
			OriginalPaise:    group.TotalOriginal,
			EntryCount:       group.InstrumentCount,
		}
		if c, err := uc.customerRepo.GetByID(ctx, s.CustomerID); err == nil {
			row.CustomerName = c.Name
		}

		report.CustomerWise = append(report.CustomerWise, row)
		report.TotalPaise += group.TotalOutstanding
	}

	return report, nil
}

// Summary returns the business-wide udhari position.
func (uc *UdhariUseCase) Summary(ctx context.Context) (domain.BusinessSummary, error) {
	entries, err := uc.udhariRepo.ListByDirection(ctx, 0)
	if err != nil {
		return domain.BusinessSummary{}, err
	}

	_, balances, err := balanceEntries(ctx, uc.paymentRepo, entries)
	if err != nil {
		return domain.BusinessSummary{}, err
	}

	return domain.SummarizeBusiness(domain.SummarizeByCustomer(balances)), nil
}
