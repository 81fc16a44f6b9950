package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/pawnledger/internal/domain"
)

// TransactionUseCase handles plain business transaction records.
type TransactionUseCase struct {
	txnRepo      TransactionRepository
	customerRepo CustomerRepository
	prices       PriceProvider
	idGen        IDGenerator
}

// NewTransactionUseCase creates a new TransactionUseCase. prices may be nil.
func NewTransactionUseCase(
	txnRepo TransactionRepository,
	customerRepo CustomerRepository,
	prices PriceProvider,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txnRepo:      txnRepo,
		customerRepo: customerRepo,
		prices:       prices,
		idGen:        idGen,
	}
}

// CreateTransactionInput represents input for recording a transaction.
type CreateTransactionInput struct {
	CustomerID       string
	LoanID           *string
	Type             domain.TransactionType
	AmountPaise      domain.Paise
	Date             time.Time
	Description      string
	ReceiptNumber    string
	MetalWeightGrams decimal.NullDecimal
	Purity           domain.Purity
	RatePerGramPaise domain.Paise
}

// Create records a transaction. Metal sales without a rate get the current per-gram price.
func (uc *TransactionUseCase) Create(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:               uc.idGen.Generate(),
		CustomerID:       strings.TrimSpace(input.CustomerID),
		LoanID:           input.LoanID,
		Type:             input.Type,
		AmountPaise:      input.AmountPaise,
		Date:             input.Date,
		Description:      input.Description,
		ReceiptNumber:    input.ReceiptNumber,
		MetalWeightGrams: input.MetalWeightGrams,
		Purity:           input.Purity,
		RatePerGramPaise: input.RatePerGramPaise,
		CreatedAt:        now,
	}
	if txn.Date.IsZero() {
		txn.Date = now
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.customerRepo.GetByID(ctx, txn.CustomerID); err != nil {
		return nil, err
	}

	if txn.NeedsRate() {
		uc.prefillRate(ctx, txn)
	}

	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

func (uc *TransactionUseCase) prefillRate(ctx context.Context, txn *domain.Transaction) {
	if uc.prices == nil {
		return
	}

	quote, err := uc.prices.GetCurrentPrices(ctx)
	if err != nil {
		log.Warn().Err(err).Str("transaction_id", txn.ID).Msg("price lookup failed, storing sale without rate")
		return
	}

	purity := txn.DefaultPurity()
	if rate, ok := quote.RateFor(purity); ok {
		txn.Purity = purity
		txn.RatePerGramPaise = rate
	}
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	CustomerID string
	Type       domain.TransactionType
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// ListTransactions lists transactions newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if input.Type != "" && !input.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if input.Limit <= 0 {
		input.Limit = domain.DefaultPageSize
	}
	if input.Limit > domain.MaxPageSize {
		input.Limit = domain.MaxPageSize
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	return uc.txnRepo.List(ctx, TransactionFilter{
		CustomerID: input.CustomerID,
		Type:       input.Type,
		From:       input.From,
		To:         input.To,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
}
