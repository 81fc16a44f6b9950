package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
	"github.com/iho/pawnledger/internal/usecase/mocks"
)

func testQuote() *domain.PriceQuote {
	return &domain.PriceQuote{
		Gold:        domain.MetalRates{Rates: domain.ScaleByPurity(720000, domain.GoldPurities)},
		Silver:      domain.MetalRates{Rates: domain.ScaleByPurity(9000, domain.SilverPurities)},
		LastUpdated: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Source:      domain.QuoteSourceLive,
	}
}

func TestTransactionUseCase_CreatePrefillsSaleRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prices := mocks.NewMockPriceProvider(ctrl)
	prices.EXPECT().GetCurrentPrices(gomock.Any()).Return(testQuote(), nil)

	repo := mocks.NewMockTransactionRepository()
	customers := mocks.NewMockCustomerRepository(&domain.Customer{ID: "c1", Name: "Anil"})
	uc := usecase.NewTransactionUseCase(repo, customers, prices, mocks.NewMockIDGenerator())

	txn, err := uc.Create(context.Background(), usecase.CreateTransactionInput{
		CustomerID:       "c1",
		Type:             domain.TransactionGoldSale,
		AmountPaise:      6600000,
		MetalWeightGrams: decimal.NewNullDecimal(decimal.NewFromInt(10)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.Purity != domain.Purity22K {
		t.Errorf("expected default 22K purity, got %s", txn.Purity)
	}
	if txn.RatePerGramPaise != 660000 {
		t.Errorf("expected 22K rate 660000, got %d", txn.RatePerGramPaise)
	}
}

func TestTransactionUseCase_CreateKeepsExplicitRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no price lookup is expected
	prices := mocks.NewMockPriceProvider(ctrl)

	repo := mocks.NewMockTransactionRepository()
	customers := mocks.NewMockCustomerRepository(&domain.Customer{ID: "c1", Name: "Anil"})
	uc := usecase.NewTransactionUseCase(repo, customers, prices, mocks.NewMockIDGenerator())

	txn, err := uc.Create(context.Background(), usecase.CreateTransactionInput{
		CustomerID:       "c1",
		Type:             domain.TransactionSilverSale,
		AmountPaise:      45000,
		Purity:           domain.PuritySterlingSilver,
		RatePerGramPaise: 8800,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.RatePerGramPaise != 8800 {
		t.Errorf("expected explicit rate to be kept, got %d", txn.RatePerGramPaise)
	}
}

func TestTransactionUseCase_CreateSurvivesPriceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prices := mocks.NewMockPriceProvider(ctrl)
	prices.EXPECT().GetCurrentPrices(gomock.Any()).Return(nil, domain.ErrUpstreamUnavailable)

	repo := mocks.NewMockTransactionRepository()
	customers := mocks.NewMockCustomerRepository(&domain.Customer{ID: "c1", Name: "Anil"})
	uc := usecase.NewTransactionUseCase(repo, customers, prices, mocks.NewMockIDGenerator())

	txn, err := uc.Create(context.Background(), usecase.CreateTransactionInput{
		CustomerID:  "c1",
		Type:        domain.TransactionSilverSale,
		AmountPaise: 45000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.RatePerGramPaise != 0 {
		t.Errorf("expected no rate, got %d", txn.RatePerGramPaise)
	}

	stored, err := uc.GetTransaction(context.Background(), txn.ID)
	if err != nil || stored.ID != txn.ID {
		t.Errorf("expected transaction to be stored, got %v / %v", stored, err)
	}
}

func TestTransactionUseCase_CreateValidation(t *testing.T) {
	customers := mocks.NewMockCustomerRepository(&domain.Customer{ID: "c1", Name: "Anil"})
	uc := usecase.NewTransactionUseCase(mocks.NewMockTransactionRepository(), customers, nil, mocks.NewMockIDGenerator())

	tests := []struct {
		name      string
		input     usecase.CreateTransactionInput
		errorType error
	}{
		{"unknown type", usecase.CreateTransactionInput{CustomerID: "c1", Type: "barter", AmountPaise: 1}, domain.ErrInvalidTransactionType},
		{"zero amount", usecase.CreateTransactionInput{CustomerID: "c1", Type: domain.TransactionRepayment}, domain.ErrInvalidAmount},
		{"unknown customer", usecase.CreateTransactionInput{CustomerID: "c9", Type: domain.TransactionRepayment, AmountPaise: 1}, domain.ErrCustomerNotFound},
		{"karat purity on silver", usecase.CreateTransactionInput{CustomerID: "c1", Type: domain.TransactionSilverSale, AmountPaise: 1, Purity: domain.Purity18K}, domain.ErrInvalidPurity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.input)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected error %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestTransactionUseCase_ListTransactions(t *testing.T) {
	repo := mocks.NewMockTransactionRepository()
	var got usecase.TransactionFilter
	repo.ListFunc = func(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
		got = filter
		return nil, nil
	}

	uc := usecase.NewTransactionUseCase(repo, mocks.NewMockCustomerRepository(), nil, mocks.NewMockIDGenerator())

	if _, err := uc.ListTransactions(context.Background(), usecase.ListTransactionsInput{Limit: 1000, Offset: -5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Limit != domain.MaxPageSize || got.Offset != 0 {
		t.Errorf("expected clamped pagination, got limit=%d offset=%d", got.Limit, got.Offset)
	}

	if _, err := uc.ListTransactions(context.Background(), usecase.ListTransactionsInput{Type: "gift"}); !errors.Is(err, domain.ErrInvalidTransactionType) {
		t.Errorf("expected ErrInvalidTransactionType, got %v", err)
	}
}
