package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/pawnledger/internal/adapter/http/dto"
	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

type priceProviderStub struct {
	quote *domain.PriceQuote
}

func (s *priceProviderStub) GetCurrentPrices(ctx context.Context) (*domain.PriceQuote, error) {
	return s.quote, nil
}

type dashboardStub struct {
	fn func(ctx context.Context) (*usecase.Dashboard, error)
}

func (s *dashboardStub) Dashboard(ctx context.Context) (*usecase.Dashboard, error) {
	return s.fn(ctx)
}

func TestTransactionHandler_Create(t *testing.T) {
	var captured usecase.CreateTransactionInput
	h := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			captured = input
			return &domain.Transaction{
				ID:               "t1",
				CustomerID:       input.CustomerID,
				Type:             input.Type,
				AmountPaise:      input.AmountPaise,
				Purity:           domain.Purity22K,
				RatePerGramPaise: 660000,
			}, nil
		},
	})

	body := `{"customer":"c1","type":"gold_sale","amountPaise":6600000,"metalWeightGrams":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.MetalWeightGrams.Valid || captured.MetalWeightGrams.Decimal.String() != "10" {
		t.Fatalf("expected weight to be passed through, got %+v", captured.MetalWeightGrams)
	}

	var env struct {
		Data dto.TransactionResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Data.AmountRupees != "66000.00" || env.Data.RatePerGramPaise != 660000 {
		t.Fatalf("unexpected response %+v", env.Data)
	}
}

func TestTransactionHandler_Create_UnknownType(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/transactions",
		bytes.NewBufferString(`{"customer":"c1","type":"barter","amountPaise":100}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_List_ParsesRange(t *testing.T) {
	var captured usecase.ListTransactionsInput
	h := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
			captured = input
			return []*domain.Transaction{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?customer=c1&type=repayment&from=2024-01-01&to=2024-01-31&limit=5", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.CustomerID != "c1" || captured.Type != domain.TransactionRepayment || captured.Limit != 5 {
		t.Fatalf("unexpected input %+v", captured)
	}
	if !captured.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || captured.To.IsZero() {
		t.Fatalf("unexpected range %s - %s", captured.From, captured.To)
	}
}

func TestExpenseHandler_CreateAndPay(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*domain.BusinessExpense, error) {
			return &domain.BusinessExpense{
				ID:            "e1",
				Category:      input.Category,
				GrossPaise:    input.GrossPaise,
				TaxPaise:      input.TaxPaise,
				NetPaise:      input.GrossPaise - input.TaxPaise,
				PaymentStatus: domain.ExpenseStatusPending,
			}, nil
		},
		payFn: func(ctx context.Context, id string) (*domain.BusinessExpense, error) {
			return &domain.BusinessExpense{ID: id, Category: "rent", PaymentStatus: domain.ExpenseStatusPaid}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/expenses",
		bytes.NewBufferString(`{"category":"rent","grossPaise":1180000,"taxPaise":180000}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data dto.ExpenseResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Data.NetPaise != 1000000 || created.Data.NetRupees != "10000.00" {
		t.Fatalf("unexpected expense %+v", created.Data)
	}

	req = withURLParams(httptest.NewRequest(http.MethodPost, "/api/expenses/e1/pay", nil), "id", "e1")
	rec = httptest.NewRecorder()
	h.Pay(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestExpenseHandler_DeleteMissing(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrExpenseNotFound
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/expenses/x", nil), "id", "x")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExpenseHandler_Summary_InvalidStatus(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		summaryFn: func(ctx context.Context, input usecase.ListExpensesInput) (domain.ExpenseSummary, error) {
			if input.Status != "overdue" {
				t.Fatalf("expected status to be passed through, got %q", input.Status)
			}
			return domain.ExpenseSummary{}, domain.ErrInvalidStatus
		},
	})

	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/expenses/summary?status=overdue", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSummaryHandler_CurrentPrices(t *testing.T) {
	h := NewSummaryHandler(nil, &priceProviderStub{quote: &domain.PriceQuote{
		Gold:        domain.MetalRates{Rates: domain.ScaleByPurity(720000, domain.GoldPurities)},
		Silver:      domain.MetalRates{Rates: domain.ScaleByPurity(9000, domain.SilverPurities)},
		LastUpdated: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Source:      domain.QuoteSourceFallback,
	}})

	rec := httptest.NewRecorder()
	h.CurrentPrices(rec, httptest.NewRequest(http.MethodGet, "/api/prices/current", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Data dto.PriceQuoteResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Data.Source != "fallback" || len(env.Data.Gold) != 4 || env.Data.Gold[0].PerGramPaise != 720000 {
		t.Fatalf("unexpected quote %+v", env.Data)
	}
}

func TestSummaryHandler_Dashboard(t *testing.T) {
	h := NewSummaryHandler(&dashboardStub{fn: func(ctx context.Context) (*usecase.Dashboard, error) {
		return &usecase.Dashboard{
			Udhari: domain.BusinessSummary{TotalToCollect: 300000, TotalToPay: 100000, NetPosition: 200000},
			GoldLoans: usecase.GoldLoanTotals{
				ActiveCount:          1,
				OutstandingPrincipal: 100000,
				PendingInterest:      4000,
			},
		}, nil
	}}, nil)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Data dto.DashboardResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Data.Udhari.NetPosition.Rupees != "2000.00" || env.Data.GoldLoans.PendingInterest.Paise != 4000 {
		t.Fatalf("unexpected dashboard %+v", env.Data)
	}
}

func TestHealthHandler(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		postgres   Pinger
		redis      Pinger
		wantStatus int
	}{
		{"all up", ok, ok, http.StatusOK},
		{"redis optional", ok, nil, http.StatusOK},
		{"postgres down", down, ok, http.StatusServiceUnavailable},
		{"redis down", ok, down, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.postgres, tt.redis)

			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}

	rec := httptest.NewRecorder()
	NewHealthHandler(nil, nil).Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected liveness 200, got %d", rec.Code)
	}
}
