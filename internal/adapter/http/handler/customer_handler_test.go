package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

func TestCustomerHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"created", `{"name":"Ravi Kumar","phone":"9876543210"}`, nil, http.StatusCreated},
		{"missing name", `{"phone":"9876543210"}`, nil, http.StatusBadRequest},
		{"bad email", `{"name":"Ravi","email":"not-an-email"}`, nil, http.StatusBadRequest},
		{"malformed json", `{"name":`, nil, http.StatusBadRequest},
		{"duplicate phone", `{"name":"Ravi","phone":"9876543210"}`, domain.ErrDuplicateCustomer, http.StatusConflict},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := NewCustomerHandler(&customerServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &domain.Customer{ID: "c1", Name: input.Name, Status: domain.CustomerStatusActive}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCustomerHandler_List_PassesQuery(t *testing.T) {
	var captured usecase.ListCustomersInput
	h := NewCustomerHandler(&customerServiceStub{
		listFn: func(ctx context.Context, input usecase.ListCustomersInput) (*usecase.CustomerPage, error) {
			captured = input
			return &usecase.CustomerPage{Items: []*domain.Customer{{ID: "c1", Name: "Ravi"}}, Total: 1, Page: 2, Limit: 10}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/customers?search=ravi&status=active&page=2&limit=10", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Search != "ravi" || captured.Status != domain.CustomerStatusActive || captured.Page != 2 || captured.Limit != 10 {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestCustomerHandler_GetNotFound(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Customer, error) {
			return nil, domain.ErrCustomerNotFound
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/customers/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCustomerHandler_Update_Partial(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateCustomerInput) (*domain.Customer, error) {
			if input.Name != nil || input.Phone != nil {
				t.Fatalf("expected only status to change, got %+v", input)
			}
			return &domain.Customer{ID: id, Name: "Ravi", Status: *input.Status}, nil
		},
	})

	req := withURLParams(
		httptest.NewRequest(http.MethodPut, "/api/customers/c1", bytes.NewBufferString(`{"status":"inactive"}`)),
		"id", "c1",
	)
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCustomerHandler_Delete(t *testing.T) {
	var deleted string
	h := NewCustomerHandler(&customerServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/customers/c1", nil), "id", "c1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusOK || deleted != "c1" {
		t.Fatalf("expected c1 deleted with 200, got %d (%q)", rec.Code, deleted)
	}
}

func TestCustomerHandler_Ledger(t *testing.T) {
	h := NewCustomerHandler(&customerServiceStub{
		ledgerFn: func(ctx context.Context, id string) (*usecase.CustomerLedger, error) {
			return &usecase.CustomerLedger{
				Customer: &domain.Customer{ID: id, Name: "Ravi"},
				Udhari:   []usecase.EntryBalance{},
				Loans:    []*usecase.LoanView{},
				Summary:  domain.CustomerSummary{CustomerID: id},
			}, nil
		},
	})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/customers/c1/ledger", nil), "id", "c1")
	rec := httptest.NewRecorder()

	h.Ledger(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]any)
	if data["customer"].(map[string]any)["id"] != "c1" {
		t.Fatalf("unexpected ledger %v", data)
	}
}
