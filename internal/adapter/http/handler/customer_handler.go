package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/pawnledger/internal/adapter/http/dto"
	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

// CustomerHandler handles customer-related HTTP requests.
type CustomerHandler struct {
	customerUC CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerUC CustomerService) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC}
}

// Create registers a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	customer, err := h.customerUC.CreateCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.CustomerFromDomain(customer))
}

// Get retrieves a customer by ID.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerUC.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// List lists customers with optional search, status filter and paging.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := h.customerUC.ListCustomers(r.Context(), usecase.ListCustomersInput{
		Search: q.Get("search"),
		Status: domain.CustomerStatus(q.Get("status")),
		Page:   parseIntQuery(r, "page", 1),
		Limit:  parseIntQuery(r, "limit", domain.DefaultPageSize),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.CustomerPageFromUseCase(page))
}

// Update applies a partial update to a customer.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCustomerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	customer, err := h.customerUC.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// Delete removes a customer and everything recorded against them.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.customerUC.DeleteCustomer(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"id": id})
}

// Ledger returns the customer's udhari entries and gold loans with balances.
func (h *CustomerHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.customerUC.GetCustomerLedger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.CustomerLedgerFromUseCase(ledger))
}
