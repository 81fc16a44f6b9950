package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/pawnledger/internal/adapter/http/dto"
	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

// ExpenseHandler handles business expenses.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// Create records an expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	expense, err := h.expenseUC.CreateExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// List lists expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	input, ok := expenseFilter(w, r)
	if !ok {
		return
	}

	expenses, err := h.expenseUC.ListExpenses(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.ExpensesFromDomain(expenses))
}

// Pay marks an expense as paid.
func (h *ExpenseHandler) Pay(w http.ResponseWriter, r *http.Request) {
	expense, err := h.expenseUC.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// Delete removes an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.expenseUC.DeleteExpense(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"id": id})
}

// Summary totals the expenses matching the filter.
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	input, ok := expenseFilter(w, r)
	if !ok {
		return
	}

	summary, err := h.expenseUC.Summary(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.ExpenseSummaryFromDomain(summary))
}

func expenseFilter(w http.ResponseWriter, r *http.Request) (usecase.ListExpensesInput, bool) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return usecase.ListExpensesInput{}, false
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return usecase.ListExpensesInput{}, false
	}

	q := r.URL.Query()
	return usecase.ListExpensesInput{
		Category: q.Get("category"),
		Status:   domain.ExpenseStatus(q.Get("status")),
		From:     from,
		To:       to,
		Limit:    parseIntQuery(r, "limit", domain.DefaultPageSize),
		Offset:   parseIntQuery(r, "offset", 0),
	}, true
}
