package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/pawnledger/internal/adapter/http/dto"
	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

// GoldLoanHandler handles gold loan HTTP requests.
type GoldLoanHandler struct {
	loanUC     GoldLoanService
	reconciler LoanReconciler
}

// NewGoldLoanHandler creates a new GoldLoanHandler. reconciler may be nil.
func NewGoldLoanHandler(loanUC GoldLoanService, reconciler LoanReconciler) *GoldLoanHandler {
	return &GoldLoanHandler{loanUC: loanUC, reconciler: reconciler}
}

// Create opens a gold loan.
func (h *GoldLoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGoldLoanRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.GoldLoanFromDomain(loan))
}

// Get returns a loan with its balance and interest as of now.
func (h *GoldLoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.loanUC.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.LoanViewFromUseCase(view))
}

// List lists loans by customer and stored status.
func (h *GoldLoanHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	views, err := h.loanUC.ListLoans(r.Context(), usecase.ListGoldLoansInput{
		CustomerID: q.Get("customer"),
		Status:     domain.GoldLoanStatus(q.Get("status")),
		Page:       parseIntQuery(r, "page", 1),
		Limit:      parseIntQuery(r, "limit", domain.DefaultPageSize),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.LoanViewsFromUseCase(views))
}

// AddPayment records a payment against a loan.
func (h *GoldLoanHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanPaymentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	payment, view, err := h.loanUC.AddPayment(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.LoanPaymentResultResponse{
		Payment: dto.LoanPaymentFromDomain(payment),
		Loan:    dto.LoanViewFromUseCase(view),
	})
}

// Interest returns the interest position of a loan, optionally as of ?asOf=YYYY-MM-DD.
func (h *GoldLoanHandler) Interest(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateQuery(r, "asOf")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	statement, err := h.loanUC.GetInterest(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.InterestStatementFromUseCase(statement))
}

// Reconcile repairs stale stored statuses of all loans.
func (h *GoldLoanHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if h.reconciler == nil {
		writeError(w, http.StatusNotImplemented, "reconciliation is not configured")
		return
	}

	report, err := h.reconciler.ReconcileAllLoans(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}
