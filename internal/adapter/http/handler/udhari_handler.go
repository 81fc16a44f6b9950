package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/pawnledger/internal/adapter/http/dto"
	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

// UdhariHandler handles udhari entries and their payments.
type UdhariHandler struct {
	udhariUC UdhariService
}

// NewUdhariHandler creates a new UdhariHandler.
func NewUdhariHandler(udhariUC UdhariService) *UdhariHandler {
	return &UdhariHandler{udhariUC: udhariUC}
}

// Give records money the shop handed to a customer.
func (h *UdhariHandler) Give(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.udhariUC.GiveUdhari)
}

// Take records money a customer handed to the shop.
func (h *UdhariHandler) Take(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.udhariUC.TakeUdhari)
}

func (h *UdhariHandler) create(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, usecase.CreateUdhariInput) (*domain.UdhariEntry, error),
) {
	var req dto.CreateUdhariRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	entry, err := fn(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.UdhariFromDomain(entry))
}

// Get returns an entry with its balance.
func (h *UdhariHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.udhariUC.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.EntryBalanceFromUseCase(*view))
}

// Update applies an administrative correction to an entry.
func (h *UdhariHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUdhariRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	entry, err := h.udhariUC.UpdateEntry(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.UdhariFromDomain(entry))
}

// ListByCustomer lists a customer's entries with balances and summary.
func (h *UdhariHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	views, summary, err := h.udhariUC.ListByCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.CustomerUdhariResponse{
		Entries: dto.EntryBalancesFromUseCase(views),
		Summary: dto.CustomerSummaryFromDomain(summary),
	})
}

// ListPayments lists the payments recorded against an entry.
func (h *UdhariHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.udhariUC.ListPayments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.PaymentsFromDomain(payments))
}

// ReceivePayment records money a customer paid back.
func (h *UdhariHandler) ReceivePayment(w http.ResponseWriter, r *http.Request) {
	h.recordPayment(w, r, h.udhariUC.ReceivePayment)
}

// MakePayment records money the shop paid back.
func (h *UdhariHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	h.recordPayment(w, r, h.udhariUC.MakePayment)
}

func (h *UdhariHandler) recordPayment(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, usecase.RecordPaymentInput) (*usecase.PaymentResult, error),
) {
	var req dto.RecordPaymentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := fn(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.PaymentResultFromUseCase(result))
}

// OutstandingToCollect lists customers who still owe the shop.
func (h *UdhariHandler) OutstandingToCollect(w http.ResponseWriter, r *http.Request) {
	h.outstanding(w, r, h.udhariUC.OutstandingToCollect)
}

// OutstandingToPay lists customers the shop still owes.
func (h *UdhariHandler) OutstandingToPay(w http.ResponseWriter, r *http.Request) {
	h.outstanding(w, r, h.udhariUC.OutstandingToPay)
}

func (h *UdhariHandler) outstanding(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context) (*usecase.OutstandingReport, error),
) {
	report, err := fn(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.OutstandingReportFromUseCase(report))
}

// Summary returns the shop-wide udhari position.
func (h *UdhariHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.udhariUC.Summary(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.BusinessSummaryFromDomain(summary))
}
