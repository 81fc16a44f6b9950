package handler

import (
	"net/http"

	"github.com/iho/pawnledger/internal/adapter/http/dto"
	"github.com/iho/pawnledger/internal/usecase"
)

// SummaryHandler serves the dashboard and current metal prices.
type SummaryHandler struct {
	dashboard DashboardService
	prices    usecase.PriceProvider
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(dashboard DashboardService, prices usecase.PriceProvider) *SummaryHandler {
	return &SummaryHandler{dashboard: dashboard, prices: prices}
}

// Dashboard returns the business overview.
func (h *SummaryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.DashboardFromUseCase(d))
}

// CurrentPrices returns per-gram gold and silver prices.
func (h *SummaryHandler) CurrentPrices(w http.ResponseWriter, r *http.Request) {
	quote, err := h.prices.GetCurrentPrices(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.PriceQuoteFromDomain(quote))
}
