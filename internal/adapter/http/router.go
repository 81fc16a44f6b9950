package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/pawnledger/internal/adapter/http/handler"
	"github.com/iho/pawnledger/internal/adapter/http/middleware"
	"github.com/iho/pawnledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CustomerHandler    *handler.CustomerHandler
	UdhariHandler      *handler.UdhariHandler
	GoldLoanHandler    *handler.GoldLoanHandler
	TransactionHandler *handler.TransactionHandler
	ExpenseHandler     *handler.ExpenseHandler
	SummaryHandler     *handler.SummaryHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Logger           *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	if cfg.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(*cfg.Logger).Wrap)
	}
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.CustomerHandler.Create)
			r.Get("/", cfg.CustomerHandler.List)
			r.Get("/{id}", cfg.CustomerHandler.Get)
			r.Put("/{id}", cfg.CustomerHandler.Update)
			r.Delete("/{id}", cfg.CustomerHandler.Delete)
			r.Get("/{id}/ledger", cfg.CustomerHandler.Ledger)
		})

		// Udhari
		r.Route("/udhari", func(r chi.Router) {
			r.Post("/give", cfg.UdhariHandler.Give)
			r.Post("/take", cfg.UdhariHandler.Take)
			r.Post("/receive-payment", cfg.UdhariHandler.ReceivePayment)
			r.Post("/make-payment", cfg.UdhariHandler.MakePayment)
			r.Get("/outstanding-to-collect", cfg.UdhariHandler.OutstandingToCollect)
			r.Get("/outstanding-to-pay", cfg.UdhariHandler.OutstandingToPay)
			r.Get("/summary", cfg.UdhariHandler.Summary)
			r.Get("/customer/{customerId}", cfg.UdhariHandler.ListByCustomer)
			r.Get("/{id}", cfg.UdhariHandler.Get)
			r.Patch("/{id}", cfg.UdhariHandler.Update)
			r.Get("/{id}/payments", cfg.UdhariHandler.ListPayments)
		})

		// Gold loans
		r.Route("/gold-loans", func(r chi.Router) {
			r.Post("/", cfg.GoldLoanHandler.Create)
			r.Get("/", cfg.GoldLoanHandler.List)
			r.Post("/reconcile", cfg.GoldLoanHandler.Reconcile)
			r.Get("/{id}", cfg.GoldLoanHandler.Get)
			r.Post("/{id}/payments", cfg.GoldLoanHandler.AddPayment)
			r.Get("/{id}/interest", cfg.GoldLoanHandler.Interest)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
		})

		// Expenses
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.ExpenseHandler.Create)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Get("/summary", cfg.ExpenseHandler.Summary)
			r.Post("/{id}/pay", cfg.ExpenseHandler.Pay)
			r.Delete("/{id}", cfg.ExpenseHandler.Delete)
		})

		r.Get("/prices/current", cfg.SummaryHandler.CurrentPrices)
		r.Get("/dashboard", cfg.SummaryHandler.Dashboard)
	})

	return r
}
