package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Customer metrics
	CustomersCreated prometheus.Counter

	// Udhari metrics
	UdhariCreated    *prometheus.CounterVec
	PaymentsRecorded *prometheus.CounterVec
	PaymentAmount    *prometheus.HistogramVec
	PaymentErrors    *prometheus.CounterVec

	// Gold loan metrics
	GoldLoansCreated prometheus.Counter
	LoansReconciled  *prometheus.CounterVec

	// Price metrics
	PriceQuotes      *prometheus.CounterVec
	PriceUpstreamDur prometheus.Histogram

	// Lock metrics
	LockFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		CustomersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnledger_customers_created_total",
			Help: "Total number of customers created",
		}),

		UdhariCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_udhari_created_total",
				Help: "Total number of udhari entries created by direction",
			},
			[]string{"direction"},
		),
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_payments_recorded_total",
				Help: "Total number of payments recorded by kind",
			},
			[]string{"kind"},
		),
		PaymentAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pawnledger_payment_amount_rupees",
				Help:    "Payment amounts in rupees",
				Buckets: []float64{100, 1000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"kind"},
		),
		PaymentErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_payment_errors_total",
				Help: "Total number of rejected payments by kind",
			},
			[]string{"kind"},
		),

		GoldLoansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pawnledger_gold_loans_created_total",
			Help: "Total number of gold loans created",
		}),
		LoansReconciled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_gold_loans_reconciled_total",
				Help: "Gold loans whose stored status was repaired, by new status",
			},
			[]string{"status"},
		),

		PriceQuotes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_price_quotes_total",
				Help: "Price quotes served by source",
			},
			[]string{"source"},
		),
		PriceUpstreamDur: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pawnledger_price_upstream_duration_seconds",
			Help:    "Duration of upstream price fetches",
			Buckets: prometheus.DefBuckets,
		}),

		LockFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_lock_failures_total",
				Help: "Payment lock failures by reason",
			},
			[]string{"reason"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pawnledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),
	}
}
