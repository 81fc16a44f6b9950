package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawnledger_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pawnledger_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pawnledger_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		},
	)
)

// Metrics records request counts and latency labelled by route.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := routeLabel(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routeLabel prefers the matched chi pattern and falls back to normalizePath when the
// request was not routed through chi or matched nothing.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && !strings.HasSuffix(pattern, "/*") {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

// resources whose second path segment is an ID.
var idResources = map[string]bool{
	"customers":    true,
	"udhari":       true,
	"gold-loans":   true,
	"transactions": true,
	"expenses":     true,
}

// fixedSegments are route names that sit where an ID would.
var fixedSegments = map[string]bool{
	"give":                   true,
	"take":                   true,
	"receive-payment":        true,
	"make-payment":           true,
	"outstanding-to-collect": true,
	"outstanding-to-pay":     true,
	"summary":                true,
	"customer":               true,
	"reconcile":              true,
}

// normalizePath normalizes URL paths to avoid high cardinality.
// /api/gold-loans/01ABC123/payments -> /api/gold-loans/:id/payments
// /api/udhari/customer/01ABC123 -> /api/udhari/customer/:id
func normalizePath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "api" || !idResources[parts[1]] {
		return path
	}

	switch {
	case parts[2] == "customer" && len(parts) > 3 && parts[3] != "":
		parts[3] = ":id"
	case parts[2] != "" && !fixedSegments[parts[2]]:
		parts[2] = ":id"
	}

	return "/" + strings.Join(parts, "/")
}
