package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/content-gateway/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Access router

	AccessDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "access_decisions_total",
		Help:      "Access router outcomes, by action and rule.",
	}, []string{"action", "reason"})

	// CSRF

	CSRFOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "csrf_operations_total",
		Help:      "CSRF issue/verify calls, by outcome.",
	}, []string{"operation", "outcome"})

	// Rate limiting

	RateLimitDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "ratelimit_decisions_total",
		Help:      "Rate limiter outcomes: allowed, limited, error.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gateway",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gateway",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		AccessDecisionsTotal,
		CSRFOperationsTotal,
		RateLimitDecisionsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// RegisterStoreKeys exports the number of live keys in the in-memory limiter store.
func RegisterStoreKeys(reg prometheus.Registerer, keys func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "gateway",
		Name:      "ratelimit_store_keys",
		Help:      "Live keys held by the in-memory rate limit store.",
	}, func() float64 { return float64(keys()) }))
}

// NewServer serves /metrics plus the liveness and readiness probes.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, res health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if res.Status != health.StatusUp {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(res)
}
