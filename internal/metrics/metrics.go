package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecommendRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vecindario_recommend_runs_total",
		Help: "Total recommendation runs",
	})
	RecommendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vecindario_recommend_errors_total",
		Help: "Recommendation runs that failed as a whole",
	})
	RecommendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vecindario_recommend_duration_seconds",
		Help:    "Recommendation run duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	SignalFetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vecindario_signals_fetch_failures_total",
		Help: "Per-neighborhood signal fetches that fell back to zero values",
	}, []string{"reason"})
	SignalRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vecindario_signals_retries_total",
		Help: "Total signals API retry attempts",
	}, []string{"endpoint"})
	SignalCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vecindario_signals_cache_total",
		Help: "Signal cache lookups by result",
	}, []string{"result"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vecindario_command_runs_total",
		Help: "CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vecindario_command_errors_total",
		Help: "CLI command failures",
	}, []string{"command"})
	BreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vecindario_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"name"})
)

func init() {
	prometheus.MustRegister(RecommendRuns, RecommendErrors, RecommendDuration,
		SignalFetchFailures, SignalRetries, SignalCache, CommandRuns, CommandErrors, BreakerState)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

// ObserveRecommendDuration records a run duration.
func ObserveRecommendDuration(start time.Time) {
	RecommendDuration.Observe(time.Since(start).Seconds())
}

// IncSignalRetry increments the retry counter for an endpoint.
func IncSignalRetry(endpoint string) { SignalRetries.WithLabelValues(endpoint).Inc() }

// IncSignalFailure counts a zero-value fallback.
func IncSignalFailure(reason string) { SignalFetchFailures.WithLabelValues(reason).Inc() }

// IncCommandRun counts a CLI command invocation.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError counts a failed CLI command.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
