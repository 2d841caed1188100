package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus metrics exposed during long fetch or
// backtest runs. All methods are safe on a nil receiver, so callers can
// treat metrics as strictly optional.
type Registry struct {
	registry *prometheus.Registry

	analysesTotal    *prometheus.CounterVec
	backtestDays     prometheus.Counter
	backtestDuration prometheus.Histogram
	fetchRequests    *prometheus.CounterVec
	watchlistSize    prometheus.Gauge
}

// NewRegistry creates a registry with all metrics registered, including
// the Go runtime collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		registry: reg,

		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fathom_analyses_total",
				Help: "Stock analyses performed, by outcome",
			},
			[]string{"outcome"},
		),

		backtestDays: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fathom_backtest_days_total",
				Help: "Trading days simulated across backtest runs",
			},
		),

		backtestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fathom_backtest_duration_seconds",
				Help:    "Wall-clock duration of backtest runs",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),

		fetchRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fathom_fetch_requests_total",
				Help: "Data provider HTTP requests, by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		watchlistSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fathom_watchlist_size",
				Help: "Number of stocks on the configured watchlist",
			},
		),
	}

	reg.MustRegister(
		r.analysesTotal,
		r.backtestDays,
		r.backtestDuration,
		r.fetchRequests,
		r.watchlistSize,
	)

	return r
}

// Handler returns an HTTP handler serving the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IncAnalysis counts one stock analysis with the given outcome ("ok" or
// "error").
func (r *Registry) IncAnalysis(outcome string) {
	if r == nil {
		return
	}
	r.analysesTotal.WithLabelValues(outcome).Inc()
}

// AddBacktestDay counts one simulated trading day.
func (r *Registry) AddBacktestDay() {
	if r == nil {
		return
	}
	r.backtestDays.Inc()
}

// ObserveBacktestDuration records a completed run's duration in seconds.
func (r *Registry) ObserveBacktestDuration(seconds float64) {
	if r == nil {
		return
	}
	r.backtestDuration.Observe(seconds)
}

// IncFetch counts one data provider request.
func (r *Registry) IncFetch(endpoint, status string) {
	if r == nil {
		return
	}
	r.fetchRequests.WithLabelValues(endpoint, status).Inc()
}

// SetWatchlistSize records the configured universe size.
func (r *Registry) SetWatchlistSize(n int) {
	if r == nil {
		return
	}
	r.watchlistSize.Set(float64(n))
}
