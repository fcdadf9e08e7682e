package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scan metrics
	scanCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scalp_bot_scan_cycles_total",
			Help: "Total number of completed analysis cycles",
		},
	)

	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scalp_bot_scan_duration_seconds",
			Help:    "Duration of one full analysis cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Signal metrics
	entrySignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalp_bot_entry_signals_total",
			Help: "Total number of entry signals emitted",
		},
		[]string{"symbol", "direction"},
	)

	signalStrength = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scalp_bot_signal_strength",
			Help:    "Distribution of emitted signal strengths",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7},
		},
		[]string{"direction"},
	)

	exitSignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalp_bot_exit_signals_total",
			Help: "Total number of exit signals emitted",
		},
		[]string{"symbol", "type"},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scalp_bot_current_price",
			Help: "Latest observed price per symbol",
		},
		[]string{"symbol"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalp_bot_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(scanCyclesTotal)
	prometheus.MustRegister(scanDuration)
	prometheus.MustRegister(entrySignalsTotal)
	prometheus.MustRegister(signalStrength)
	prometheus.MustRegister(exitSignalsTotal)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordScanCycle records a completed analysis cycle and its duration.
func RecordScanCycle(seconds float64) {
	scanCyclesTotal.Inc()
	scanDuration.Observe(seconds)
}

// RecordEntrySignal records an emitted entry signal.
func RecordEntrySignal(symbol, direction string, strength int) {
	entrySignalsTotal.WithLabelValues(symbol, direction).Inc()
	signalStrength.WithLabelValues(direction).Observe(float64(strength))
}

// RecordExitSignal records an emitted exit signal.
func RecordExitSignal(symbol, exitType string) {
	exitSignalsTotal.WithLabelValues(symbol, exitType).Inc()
}

// UpdatePrice updates the latest price gauge for a symbol.
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error by type (api, telegram, analysis).
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
