package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks scan liveness and venue connectivity and serves
// the result as a JSON health endpoint.
type HealthChecker struct {
	mu             sync.RWMutex
	lastScan       time.Time
	monitoredPairs int
	openPositions  int
	isConnected    bool
	errors         []string

	// staleAfter marks the bot degraded when no scan completes in time.
	staleAfter time.Duration
}

type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	LastScan       time.Time `json:"last_scan"`
	MonitoredPairs int       `json:"monitored_pairs"`
	OpenPositions  int       `json:"open_positions"`
	IsConnected    bool      `json:"is_connected"`
	Uptime         string    `json:"uptime"`
	Errors         []string  `json:"errors,omitempty"`
}

func NewHealthChecker(staleAfter time.Duration) *HealthChecker {
	if staleAfter <= 0 {
		staleAfter = 5 * time.Minute
	}
	return &HealthChecker{
		errors:     make([]string, 0),
		staleAfter: staleAfter,
	}
}

// RecordScan marks a completed analysis cycle.
func (h *HealthChecker) RecordScan(monitoredPairs, openPositions int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastScan = time.Now()
	h.monitoredPairs = monitoredPairs
	h.openPositions = openPositions
	h.errors = h.errors[:0]
}

// SetConnected updates the venue connectivity flag.
func (h *HealthChecker) SetConnected(connected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isConnected = connected
}

// AddError records an error surfaced at the next health check.
func (h *HealthChecker) AddError(err string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err)
	if len(h.errors) > 10 {
		h.errors = h.errors[len(h.errors)-10:]
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if !h.isConnected || time.Since(h.lastScan) > h.staleAfter {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:         status,
		Timestamp:      time.Now(),
		LastScan:       h.lastScan,
		MonitoredPairs: h.monitoredPairs,
		OpenPositions:  h.openPositions,
		IsConnected:    h.isConnected,
		Uptime:         time.Since(startTime).String(),
		Errors:         h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
