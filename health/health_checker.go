// Package health reports whether the interaction service looks usable,
// based on the results of the periodic probe.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/interactions-checker/interfaces"
)

// staleProbes is how many intervals may pass without a success before the
// service is considered down
const staleProbes = 3

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store    interfaces.StatusStore
	interval time.Duration
	now      func() time.Time
}

// NewHealthChecker creates a health checker for probes run every interval
func NewHealthChecker(store interfaces.StatusStore, interval time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// HealthCheck returns the status, its details and the HTTP status for /health
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	now := h.now()
	lastProbe := h.store.GetLastProbe()
	lastSuccess := h.store.GetLastSuccess()
	reachable := h.store.IsReachable()
	window := staleProbes * h.interval

	sinceSuccess := now.Sub(lastSuccess)
	fresh := !lastProbe.IsZero() && now.Sub(lastProbe) <= window

	switch {
	case lastSuccess.IsZero():
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case reachable && fresh:
		status = "healthy"
		httpStatus = http.StatusOK

	case sinceSuccess <= window:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	data = map[string]any{
		"reachable":            reachable,
		"consecutive_failures": h.store.ConsecutiveFailures(),
		"latency_ms":           h.store.GetLatency().Milliseconds(),
		"next_probe":           h.CalculateNextProbe().Format(time.RFC3339),
	}

	if !lastProbe.IsZero() {
		data["last_probe"] = lastProbe.Format(time.RFC3339)
	}
	if !lastSuccess.IsZero() {
		data["last_success"] = lastSuccess.Format(time.RFC3339)
		data["minutes_since_success"] = math.Round(sinceSuccess.Minutes()*10) / 10
	}
	if msg := h.store.GetLastError(); msg != "" {
		data["last_error"] = msg
	}
	if start := h.store.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = int64(now.Sub(start).Seconds())
	}

	return status, data, httpStatus
}

// CalculateNextProbe returns the next scheduled probe time
func (h *HealthCheckerImpl) CalculateNextProbe() time.Time {
	now := h.now()
	lastProbe := h.store.GetLastProbe()
	if lastProbe.IsZero() {
		return now
	}

	next := lastProbe.Add(h.interval)
	if next.Before(now) {
		return now
	}
	return next
}
