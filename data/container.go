// Package data keeps the state of the interaction service as seen by the
// periodic probe. All access is lock-free so health checks never wait on a probe.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/interactions-checker/interfaces"
	"github.com/giygas/interactions-checker/logging"
)

// Compile-time check to ensure StatusContainer implements StatusStore
var _ interfaces.StatusStore = (*StatusContainer)(nil)

// StatusContainer holds the last probe result with atomic fields
type StatusContainer struct {
	lastProbe           atomic.Value // time.Time
	lastSuccess         atomic.Value // time.Time
	lastError           atomic.Value // string
	latency             atomic.Int64 // nanoseconds
	reachable           atomic.Bool
	consecutiveFailures atomic.Int64
	probing             atomic.Bool
	serverStartTime     atomic.Value // time.Time
}

// NewStatusContainer creates a container that has never probed
func NewStatusContainer() *StatusContainer {
	sc := &StatusContainer{}
	sc.lastProbe.Store(time.Time{})
	sc.lastSuccess.Store(time.Time{})
	sc.lastError.Store("")
	sc.serverStartTime.Store(time.Time{})
	return sc
}

// RecordProbe stores the outcome of one probe. A nil err marks the service reachable.
func (sc *StatusContainer) RecordProbe(at time.Time, latency time.Duration, err error) {
	sc.lastProbe.Store(at)
	sc.latency.Store(int64(latency))

	if err != nil {
		sc.reachable.Store(false)
		sc.lastError.Store(err.Error())
		sc.consecutiveFailures.Add(1)
		return
	}

	sc.reachable.Store(true)
	sc.lastSuccess.Store(at)
	sc.lastError.Store("")
	sc.consecutiveFailures.Store(0)
}

// GetLastProbe returns when the service was last probed, zero if never
func (sc *StatusContainer) GetLastProbe() time.Time {
	return loadTime(&sc.lastProbe, "last probe")
}

// GetLastSuccess returns when the service last answered, zero if never
func (sc *StatusContainer) GetLastSuccess() time.Time {
	return loadTime(&sc.lastSuccess, "last success")
}

// GetLastError returns the error of the last probe, empty after a success
func (sc *StatusContainer) GetLastError() string {
	if v, ok := sc.lastError.Load().(string); ok {
		return v
	}
	return ""
}

func (sc *StatusContainer) GetLatency() time.Duration {
	return time.Duration(sc.latency.Load())
}

func (sc *StatusContainer) IsReachable() bool {
	return sc.reachable.Load()
}

func (sc *StatusContainer) ConsecutiveFailures() int64 {
	return sc.consecutiveFailures.Load()
}

// SetServerStartTime sets the server start time
func (sc *StatusContainer) SetServerStartTime(startTime time.Time) {
	sc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (sc *StatusContainer) GetServerStartTime() time.Time {
	return loadTime(&sc.serverStartTime, "server start time")
}

// BeginProbe marks the start of a probe
// Returns true if the probe can proceed, false if another probe is in progress
func (sc *StatusContainer) BeginProbe() bool {
	return sc.probing.CompareAndSwap(false, true)
}

// EndProbe marks the end of a probe
func (sc *StatusContainer) EndProbe() {
	sc.probing.Store(false)
}

// IsProbing returns true while a probe is in flight
func (sc *StatusContainer) IsProbing() bool {
	return sc.probing.Load()
}

func loadTime(v *atomic.Value, name string) time.Time {
	if t, ok := v.Load().(time.Time); ok {
		return t
	}

	logging.Warn("Could not get the " + name + " value")
	return time.Time{}
}
