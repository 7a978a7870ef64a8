// Package scheduler runs the periodic probe of the interaction service and
// records each result in the status store used by /health.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/interactions-checker/interfaces"
	"github.com/giygas/interactions-checker/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	probeTimeout = 10 * time.Second
	// failureWarnThreshold is the number of failed probes in a row that gets a warning
	failureWarnThreshold = 3
)

// Scheduler probes the interaction service on a fixed interval
type Scheduler struct {
	store     interfaces.StatusStore
	prober    interfaces.Prober
	interval  int // minutes
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler probing every intervalMinutes
func NewScheduler(store interfaces.StatusStore, prober interfaces.Prober, intervalMinutes int) *Scheduler {
	return &Scheduler{
		store:     store,
		prober:    prober,
		interval:  intervalMinutes,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start probes once, then schedules the periodic probe.
// A failed initial probe is recorded but does not stop the scheduler.
func (s *Scheduler) Start() error {
	if s.interval < 1 {
		return fmt.Errorf("invalid probe interval: %d minutes", s.interval)
	}

	s.probe()

	_, err := s.scheduler.Every(s.interval).Minutes().WaitForSchedule().Do(s.probe)
	if err != nil {
		logging.Error("Failed to schedule probes", "error", err)
		return fmt.Errorf("failed to schedule probes: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Probe scheduler started", "interval_minutes", s.interval)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// probe runs one probe and records its outcome
func (s *Scheduler) probe() {
	if !s.store.BeginProbe() {
		logging.Info("Probe already in progress, skipping...")
		return
	}
	defer s.store.EndProbe()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	start := time.Now()
	err := s.prober.Probe(ctx)
	latency := time.Since(start)

	s.store.RecordProbe(start, latency, err)

	if err != nil {
		failures := s.store.ConsecutiveFailures()
		if failures >= failureWarnThreshold {
			logging.Warn("Interaction service unreachable",
				"consecutive_failures", failures,
				"last_success", s.store.GetLastSuccess().Format(time.RFC3339),
				"error", err,
			)
		} else {
			logging.Info("Probe failed", "error", err, "consecutive_failures", failures)
		}
		return
	}

	logging.Debug("Probe succeeded", "latency_ms", latency.Milliseconds())
}
