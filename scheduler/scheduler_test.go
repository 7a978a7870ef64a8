package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/giygas/interactions-checker/config"
	"github.com/giygas/interactions-checker/data"
	"github.com/giygas/interactions-checker/logging"
)

// fakeProber returns the queued errors in order, then nil
type fakeProber struct {
	mu     sync.Mutex
	calls  int
	errs   []error
	block  chan struct{}
	hasCtx bool
}

func (f *fakeProber) Probe(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	_, f.hasCtx = ctx.Deadline()
	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return err
}

func (f *fakeProber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStartRunsInitialProbe(t *testing.T) {
	logging.InitLogger("")

	store := data.NewStatusContainer()
	prober := &fakeProber{}
	s := NewScheduler(store, prober, 5)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if prober.Calls() != 1 {
		t.Errorf("expected 1 initial probe, got %d", prober.Calls())
	}
	if !store.IsReachable() {
		t.Error("expected store to be reachable after a successful probe")
	}
	if !prober.hasCtx {
		t.Error("expected the probe context to carry a deadline")
	}
}

func TestStartSurvivesFailedInitialProbe(t *testing.T) {
	logging.InitLogger("")

	store := data.NewStatusContainer()
	s := NewScheduler(store, &fakeProber{errs: []error{errors.New("connection refused")}}, 5)

	if err := s.Start(); err != nil {
		t.Fatalf("Start should not fail on an unreachable service: %v", err)
	}
	defer s.Stop()

	if store.IsReachable() {
		t.Error("expected store to be unreachable")
	}
	if store.GetLastError() != "connection refused" {
		t.Errorf("unexpected last error %q", store.GetLastError())
	}
}

func TestStartRejectsInvalidInterval(t *testing.T) {
	s := NewScheduler(data.NewStatusContainer(), &fakeProber{}, 0)
	if err := s.Start(); err == nil {
		t.Error("expected an error for a zero interval")
	}
}

func TestProbeWarnsAfterRepeatedFailures(t *testing.T) {
	var out strings.Builder
	logging.InitLoggerWithConfig(logging.Options{Env: config.EnvDevelopment, Level: "info", Console: &out})
	defer logging.InitLogger("")

	down := errors.New("status 503")
	store := data.NewStatusContainer()
	s := NewScheduler(store, &fakeProber{errs: []error{down, down, down}}, 5)

	s.probe()
	s.probe()
	if strings.Contains(out.String(), "Interaction service unreachable") {
		t.Fatalf("warned too early: %s", out.String())
	}

	s.probe()
	if !strings.Contains(out.String(), "Interaction service unreachable") {
		t.Errorf("expected a warning after 3 failures, got: %s", out.String())
	}
	if store.ConsecutiveFailures() != 3 {
		t.Errorf("expected 3 failures, got %d", store.ConsecutiveFailures())
	}

	s.probe()
	if store.ConsecutiveFailures() != 0 || !store.IsReachable() {
		t.Error("expected a success to reset the failure count")
	}
}

func TestProbeSkipsWhileInProgress(t *testing.T) {
	logging.InitLogger("")

	store := data.NewStatusContainer()
	prober := &fakeProber{block: make(chan struct{})}
	s := NewScheduler(store, prober, 5)

	done := make(chan struct{})
	go func() {
		s.probe()
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for prober.Calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	s.probe()
	close(prober.block)
	<-done

	if prober.Calls() != 1 {
		t.Errorf("expected overlapping probe to be skipped, got %d calls", prober.Calls())
	}
	if store.IsProbing() {
		t.Error("expected probing flag to be cleared")
	}
}
