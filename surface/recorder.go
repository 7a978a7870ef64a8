package surface

import (
	"sync"

	"github.com/giygas/interactions-checker/entities"
	"github.com/giygas/interactions-checker/interfaces"
)

var _ interfaces.Surface = (*Recorder)(nil)

// Recorder keeps the final state of both areas plus every call made on it
type Recorder struct {
	mu      sync.Mutex
	modal   ErrorModal
	alert   string
	results Results
	calls   []string
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{results: Results{State: ResultsEmpty}}
}

// Snapshot is the JSON view of a recorder
type Snapshot struct {
	Error   ErrorModal `json:"error"`
	Alert   string     `json:"alert,omitempty"`
	Results Results    `json:"results"`
}

func (r *Recorder) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "ShowError")
	r.modal.Show(message)
}

func (r *Recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "Alert")
	r.alert = message
}

func (r *Recorder) SetLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "SetLoading")
	r.results.setLoading()
}

func (r *Recorder) ShowNoInteractions() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "ShowNoInteractions")
	r.results.setNoInteractions()
}

func (r *Recorder) ShowInteractions(records []entities.InteractionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "ShowInteractions")
	r.results.setInteractions(records)
}

func (r *Recorder) ShowFailure(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "ShowFailure")
	r.results.setFailure(message)
}

// Calls returns the surface methods invoked so far, in order
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Snapshot returns the current state of both areas
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := r.results
	results.Interactions = append([]entities.InteractionRecord(nil), r.results.Interactions...)
	return Snapshot{
		Error:   r.modal,
		Alert:   r.alert,
		Results: results,
	}
}
