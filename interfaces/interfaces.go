// Package interfaces defines core abstractions for the interaction checker
// to keep the orchestration testable without a real service or page.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/interactions-checker/entities"
)

// InteractionService defines the contract of the external interaction API.
// Every method performs exactly one HTTP call.
type InteractionService interface {
	// ProcessCurrentMeds resolves names against the drug database
	ProcessCurrentMeds(ctx context.Context, drugs []string) (*entities.CurrentMedsResponse, error)

	// SearchConditions returns the closest known condition, if any
	SearchConditions(ctx context.Context, input string) (entities.ConditionMatches, error)

	// CheckDrugInteractions returns interactions between the prescribed drug and the medications
	CheckDrugInteractions(ctx context.Context, req entities.InteractionRequest) (*entities.InteractionResponse, error)
}

// Surface is where a check renders its user facing output.
// The error modal and the results area are separate: validation failures
// go to the modal, everything about the final call goes to the results.
type Surface interface {
	// ShowError opens the error modal with message
	ShowError(message string)

	// Alert shows a blocking notice before any network call
	Alert(message string)

	// SetLoading replaces the results area with a loading indicator
	SetLoading()

	// ShowNoInteractions replaces the results area with the empty message
	ShowNoInteractions()

	// ShowInteractions replaces the results area with one block per record, in order
	ShowInteractions(records []entities.InteractionRecord)

	// ShowFailure replaces the results area with an inline failure message
	ShowFailure(message string)
}

// StatusStore defines the contract for the upstream probe state.
type StatusStore interface {
	RecordProbe(at time.Time, latency time.Duration, err error)
	GetLastProbe() time.Time
	GetLastSuccess() time.Time
	GetLastError() string
	GetLatency() time.Duration
	IsReachable() bool
	ConsecutiveFailures() int64
	GetServerStartTime() time.Time

	BeginProbe() bool
	EndProbe()
}

// Prober performs one cheap call against the external service
type Prober interface {
	Probe(ctx context.Context) error
}

// Scheduler defines the contract for periodic upstream probing.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current status, details and the HTTP status to answer with
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextProbe returns the next scheduled probe time
	CalculateNextProbe() time.Time
}

// HTTPHandler defines the contract for the web front end handlers.
type HTTPHandler interface {
	// Index serves the empty form
	Index(w http.ResponseWriter, r *http.Request)

	// CheckForm runs a check from a form submission and answers with the page
	CheckForm(w http.ResponseWriter, r *http.Request)

	// CheckAPI runs a check from a JSON body and answers with the surface state
	CheckAPI(w http.ResponseWriter, r *http.Request)

	HealthCheck(w http.ResponseWriter, r *http.Request)
}
