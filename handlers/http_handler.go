// Package handlers provides the HTTP handlers of the checker front end.
// Every check owns its surface, so concurrent requests never share output.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/giygas/interactions-checker/checker"
	"github.com/giygas/interactions-checker/entities"
	"github.com/giygas/interactions-checker/interfaces"
	"github.com/giygas/interactions-checker/logging"
	"github.com/giygas/interactions-checker/surface"
	"github.com/go-playground/validator/v10"
)

// OutcomeHeader carries the outcome of a form check
const OutcomeHeader = "X-Check-Outcome"

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	service  interfaces.InteractionService
	health   interfaces.HealthChecker
	validate *validator.Validate
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(service interfaces.InteractionService, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		service:  service,
		health:   health,
		validate: validator.New(),
	}
}

// CheckRequest is the JSON body of /api/check. Field lengths are bounded
// because the service has no use for longer names.
type CheckRequest struct {
	Drug        string `json:"drug" validate:"max=1000"`
	Condition   string `json:"condition" validate:"max=1000"`
	Medications string `json:"medications" validate:"max=1000"`
}

// CheckResponse is the state both surfaces reached, plus the outcome
type CheckResponse struct {
	Outcome entities.Outcome `json:"outcome"`
	surface.Snapshot
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status   string         `json:"status"`
	Upstream map[string]any `json:"upstream"`
	System   map[string]any `json:"system"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// Index serves the empty form
func (h *HTTPHandlerImpl) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, surface.NewPage("/check", entities.Inputs{}))
}

// CheckForm runs one check from the submitted form and renders the page with
// the error modal, alert and results it produced.
func (h *HTTPHandlerImpl) CheckForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logging.Warn("Unreadable form", "error", err)
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	in := entities.Inputs{
		Drug:        r.PostForm.Get("drug"),
		Condition:   r.PostForm.Get("condition"),
		Medications: r.PostForm.Get("medications"),
	}
	if err := h.validateInputs(in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page := surface.NewPage("/check", in)
	outcome := h.run(r, page, in)

	w.Header().Set(OutcomeHeader, string(outcome))
	h.renderPage(w, page)
}

// CheckAPI runs one check from a JSON body and answers with the surface state
func (h *HTTPHandlerImpl) CheckAPI(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.Warn("Unreadable check request", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, "Request body must be a JSON object with drug, condition and medications")
		return
	}

	in := entities.Inputs{Drug: req.Drug, Condition: req.Condition, Medications: req.Medications}
	if err := h.validateInputs(in); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	recorder := surface.NewRecorder()
	outcome := h.run(r, recorder, in)

	h.RespondWithJSON(w, statusForOutcome(outcome), CheckResponse{
		Outcome:  outcome,
		Snapshot: recorder.Snapshot(),
	})
}

// HealthCheck reports the upstream status seen by the probe
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, details, httpStatus := h.health.HealthCheck()

	h.RespondWithJSON(w, httpStatus, HealthResponse{
		Status:   status,
		Upstream: details,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	})
}

func (h *HTTPHandlerImpl) run(r *http.Request, out interfaces.Surface, in entities.Inputs) entities.Outcome {
	start := time.Now()
	outcome := checker.New(h.service, out).CheckDrugInteraction(r.Context(), in)

	logging.Info("Interaction check finished",
		"outcome", outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return outcome
}

func (h *HTTPHandlerImpl) validateInputs(in entities.Inputs) error {
	req := CheckRequest{Drug: in.Drug, Condition: in.Condition, Medications: in.Medications}
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		logging.Warn("Unusual user input", "field", fieldErrs[0].Field(), "length", len(fieldErrs[0].Value().(string)))
		return errors.New(fieldErrs[0].Field() + " must be at most " + fieldErrs[0].Param() + " characters")
	}
	return err
}

// renderPage buffers the document so a template error never sends half a page
func (h *HTTPHandlerImpl) renderPage(w http.ResponseWriter, page *surface.Page) {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		logging.Error("Failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func statusForOutcome(outcome entities.Outcome) int {
	switch outcome {
	case entities.OutcomeRejected, entities.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case entities.OutcomeUnavailable:
		return http.StatusServiceUnavailable
	case entities.OutcomeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}
