// Package checker validates a submission against the interaction service and
// renders the interaction results onto a surface.
package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/giygas/interactions-checker/entities"
	"github.com/giygas/interactions-checker/interfaces"
	"github.com/giygas/interactions-checker/logging"
	"github.com/giygas/interactions-checker/metrics"
)

// Checker runs the validation sequence and the final interaction lookup.
// A Checker is bound to one surface; create one per submission.
type Checker struct {
	service interfaces.InteractionService
	surface interfaces.Surface
}

// New creates a checker writing to surface
func New(service interfaces.InteractionService, surface interfaces.Surface) *Checker {
	return &Checker{
		service: service,
		surface: surface,
	}
}

// CheckDrugExists reports whether every name in drugs is known to the service.
// Unknown names open the error modal.
func (c *Checker) CheckDrugExists(ctx context.Context, drugs []string) bool {
	return c.apply(c.validateNames(ctx, "drugs", drugs))
}

// CheckConditionExists reports whether the service knows a condition close to condition
func (c *Checker) CheckConditionExists(ctx context.Context, condition string) bool {
	return c.apply(c.validateCondition(ctx, condition))
}

// CheckMedicationsExist splits the raw medications input and validates every entry
func (c *Checker) CheckMedicationsExist(ctx context.Context, medicationsInput string) bool {
	list := entities.SplitMedications(medicationsInput)
	if result := checkLimit(list, "medications"); !result.OK {
		return c.apply(result)
	}
	return c.apply(c.validateNames(ctx, "medications", list))
}

// CheckDrugInteraction validates the three inputs in order, stopping at the
// first failure, then fetches and renders the interactions.
func (c *Checker) CheckDrugInteraction(ctx context.Context, in entities.Inputs) entities.Outcome {
	outcome := c.run(ctx, in)
	metrics.CheckOutcomes.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (c *Checker) run(ctx context.Context, in entities.Inputs) entities.Outcome {
	drug := strings.TrimSpace(in.Drug)
	list := entities.SplitMedications(in.Medications)

	// The limit is checked once here; the steps below never repeat it.
	steps := []func() entities.ValidationResult{
		func() entities.ValidationResult { return checkLimit(list, "drugs") },
		func() entities.ValidationResult { return c.validateNames(ctx, "drugs", list) },
		func() entities.ValidationResult { return c.validateCondition(ctx, in.Condition) },
		func() entities.ValidationResult { return c.validateNames(ctx, "medications", list) },
	}
	for _, step := range steps {
		result := step()
		if !c.apply(result) {
			return outcomeOf(result)
		}
	}

	c.surface.SetLoading()

	resp, err := c.service.CheckDrugInteractions(ctx, entities.InteractionRequest{
		Drugs:          list.Join(),
		PrescribedDrug: drug,
	})
	if err != nil {
		logging.Error("Interaction check failed", "prescribed_drug", drug, "error", err)
		c.surface.ShowFailure(fmt.Sprintf("Failed to fetch data: %s", err.Error()))
		return entities.OutcomeFailed
	}

	if len(resp.Interactions) == 0 {
		c.surface.ShowNoInteractions()
		return entities.OutcomeNoInteractions
	}

	c.surface.ShowInteractions(resp.Interactions)
	return entities.OutcomeInteractions
}

func checkLimit(list entities.MedicationList, noun string) entities.ValidationResult {
	if list.Exceeds(entities.MaxMedications) {
		return entities.ListTooLong(noun)
	}
	return entities.Valid()
}

// validateNames is the single not-found path shared by the drug and medication checks
func (c *Checker) validateNames(ctx context.Context, noun string, names []string) entities.ValidationResult {
	resp, err := c.service.ProcessCurrentMeds(ctx, names)
	if err != nil {
		return entities.Unavailable(fmt.Errorf("validating %s: %w", noun, err))
	}
	if len(resp.NotFoundDrugs) > 0 {
		return entities.NamesNotFound(noun, resp.NotFoundDrugs)
	}
	return entities.Valid()
}

func (c *Checker) validateCondition(ctx context.Context, condition string) entities.ValidationResult {
	matches, err := c.service.SearchConditions(ctx, condition)
	if err != nil {
		// The service answers 400 to an empty input; that is a missing condition, not an outage.
		var upstreamErr *entities.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.IsBadRequest() {
			return entities.ConditionNotFound()
		}
		return entities.Unavailable(fmt.Errorf("validating condition: %w", err))
	}
	if !matches.Found() {
		return entities.ConditionNotFound()
	}
	return entities.Valid()
}

// apply renders a failed result on the surface and reports whether it passed
func (c *Checker) apply(result entities.ValidationResult) bool {
	switch {
	case result.OK:
		return true
	case result.LimitExceeded:
		c.surface.Alert(result.Message)
	case result.Err != nil:
		logging.Error("Validation could not complete", "error", result.Err)
	default:
		c.surface.ShowError(result.Message)
	}
	return false
}

func outcomeOf(result entities.ValidationResult) entities.Outcome {
	switch {
	case result.LimitExceeded:
		return entities.OutcomeRejected
	case result.Err != nil:
		return entities.OutcomeUnavailable
	default:
		return entities.OutcomeInvalid
	}
}
