package entities

import (
	"fmt"
	"strings"
)

// ValidationResult is the outcome of one validation step
type ValidationResult struct {
	OK               bool
	NotFound         []string
	ConditionMissing bool
	LimitExceeded    bool
	Message          string
	Err              error
}

// Valid is a passing validation
func Valid() ValidationResult {
	return ValidationResult{OK: true}
}

// NamesNotFound reports names the service did not recognise. noun is
// "drugs" or "medications" and ends up in the user facing message.
func NamesNotFound(noun string, names []string) ValidationResult {
	return ValidationResult{
		NotFound: names,
		Message:  fmt.Sprintf("The following %s were not found: %s", noun, strings.Join(names, ", ")),
	}
}

// ConditionNotFound reports a condition without any match
func ConditionNotFound() ValidationResult {
	return ValidationResult{
		ConditionMissing: true,
		Message:          "Condition not found.",
	}
}

// ListTooLong reports a medication list over MaxMedications entries
func ListTooLong(noun string) ValidationResult {
	return ValidationResult{
		LimitExceeded: true,
		Message:       fmt.Sprintf("You cannot enter more than %d %s.", MaxMedications, noun),
	}
}

// Unavailable reports a validation that could not reach the service
func Unavailable(err error) ValidationResult {
	return ValidationResult{Err: err}
}

// Outcome is the terminal state of one interaction check
type Outcome string

const (
	OutcomeRejected       Outcome = "rejected"
	OutcomeInvalid        Outcome = "invalid"
	OutcomeUnavailable    Outcome = "unavailable"
	OutcomeFailed         Outcome = "failed"
	OutcomeNoInteractions Outcome = "no_interactions"
	OutcomeInteractions   Outcome = "interactions"
)

// Succeeded reports whether the run reached the interaction results
func (o Outcome) Succeeded() bool {
	return o == OutcomeNoInteractions || o == OutcomeInteractions
}
