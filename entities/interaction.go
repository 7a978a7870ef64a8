// Package entities holds the request-scoped values exchanged with the
// interaction service and rendered by the surfaces.
package entities

import (
	"bytes"
	"encoding/json"
	"strings"
)

// MaxMedications is the largest medication list accepted from a user
const MaxMedications = 16

// Inputs are the three raw form fields of one submission
type Inputs struct {
	Drug        string `json:"drug"`
	Condition   string `json:"condition"`
	Medications string `json:"medications"`
}

// MedicationList is the comma separated medications input, split and trimmed
type MedicationList []string

// SplitMedications splits the input on commas and trims each entry.
// The result always has one more entry than the input has commas.
func SplitMedications(input string) MedicationList {
	parts := strings.Split(input, ",")
	list := make(MedicationList, len(parts))
	for i, part := range parts {
		list[i] = strings.TrimSpace(part)
	}
	return list
}

// Exceeds reports whether the list is longer than limit
func (l MedicationList) Exceeds(limit int) bool {
	return len(l) > limit
}

// Join rebuilds the comma separated form sent to check_drug_interactions
func (l MedicationList) Join() string {
	return strings.Join(l, ",")
}

// InteractionRecord is one reported interaction between the prescribed drug and a medication
type InteractionRecord struct {
	Drug                    string `json:"drug"`
	Interaction             string `json:"interaction"`
	Severity                string `json:"severity"`
	ProfessionalDescription string `json:"professional_description"`
	PatientDescription      string `json:"patient_description"`
}

// InteractionResponse is the body returned by check_drug_interactions
type InteractionResponse struct {
	Interactions []InteractionRecord `json:"interactions"`
}

// InteractionRequest is the body sent to check_drug_interactions
type InteractionRequest struct {
	Drugs          string `json:"drugs"`
	PrescribedDrug string `json:"prescribed_drug"`
}

// CurrentMedsRequest is the body sent to process_current_meds
type CurrentMedsRequest struct {
	Drugs []string `json:"drugs"`
}

// ValidDrug is a name the service resolved to a drugs.com entry
type ValidDrug struct {
	DrugName string `json:"drug_name"`
	URL      string `json:"url"`
}

// CurrentMedsResponse is the body returned by process_current_meds
type CurrentMedsResponse struct {
	ValidDrugs    []ValidDrug `json:"valid_drugs"`
	NotFoundDrugs []string    `json:"not_found_drugs"`
}

// ConditionMatches is the raw array returned by search_conditions and search_drugs.
// A match is encoded as [name, url]; no match is encoded as null.
type ConditionMatches []json.RawMessage

// UnmarshalJSON accepts any JSON value. Only an array can carry a match,
// so an object or a scalar decodes as no match.
func (m *ConditionMatches) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*m = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*m = raw
	return nil
}

// Found reports whether the first element is present and truthy
func (m ConditionMatches) Found() bool {
	if len(m) == 0 {
		return false
	}

	first := bytes.TrimSpace(m[0])
	switch string(first) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// Name returns the matched name, or an empty string when there is no match
func (m ConditionMatches) Name() string {
	return m.stringAt(0)
}

// URL returns the matched reference URL, if any
func (m ConditionMatches) URL() string {
	return m.stringAt(1)
}

func (m ConditionMatches) stringAt(i int) string {
	if !m.Found() || len(m) <= i {
		return ""
	}
	var s string
	if err := json.Unmarshal(m[i], &s); err != nil {
		return ""
	}
	return s
}

// TranslationRequest is the body sent to translate_description
type TranslationRequest struct {
	ProfessionalDescription string `json:"professional_description"`
}

// TranslationResponse is the body returned by translate_description
type TranslationResponse struct {
	ConsumerDescription string `json:"consumer_description"`
}
