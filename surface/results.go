package surface

import "github.com/giygas/interactions-checker/entities"

// ResultsState is what the results area currently shows
type ResultsState string

const (
	ResultsEmpty          ResultsState = "empty"
	ResultsLoading        ResultsState = "loading"
	ResultsNoInteractions ResultsState = "no_interactions"
	ResultsInteractions   ResultsState = "interactions"
	ResultsFailure        ResultsState = "failure"
)

const (
	loadingText        = "Loading..."
	noInteractionsText = "No interactions found."
)

// Results is the results area shared by the HTML page and the recorder
type Results struct {
	State        ResultsState                 `json:"state"`
	Text         string                       `json:"text,omitempty"`
	Interactions []entities.InteractionRecord `json:"interactions,omitempty"`
}

func (r *Results) setLoading() {
	*r = Results{State: ResultsLoading, Text: loadingText}
}

func (r *Results) setNoInteractions() {
	*r = Results{State: ResultsNoInteractions, Text: noInteractionsText}
}

func (r *Results) setInteractions(records []entities.InteractionRecord) {
	*r = Results{State: ResultsInteractions}
	r.Interactions = append(r.Interactions, records...)
}

func (r *Results) setFailure(message string) {
	*r = Results{State: ResultsFailure, Text: message}
}
