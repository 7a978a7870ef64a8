package checker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/giygas/interactions-checker/entities"
	"github.com/giygas/interactions-checker/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService scripts the interaction service and records the calls it gets
type fakeService struct {
	notFound       func(drugs []string) []string
	medsErr        error
	conditions     entities.ConditionMatches
	conditionErr   error
	interactions   []entities.InteractionRecord
	interactionErr error

	calls        []string
	lastRequest  entities.InteractionRequest
	medsRequests [][]string
}

func newFakeService() *fakeService {
	return &fakeService{
		conditions:   entities.ConditionMatches{[]byte(`"Atrial Fibrillation"`), []byte(`"https://www.drugs.com/condition/atrial-fibrillation.html"`)},
		interactions: []entities.InteractionRecord{},
	}
}

func (f *fakeService) ProcessCurrentMeds(ctx context.Context, drugs []string) (*entities.CurrentMedsResponse, error) {
	f.calls = append(f.calls, "process_current_meds")
	f.medsRequests = append(f.medsRequests, drugs)
	if f.medsErr != nil {
		return nil, f.medsErr
	}
	resp := &entities.CurrentMedsResponse{NotFoundDrugs: []string{}}
	if f.notFound != nil {
		resp.NotFoundDrugs = f.notFound(drugs)
	}
	return resp, nil
}

func (f *fakeService) SearchConditions(ctx context.Context, input string) (entities.ConditionMatches, error) {
	f.calls = append(f.calls, "search_conditions")
	return f.conditions, f.conditionErr
}

func (f *fakeService) CheckDrugInteractions(ctx context.Context, req entities.InteractionRequest) (*entities.InteractionResponse, error) {
	f.calls = append(f.calls, "check_drug_interactions")
	f.lastRequest = req
	if f.interactionErr != nil {
		return nil, f.interactionErr
	}
	return &entities.InteractionResponse{Interactions: f.interactions}, nil
}

func notFoundAlways(names ...string) func([]string) []string {
	return func([]string) []string { return names }
}

var validInputs = entities.Inputs{
	Drug:        "  warfarin ",
	Condition:   "afib",
	Medications: "aspirin , ibuprofen",
}

func TestCheckDrugInteraction_TooManyMedicationsMakesNoCalls(t *testing.T) {
	service := newFakeService()
	rec := surface.NewRecorder()

	in := validInputs
	in.Medications = strings.Repeat("x,", entities.MaxMedications) + "x"

	outcome := New(service, rec).CheckDrugInteraction(context.Background(), in)

	assert.Equal(t, entities.OutcomeRejected, outcome)
	assert.Empty(t, service.calls)
	assert.Equal(t, []string{"Alert"}, rec.Calls())
	assert.Equal(t, "You cannot enter more than 16 drugs.", rec.Snapshot().Alert)
	assert.Equal(t, surface.ResultsEmpty, rec.Snapshot().Results.State)
}

func TestCheckDrugInteraction_SixteenMedicationsAllowed(t *testing.T) {
	service := newFakeService()
	rec := surface.NewRecorder()

	in := validInputs
	in.Medications = strings.Repeat("x,", entities.MaxMedications-1) + "x"

	outcome := New(service, rec).CheckDrugInteraction(context.Background(), in)

	assert.Equal(t, entities.OutcomeNoInteractions, outcome)
	require.Len(t, service.medsRequests, 2)
	assert.Len(t, service.medsRequests[0], entities.MaxMedications)
	assert.Len(t, service.medsRequests[1], entities.MaxMedications)
}

func TestCheckDrugExists_NotFound(t *testing.T) {
	service := newFakeService()
	service.notFound = notFoundAlways("foo", "bar")
	rec := surface.NewRecorder()

	ok := New(service, rec).CheckDrugExists(context.Background(), []string{"foo", "bar"})

	assert.False(t, ok)
	snap := rec.Snapshot()
	assert.True(t, snap.Error.Visible)
	assert.Contains(t, snap.Error.Message, "foo, bar")
	assert.Equal(t, "The following drugs were not found: foo, bar", snap.Error.Message)
}

func TestCheckDrugExists_Found(t *testing.T) {
	service := newFakeService()
	rec := surface.NewRecorder()

	ok := New(service, rec).CheckDrugExists(context.Background(), []string{"aspirin"})

	assert.True(t, ok)
	assert.Empty(t, rec.Calls())
}

func TestCheckMedicationsExist_NotFound(t *testing.T) {
	service := newFakeService()
	service.notFound = notFoundAlways("foo", "bar")
	rec := surface.NewRecorder()

	ok := New(service, rec).CheckMedicationsExist(context.Background(), "foo, bar")

	assert.False(t, ok)
	assert.Equal(t, [][]string{{"foo", "bar"}}, service.medsRequests)
	assert.Equal(t, "The following medications were not found: foo, bar", rec.Snapshot().Error.Message)
}

func TestCheckMedicationsExist_TooMany(t *testing.T) {
	service := newFakeService()
	rec := surface.NewRecorder()

	ok := New(service, rec).CheckMedicationsExist(context.Background(), strings.Repeat("a,", 20))

	assert.False(t, ok)
	assert.Empty(t, service.calls)
	assert.Equal(t, "You cannot enter more than 16 medications.", rec.Snapshot().Alert)
	assert.False(t, rec.Snapshot().Error.Visible)
}

func TestCheckConditionExists(t *testing.T) {
	tests := []struct {
		name       string
		conditions entities.ConditionMatches
		err        error
		want       bool
		wantModal  bool
	}{
		{"empty array", entities.ConditionMatches{}, nil, false, true},
		{"null body", nil, nil, false, true},
		{"null first element", entities.ConditionMatches{[]byte("null")}, nil, false, true},
		{"match", entities.ConditionMatches{[]byte(`"Asthma"`)}, nil, true, false},
		{"bad request", nil, &entities.UpstreamError{Endpoint: "/search_conditions", StatusCode: 400}, false, true},
		{"service down", nil, errors.New("connection refused"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newFakeService()
			service.conditions = tt.conditions
			service.conditionErr = tt.err
			rec := surface.NewRecorder()

			ok := New(service, rec).CheckConditionExists(context.Background(), "asthma")

			assert.Equal(t, tt.want, ok)
			snap := rec.Snapshot()
			assert.Equal(t, tt.wantModal, snap.Error.Visible)
			if tt.wantModal {
				assert.Equal(t, "Condition not found.", snap.Error.Message)
			}
		})
	}
}

func TestCheckDrugInteraction_StopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *fakeService)
		wantCalls []string
		wantMsg   string
	}{
		{
			name: "unknown medication reported as drug",
			setup: func(f *fakeService) {
				f.notFound = notFoundAlways("ibuprofen")
			},
			wantCalls: []string{"process_current_meds"},
			wantMsg:   "The following drugs were not found: ibuprofen",
		},
		{
			name: "unknown condition",
			setup: func(f *fakeService) {
				f.conditions = entities.ConditionMatches{}
			},
			wantCalls: []string{"process_current_meds", "search_conditions"},
			wantMsg:   "Condition not found.",
		},
		{
			name: "medication rejected on second lookup",
			setup: func(f *fakeService) {
				lookups := 0
				f.notFound = func(drugs []string) []string {
					lookups++
					if lookups == 2 {
						return []string{"ibuprofen"}
					}
					return nil
				}
			},
			wantCalls: []string{"process_current_meds", "search_conditions", "process_current_meds"},
			wantMsg:   "The following medications were not found: ibuprofen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newFakeService()
			tt.setup(service)
			rec := surface.NewRecorder()

			outcome := New(service, rec).CheckDrugInteraction(context.Background(), validInputs)

			assert.Equal(t, entities.OutcomeInvalid, outcome)
			assert.Equal(t, tt.wantCalls, service.calls)
			snap := rec.Snapshot()
			assert.Equal(t, tt.wantMsg, snap.Error.Message)
			assert.Equal(t, surface.ResultsEmpty, snap.Results.State)
			assert.Equal(t, []string{"ShowError"}, rec.Calls())
		})
	}
}

func TestCheckDrugInteraction_UnknownMedicationStopsAtFirstLookup(t *testing.T) {
	service := newFakeService()
	service.notFound = func(drugs []string) []string {
		for _, d := range drugs {
			if d == "foo" {
				return []string{"foo"}
			}
		}
		return nil
	}
	rec := surface.NewRecorder()

	in := validInputs
	in.Medications = "aspirin, foo"
	outcome := New(service, rec).CheckDrugInteraction(context.Background(), in)

	assert.Equal(t, entities.OutcomeInvalid, outcome)
	assert.Equal(t, []string{"process_current_meds"}, service.calls)
	assert.Equal(t, [][]string{{"aspirin", "foo"}}, service.medsRequests)
	assert.Equal(t, "The following drugs were not found: foo", rec.Snapshot().Error.Message)
}

func TestCheckDrugInteraction_ValidationUnavailable(t *testing.T) {
	service := newFakeService()
	service.medsErr = errors.New("dial tcp 127.0.0.1:5000: connection refused")
	rec := surface.NewRecorder()

	outcome := New(service, rec).CheckDrugInteraction(context.Background(), validInputs)

	assert.Equal(t, entities.OutcomeUnavailable, outcome)
	assert.Equal(t, []string{"process_current_meds"}, service.calls)
	assert.Empty(t, rec.Calls())
}

func TestCheckDrugInteraction_NoInteractions(t *testing.T) {
	service := newFakeService()
	rec := surface.NewRecorder()

	outcome := New(service, rec).CheckDrugInteraction(context.Background(), validInputs)

	assert.Equal(t, entities.OutcomeNoInteractions, outcome)
	snap := rec.Snapshot()
	assert.Equal(t, "No interactions found.", snap.Results.Text)
	assert.Empty(t, snap.Results.Interactions)
	assert.False(t, snap.Error.Visible)
	assert.Equal(t, []string{"SetLoading", "ShowNoInteractions"}, rec.Calls())
}

func TestCheckDrugInteraction_RendersRecordsInOrder(t *testing.T) {
	records := []entities.InteractionRecord{
		{Drug: "aspirin", Interaction: "warfarin", Severity: "Major", ProfessionalDescription: "p1", PatientDescription: "c1"},
		{Drug: "ibuprofen", Interaction: "warfarin", Severity: "Moderate", ProfessionalDescription: "p2", PatientDescription: "c2"},
	}
	service := newFakeService()
	service.interactions = records
	rec := surface.NewRecorder()

	outcome := New(service, rec).CheckDrugInteraction(context.Background(), validInputs)

	assert.Equal(t, entities.OutcomeInteractions, outcome)
	assert.Equal(t, records, rec.Snapshot().Results.Interactions)
	assert.Equal(t, entities.InteractionRequest{
		Drugs:          "aspirin,ibuprofen",
		PrescribedDrug: "warfarin",
	}, service.lastRequest)
	assert.Equal(t, []string{"process_current_meds", "search_conditions", "process_current_meds", "check_drug_interactions"}, service.calls)
	assert.Equal(t, [][]string{{"aspirin", "ibuprofen"}, {"aspirin", "ibuprofen"}}, service.medsRequests)
}

func TestCheckDrugInteraction_FinalCallFailure(t *testing.T) {
	service := newFakeService()
	service.interactionErr = errors.New("connection reset by peer")
	rec := surface.NewRecorder()

	outcome := New(service, rec).CheckDrugInteraction(context.Background(), validInputs)

	assert.Equal(t, entities.OutcomeFailed, outcome)
	snap := rec.Snapshot()
	assert.Equal(t, surface.ResultsFailure, snap.Results.State)
	assert.Contains(t, snap.Results.Text, "connection reset by peer")
	assert.Equal(t, "Failed to fetch data: connection reset by peer", snap.Results.Text)
	assert.False(t, snap.Error.Visible)
	assert.Equal(t, []string{"SetLoading", "ShowFailure"}, rec.Calls())
}
