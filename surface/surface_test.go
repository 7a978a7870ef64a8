package surface

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/giygas/interactions-checker/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRecords = []entities.InteractionRecord{
	{
		Drug:                    "aspirin",
		Interaction:             "warfarin",
		Severity:                "Major",
		ProfessionalDescription: "Concomitant use increases bleeding risk.",
		PatientDescription:      "You may bleed more easily.",
	},
	{
		Drug:                    "ibuprofen",
		Interaction:             "warfarin sodium",
		Severity:                "Moderate",
		ProfessionalDescription: "NSAIDs may potentiate anticoagulant effects.",
		PatientDescription:      "This combination can raise bleeding risk.",
	},
}

func TestErrorModal(t *testing.T) {
	tests := []struct {
		name        string
		target      DismissTarget
		wantHidden  bool
		wantVisible bool
	}{
		{"click on modal hides", TargetModal, true, false},
		{"click on close control hides", TargetCloseControl, true, false},
		{"click elsewhere keeps it open", TargetOther, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var modal ErrorModal
			modal.Show("Condition not found.")
			require.True(t, modal.Visible)

			assert.Equal(t, tt.wantHidden, modal.Dismiss(tt.target))
			assert.Equal(t, tt.wantVisible, modal.Visible)
			assert.Equal(t, "Condition not found.", modal.Message)
		})
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	assert.Equal(t, ResultsEmpty, r.Snapshot().Results.State)

	r.SetLoading()
	assert.Equal(t, "Loading...", r.Snapshot().Results.Text)

	r.ShowInteractions(sampleRecords)
	snap := r.Snapshot()
	assert.Equal(t, ResultsInteractions, snap.Results.State)
	assert.Equal(t, sampleRecords, snap.Results.Interactions)
	assert.Empty(t, snap.Results.Text)
	assert.False(t, snap.Error.Visible)

	r.ShowError("The following drugs were not found: foo")
	assert.True(t, r.Snapshot().Error.Visible)

	assert.Equal(t, []string{"SetLoading", "ShowInteractions", "ShowError"}, r.Calls())
}

func TestRecorderFailureReplacesResults(t *testing.T) {
	r := NewRecorder()
	r.SetLoading()
	r.ShowFailure("Failed to fetch data: connection refused")

	snap := r.Snapshot()
	assert.Equal(t, ResultsFailure, snap.Results.State)
	assert.Equal(t, "Failed to fetch data: connection refused", snap.Results.Text)
	assert.Empty(t, snap.Results.Interactions)
}

func TestPageRender_Interactions(t *testing.T) {
	page := NewPage("/check", entities.Inputs{Drug: "warfarin", Condition: "afib", Medications: "aspirin, ibuprofen"})
	page.SetLoading()
	page.ShowInteractions(sampleRecords)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()

	assert.Equal(t, 2, strings.Count(html, `class="result-item"`))
	assert.Less(t, strings.Index(html, "aspirin"), strings.Index(html, "ibuprofen"))
	for _, record := range sampleRecords {
		assert.Contains(t, html, record.Drug)
		assert.Contains(t, html, "Interaction: "+record.Interaction)
		assert.Contains(t, html, "Severity: <strong>"+record.Severity+"</strong>")
		assert.Contains(t, html, record.ProfessionalDescription)
		assert.Contains(t, html, record.PatientDescription)
	}
	assert.NotContains(t, html, "Loading...")
	assert.Contains(t, html, `id="errorModal" class="modal">`)
	assert.Contains(t, html, `value="warfarin"`)
}

func TestPageRender_NoInteractions(t *testing.T) {
	page := NewPage("/check", entities.Inputs{})
	page.ShowNoInteractions()

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	assert.Contains(t, buf.String(), "<p>No interactions found.</p>")
	assert.NotContains(t, buf.String(), `class="result-item"`)
}

func TestPageRender_ErrorModal(t *testing.T) {
	page := NewPage("/check", entities.Inputs{})
	page.ShowError("The following drugs were not found: foo, bar")

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, `id="errorModal" class="modal" style="display: block"`)
	assert.Contains(t, html, `<p id="errorMessage">The following drugs were not found: foo, bar</p>`)
}

func TestPageRender_EscapesServiceText(t *testing.T) {
	page := NewPage("/check", entities.Inputs{})
	page.ShowInteractions([]entities.InteractionRecord{{Drug: "<script>x</script>"}})

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	assert.NotContains(t, buf.String(), "<script>x</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestPageRender_Alert(t *testing.T) {
	page := NewPage("/check", entities.Inputs{})
	page.Alert("You cannot enter more than 16 drugs.")

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	assert.Contains(t, buf.String(), `alert("You cannot enter more than 16 drugs.")`)
}

func TestTerminal(t *testing.T) {
	color.NoColor = true

	var out, errOut bytes.Buffer
	term := NewTerminal(&out, &errOut)

	term.SetLoading()
	term.ShowInteractions(sampleRecords)
	term.ShowError("Condition not found.")
	term.Alert("You cannot enter more than 16 medications.")

	assert.Contains(t, out.String(), "Loading...")
	assert.Contains(t, out.String(), "Severity: Major")
	assert.Contains(t, out.String(), "Patient Description: This combination can raise bleeding risk.")
	assert.Less(t, strings.Index(out.String(), "aspirin"), strings.Index(out.String(), "ibuprofen"))

	assert.Contains(t, errOut.String(), "Error: Condition not found.")
	assert.Contains(t, errOut.String(), "You cannot enter more than 16 medications.")
}

func TestTerminal_NoInteractionsAndFailure(t *testing.T) {
	color.NoColor = true

	var out, errOut bytes.Buffer
	term := NewTerminal(&out, &errOut)

	term.ShowNoInteractions()
	term.ShowFailure("Failed to fetch data: EOF")

	assert.Equal(t, "No interactions found.\nFailed to fetch data: EOF\n", out.String())
	assert.Empty(t, errOut.String())
}
