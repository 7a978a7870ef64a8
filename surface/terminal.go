package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/giygas/interactions-checker/entities"
	"github.com/giygas/interactions-checker/interfaces"
)

var _ interfaces.Surface = (*Terminal)(nil)

// Terminal prints a check as it progresses
type Terminal struct {
	out    io.Writer
	errOut io.Writer
	bold   *color.Color
	errorC *color.Color
	alertC *color.Color
	faintC *color.Color
}

// NewTerminal creates a terminal surface. Results go to out; the error modal
// and alerts go to errOut.
func NewTerminal(out, errOut io.Writer) *Terminal {
	return &Terminal{
		out:    out,
		errOut: errOut,
		bold:   color.New(color.Bold),
		errorC: color.New(color.FgRed, color.Bold),
		alertC: color.New(color.FgYellow, color.Bold),
		faintC: color.New(color.Faint),
	}
}

func (t *Terminal) ShowError(message string) {
	_, _ = t.errorC.Fprintln(t.errOut, "Error: "+message)
}

func (t *Terminal) Alert(message string) {
	_, _ = t.alertC.Fprintln(t.errOut, message)
}

func (t *Terminal) SetLoading() {
	_, _ = t.faintC.Fprintln(t.out, loadingText)
}

func (t *Terminal) ShowNoInteractions() {
	_, _ = fmt.Fprintln(t.out, noInteractionsText)
}

func (t *Terminal) ShowInteractions(records []entities.InteractionRecord) {
	for i, record := range records {
		if i > 0 {
			_, _ = fmt.Fprintln(t.out)
		}
		_, _ = t.bold.Fprintln(t.out, record.Drug)
		_, _ = fmt.Fprintf(t.out, "Interaction: %s\n", record.Interaction)
		_, _ = fmt.Fprintf(t.out, "Severity: %s\n", severityColor(record.Severity).Sprint(record.Severity))
		_, _ = fmt.Fprintf(t.out, "Professional Description: %s\n", record.ProfessionalDescription)
		_, _ = fmt.Fprintf(t.out, "Patient Description: %s\n", record.PatientDescription)
	}
}

func (t *Terminal) ShowFailure(message string) {
	_, _ = t.errorC.Fprintln(t.out, message)
}

func severityColor(severity string) *color.Color {
	switch strings.ToLower(severity) {
	case "major":
		return color.New(color.FgRed, color.Bold)
	case "moderate":
		return color.New(color.FgYellow, color.Bold)
	case "minor":
		return color.New(color.FgGreen)
	default:
		return color.New(color.Reset)
	}
}
