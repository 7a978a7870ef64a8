package surface

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/giygas/interactions-checker/entities"
	"github.com/giygas/interactions-checker/interfaces"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var _ interfaces.Surface = (*Page)(nil)

// Page is the HTML surface. It collects the calls of one check and renders
// the whole document once the check is done.
type Page struct {
	Action         string
	Inputs         entities.Inputs
	Modal          ErrorModal
	AlertMessage   string
	Results        Results
	MaxMedications int
}

// NewPage creates a page whose form posts to action, prefilled with in
func NewPage(action string, in entities.Inputs) *Page {
	return &Page{
		Action:         action,
		Inputs:         in,
		Results:        Results{State: ResultsEmpty},
		MaxMedications: entities.MaxMedications,
	}
}

func (p *Page) ShowError(message string) {
	p.Modal.Show(message)
}

func (p *Page) Alert(message string) {
	p.AlertMessage = message
}

func (p *Page) SetLoading() {
	p.Results.setLoading()
}

func (p *Page) ShowNoInteractions() {
	p.Results.setNoInteractions()
}

func (p *Page) ShowInteractions(records []entities.InteractionRecord) {
	p.Results.setInteractions(records)
}

func (p *Page) ShowFailure(message string) {
	p.Results.setFailure(message)
}

// Render writes the HTML document
func (p *Page) Render(w io.Writer) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
