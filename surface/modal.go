// Package surface renders interaction checks: as an HTML page, on a terminal,
// or into a recorder for the JSON API.
package surface

// DismissTarget is what the user clicked while the error modal was open
type DismissTarget int

const (
	TargetOther DismissTarget = iota
	TargetModal
	TargetCloseControl
)

// ErrorModal is the shared error surface used by validation failures
type ErrorModal struct {
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
}

// Show opens the modal with message
func (m *ErrorModal) Show(message string) {
	m.Visible = true
	m.Message = message
}

// Dismiss hides the modal when the click landed on the modal itself or on
// its close control. Any other target leaves it open.
func (m *ErrorModal) Dismiss(target DismissTarget) bool {
	if target != TargetModal && target != TargetCloseControl {
		return false
	}
	m.Visible = false
	return true
}
