package components

import (
	"github.com/abhisek/examprep/internal/ui/theme"
)

// Button renders a call to action. Inactive buttons are dimmed; the owning
// screen decides what Enter does.
type Button struct {
	Label  string
	Active bool
}

// NewButton creates a button.
func NewButton(label string, active bool) Button {
	return Button{Label: label, Active: active}
}

// View renders the button.
func (b Button) View() string {
	label := "  ▸ " + b.Label + " "
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
