package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/ui/theme"
)

// OptionLabels prefixes options in every multiple-choice view.
var OptionLabels = []string{"A", "B", "C", "D"}

// OptionChosenMsg reports that the student picked an option.
type OptionChosenMsg struct {
	Index int
}

// MultiChoice renders a question with lettered options. It does not own
// the answer: the selection lives in the quiz session and is passed back in
// through Selected.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int // -1 when nothing is chosen
	Locked   bool
}

// NewMultiChoice creates a multiple-choice view for a question.
func NewMultiChoice(question string, options []string, selected int) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Selected: selected,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update maps keys to option choices. Number keys 1-4 and letters a-d pick
// directly; arrows move the choice up or down.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	idx := -1
	switch key := kmsg.String(); key {
	case "up", "k":
		idx = m.Selected - 1
		if m.Selected < 0 {
			idx = 0
		}
	case "down", "j":
		idx = m.Selected + 1
	default:
		if len(key) == 1 {
			switch c := key[0]; {
			case c >= '1' && c <= '9':
				idx = int(c - '1')
			case c >= 'a' && c <= 'z':
				idx = int(c - 'a')
			}
		}
	}
	if idx < 0 || idx >= len(m.Options) {
		return m, nil
	}
	return m, func() tea.Msg { return OptionChosenMsg{Index: idx} }
}

// View renders the question and its options, wrapped to width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		marker := "( )"
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == m.Selected {
			marker = "(•)"
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(fmt.Sprintf("  %s %s.  %s", marker, label, opt)))
		b.WriteString("\n")
	}
	return b.String()
}
