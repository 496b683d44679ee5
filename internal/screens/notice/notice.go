package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// NoticeScreen tells the student a feature is unavailable and why.
type NoticeScreen struct {
	title   string
	message string
}

var _ screen.Screen = (*NoticeScreen)(nil)

// New creates a NoticeScreen.
func New(title, message string) *NoticeScreen {
	return &NoticeScreen{title: title, message: message}
}

// LLMRequired is the notice shown when no provider is configured.
func LLMRequired(title string) *NoticeScreen {
	return New(title, "This feature needs an AI provider.\n\n"+
		"Set one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY,\n"+
		"or OPENROUTER_API_KEY (or EXAMPREP_LLM_<PROVIDER>_API_KEY)\n"+
		"and restart examprep.\n\n"+
		"Quizzes also work offline with --bank <file.json>.")
}

func (n *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (n *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return n, router.Pop()
	}
	return n, nil
}

func (n *NoticeScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(n.message + "\n\n" + theme.Hint.Render("Press Enter to go back."))
}

func (n *NoticeScreen) Title() string {
	return n.title
}
