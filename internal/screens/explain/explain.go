package explain

import (
	"context"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/logging"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/tutor"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// MinQuestionLength applies when no image is attached.
const MinQuestionLength = 10

type mode int

const (
	modeEditing mode = iota
	modeThinking
	modeShowing
)

type explainedMsg struct {
	from        *ExplainScreen
	explanation *tutor.Explanation
	err         error
}

type simplifiedMsg struct {
	from *ExplainScreen
	text string
	err  error
}

// ExplainScreen takes a question, optionally a photo of it, and shows the
// tutor's step-by-step explanation.
type ExplainScreen struct {
	ctx   context.Context
	tutor tutor.ContentProvider

	question components.TextInput
	image    components.TextInput
	focus    int

	mode        mode
	spinner     spinner.Model
	cancel      context.CancelFunc
	explanation *tutor.Explanation
	text        string
	simplifying bool
	errMsg      string
	scroll      int
}

var _ screen.Screen = (*ExplainScreen)(nil)
var _ screen.KeyHintProvider = (*ExplainScreen)(nil)

// New creates the explain screen.
func New(ctx context.Context, t tutor.ContentProvider) *ExplainScreen {
	s := &ExplainScreen{
		ctx:   ctx,
		tutor: t,
		question: components.NewTextInput("Your Question",
			"e.g. If x - 2 is a factor of x² + 2x - k, what is the value of k?", 2000, 72),
		image:   components.NewTextInput("Photo of the question (optional)", "path/to/question.png", 512, 72),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.image.Blur()
	return s
}

func (s *ExplainScreen) Init() tea.Cmd {
	return s.question.Init()
}

func (s *ExplainScreen) Title() string {
	return "Explain a Question"
}

func (s *ExplainScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeThinking:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	case modeShowing:
		return []layout.KeyHint{
			{Key: "S", Description: "Simplify"},
			{Key: "N", Description: "New question"},
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Get Explanation"},
		{Key: "Esc", Description: "Back"},
	}
}

// Explanation returns the text currently shown, after any simplification.
func (s *ExplainScreen) Explanation() string {
	return s.text
}

func (s *ExplainScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		return s.handleExplained(msg)

	case simplifiedMsg:
		return s.handleSimplified(msg)

	case spinner.TickMsg:
		if s.mode != modeThinking && !s.simplifying {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch s.mode {
		case modeEditing:
			return s.handleEditingKey(msg)
		case modeShowing:
			return s.handleShowingKey(msg)
		}
		return s, nil
	}

	if s.mode == modeEditing {
		return s.forwardToInput(msg)
	}
	return s, nil
}

func (s *ExplainScreen) handleEditingKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "down", "up":
		return s, s.toggleFocus()
	case "enter":
		return s, s.submit()
	}
	return s.forwardToInput(msg)
}

func (s *ExplainScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	if s.focus == 0 {
		s.question, cmd = s.question.Update(msg)
	} else {
		s.image, cmd = s.image.Update(msg)
	}
	return s, cmd
}

func (s *ExplainScreen) toggleFocus() tea.Cmd {
	if s.focus == 0 {
		s.focus = 1
		s.question.Blur()
		return s.image.Focus()
	}
	s.focus = 0
	s.image.Blur()
	return s.question.Focus()
}

// validate builds the tutor input or explains what is missing.
func (s *ExplainScreen) validate() (tutor.ExplainInput, string) {
	in := tutor.ExplainInput{Question: strings.TrimSpace(s.question.Value())}

	if path := strings.TrimSpace(s.image.Value()); path != "" {
		img, err := tutor.LoadImage(path)
		if err != nil {
			return in, err.Error()
		}
		in.Image = img
	}
	if in.Empty() {
		return in, "Please enter a question or attach a photo."
	}
	if in.Image == nil && utf8.RuneCountInString(in.Question) < MinQuestionLength {
		return in, "Please enter a full question (at least 10 characters)."
	}
	return in, ""
}

func (s *ExplainScreen) submit() tea.Cmd {
	in, problem := s.validate()
	if problem != "" {
		s.errMsg = problem
		return nil
	}

	s.mode = modeThinking
	s.errMsg = ""
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	t := s.tutor

	run := func() tea.Msg {
		defer cancel()
		exp, err := t.Explain(ctx, in)
		return explainedMsg{from: s, explanation: exp, err: err}
	}
	return tea.Batch(run, s.spinner.Tick)
}

func (s *ExplainScreen) handleExplained(msg explainedMsg) (screen.Screen, tea.Cmd) {
	if msg.from != s {
		return s, nil
	}
	if msg.err != nil {
		logging.FromContext(s.ctx).WithError(msg.err).Warn("explanation failed")
		s.mode = modeEditing
		s.errMsg = "An error occurred while generating the explanation. Please try again."
		return s, nil
	}
	s.mode = modeShowing
	s.explanation = msg.explanation
	s.text = msg.explanation.Text
	s.scroll = 0
	return s, nil
}

func (s *ExplainScreen) handleShowingKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		s.scroll++
	case "s":
		if s.simplifying {
			return s, nil
		}
		return s, s.simplify()
	case "n":
		s.reset()
		return s, s.question.Focus()
	}
	return s, nil
}

func (s *ExplainScreen) simplify() tea.Cmd {
	s.simplifying = true
	s.errMsg = ""
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	t := s.tutor
	in := tutor.SimplifyInput{Question: s.explanation.Question, Explanation: s.text}

	run := func() tea.Msg {
		defer cancel()
		text, err := t.Simplify(ctx, in)
		return simplifiedMsg{from: s, text: text, err: err}
	}
	return tea.Batch(run, s.spinner.Tick)
}

func (s *ExplainScreen) handleSimplified(msg simplifiedMsg) (screen.Screen, tea.Cmd) {
	if msg.from != s {
		return s, nil
	}
	s.simplifying = false
	if msg.err != nil {
		logging.FromContext(s.ctx).WithError(msg.err).Warn("simplification failed")
		s.errMsg = "Simplification failed. Please try again."
		return s, nil
	}
	s.text = msg.text
	s.scroll = 0
	return s, nil
}

func (s *ExplainScreen) reset() {
	s.mode = modeEditing
	s.explanation = nil
	s.text = ""
	s.errMsg = ""
	s.scroll = 0
	s.focus = 0
	s.question.SetValue("")
	s.image.SetValue("")
	s.image.Blur()
}

// Close cancels an in-flight request when the screen is popped.
func (s *ExplainScreen) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *ExplainScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	switch s.mode {
	case modeThinking:
		return layout.Center(lipgloss.JoinVertical(lipgloss.Center,
			s.spinner.View()+" "+theme.Bold.Render("Our AI Tutor is thinking..."),
			theme.Hint.Render("Please wait a moment while we prepare your explanation."),
		), width, height)
	case modeShowing:
		return s.renderExplanation(cw, width, height)
	}
	return layout.Center(s.renderForm(cw), width, height)
}

func (s *ExplainScreen) renderForm(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Explain a Question"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Type a WAEC question, attach a photo of it, or both, and get a step-by-step explanation."))
	b.WriteString("\n\n")
	b.WriteString(s.question.View())
	b.WriteString("\n\n")
	b.WriteString(s.image.View())
	b.WriteString("\n\n")
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Width(width).Render(s.errMsg))
		b.WriteString("\n\n")
	}
	b.WriteString(components.NewButton("Get Explanation", true).View())
	return b.String()
}

func (s *ExplainScreen) renderExplanation(width, termWidth, height int) string {
	header := theme.Title.Render("Here's the explanation")
	if q := s.explanation.Question; q != "" {
		header += "\n" + theme.Hint.Width(width).Render(q)
	}

	lines := strings.Split(components.Markdown(s.text, width), "\n")

	var footer string
	switch {
	case s.simplifying:
		footer = s.spinner.View() + " " + theme.Hint.Render("Simplifying...")
	case s.errMsg != "":
		footer = theme.ErrorText.Render(s.errMsg)
	default:
		footer = components.NewButton("I'm still confused (S)", false).View()
	}

	room := max(height-lipgloss.Height(header)-lipgloss.Height(footer)-2, 1)
	s.scroll = min(s.scroll, max(0, len(lines)-room))
	visible := lines[s.scroll:min(len(lines), s.scroll+room)]

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(visible, "\n"), footer)
	return lipgloss.PlaceHorizontal(termWidth, lipgloss.Center, body)
}
