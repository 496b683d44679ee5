package quizsetup

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/examprep/internal/logging"
	"github.com/abhisek/examprep/internal/performance"
	"github.com/abhisek/examprep/internal/quiz"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/quiztaker"
	"github.com/abhisek/examprep/internal/tutor"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
	"github.com/abhisek/examprep/internal/ui/theme"
)

type quizReadyMsg struct {
	from *QuizSetupScreen
	quiz *quiz.Quiz
	err  error
}

// QuizSetupScreen picks a subject and question count, then generates the
// quiz.
type QuizSetupScreen struct {
	ctx      context.Context
	tutor    tutor.ContentProvider
	store    performance.Store
	subjects []quiz.Subject
	cursor   int
	count    int

	generating bool
	spinner    spinner.Model
	cancel     context.CancelFunc
	errMsg     string
}

var _ screen.Screen = (*QuizSetupScreen)(nil)
var _ screen.KeyHintProvider = (*QuizSetupScreen)(nil)

// New creates the setup screen. defaultCount is clamped to the allowed range.
func New(ctx context.Context, t tutor.ContentProvider, store performance.Store, defaultCount int) *QuizSetupScreen {
	return &QuizSetupScreen{
		ctx:      ctx,
		tutor:    t,
		store:    store,
		subjects: quiz.AllSubjects(),
		count:    clampCount(defaultCount),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func clampCount(n int) int {
	return max(tutor.MinQuestions, min(tutor.MaxQuestions, n))
}

func (s *QuizSetupScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizSetupScreen) Title() string {
	return "Practice with a Quiz"
}

func (s *QuizSetupScreen) KeyHints() []layout.KeyHint {
	if s.generating {
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Subject"},
		{Key: "←→", Description: "Questions"},
		{Key: "Enter", Description: "Generate Quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

// Subject returns the highlighted subject.
func (s *QuizSetupScreen) Subject() quiz.Subject {
	return s.subjects[s.cursor]
}

// Count returns the selected number of questions.
func (s *QuizSetupScreen) Count() int {
	return s.count
}

func (s *QuizSetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		return s.handleQuizReady(msg)

	case spinner.TickMsg:
		if !s.generating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.generating {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizSetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.subjects)-1 {
			s.cursor++
		}
	case "left", "h", "-":
		s.count = clampCount(s.count - 1)
	case "right", "l", "+", "=":
		s.count = clampCount(s.count + 1)
	case "enter":
		return s, s.generate()
	}
	return s, nil
}

func (s *QuizSetupScreen) generate() tea.Cmd {
	s.generating = true
	s.errMsg = ""

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	subject, count, t := s.Subject(), s.count, s.tutor

	gen := func() tea.Msg {
		defer cancel()
		ctx := logging.WithFields(ctx, logrus.Fields{"subject": subject, "count": count})
		q, err := t.GenerateQuiz(ctx, subject, count)
		return quizReadyMsg{from: s, quiz: q, err: err}
	}
	return tea.Batch(gen, s.spinner.Tick)
}

func (s *QuizSetupScreen) handleQuizReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.from != s {
		return s, nil
	}
	s.generating = false
	if msg.err != nil {
		logging.FromContext(s.ctx).WithError(msg.err).Warn("quiz generation failed")
		s.errMsg = "An error occurred while generating the quiz. Please try again."
		return s, nil
	}

	sess, err := quiz.NewSession(*msg.quiz)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	return s, router.Replace(quiztaker.New(s.ctx, sess, s.store))
}

// Close cancels an in-flight generation. The app calls it when the screen
// is popped.
func (s *QuizSetupScreen) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *QuizSetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Practice with a Quiz"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Pick a subject and how many questions you want."))
	b.WriteString("\n\n")

	b.WriteString(theme.Bold.Render("Subject"))
	b.WriteString("\n")
	for i, subj := range s.subjects {
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("  ▸ " + string(subj)))
		} else {
			b.WriteString(theme.Unselected.Render("    " + string(subj)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Bold.Render("Number of Questions"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s %s",
		arrow("◂", s.count > tutor.MinQuestions),
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(fmt.Sprintf("%2d", s.count)),
		arrow("▸", s.count < tutor.MaxQuestions)))
	b.WriteString("\n\n")

	switch {
	case s.generating:
		b.WriteString(s.spinner.View() + " " + theme.Hint.Render(fmt.Sprintf("Generating your %s quiz...", s.Subject())))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	default:
		b.WriteString(components.NewButton("Generate Quiz", true).View())
	}

	return layout.Center(theme.Card.Render(b.String()), width, height)
}

func arrow(s string, enabled bool) string {
	if enabled {
		return lipgloss.NewStyle().Foreground(theme.Text).Render(s)
	}
	return lipgloss.NewStyle().Foreground(theme.Border).Render(s)
}
