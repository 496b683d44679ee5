package quiztaker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/examprep/internal/logging"
	"github.com/abhisek/examprep/internal/performance"
	"github.com/abhisek/examprep/internal/quiz"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/dashboard"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
	"github.com/abhisek/examprep/internal/ui/theme"
)

type finishedMsg struct {
	from   *QuizTakerScreen
	record performance.Record
	err    error
}

// QuizTakerScreen walks the student through a quiz session and shows the
// graded results.
type QuizTakerScreen struct {
	ctx   context.Context
	sess  *quiz.Session
	store performance.Store

	hint      string
	finishing bool
	errMsg    string
	scroll    int
}

var _ screen.Screen = (*QuizTakerScreen)(nil)
var _ screen.KeyHintProvider = (*QuizTakerScreen)(nil)

// New creates a screen for sess. Results are appended to store on finish.
func New(ctx context.Context, sess *quiz.Session, store performance.Store) *QuizTakerScreen {
	ctx = logging.WithFields(ctx, logrus.Fields{
		"session_id": sess.ID(),
		"subject":    sess.Subject(),
	})
	return &QuizTakerScreen{ctx: ctx, sess: sess, store: store}
}

// Session returns the session the screen drives.
func (s *QuizTakerScreen) Session() *quiz.Session {
	return s.sess
}

func (s *QuizTakerScreen) Init() tea.Cmd {
	logging.FromContext(s.ctx).WithField("questions", s.sess.Total()).Info("quiz started")
	return nil
}

func (s *QuizTakerScreen) Title() string {
	return fmt.Sprintf("%s Quiz", s.sess.Subject())
}

func (s *QuizTakerScreen) KeyHints() []layout.KeyHint {
	if s.sess.Phase() == quiz.PhaseSubmitted {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Enter", Description: "Finish"},
			{Key: "Esc", Description: "Discard"},
		}
	}
	action := "Next"
	if s.sess.IsLast() {
		action = "Submit"
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Choose"},
		{Key: "↑↓", Description: "Change"},
		{Key: "Enter", Description: action},
		{Key: "Esc", Description: "Quit quiz"},
	}
}

func (s *QuizTakerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case finishedMsg:
		return s.handleFinished(msg)

	case components.OptionChosenMsg:
		if err := s.sess.SelectAnswer(msg.Index); err == nil {
			s.hint = ""
		}
		return s, nil

	case tea.KeyMsg:
		switch s.sess.Phase() {
		case quiz.PhaseInProgress:
			return s.handleQuestionKey(msg)
		case quiz.PhaseSubmitted:
			return s.handleResultsKey(msg)
		}
	}
	return s, nil
}

func (s *QuizTakerScreen) handleQuestionKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() != "enter" {
		_, q := s.sess.Current()
		var cmd tea.Cmd
		_, cmd = components.NewMultiChoice(q.Text, q.Options, s.sess.SelectedOption()).Update(msg)
		return s, cmd
	}

	var err error
	if s.sess.IsLast() {
		err = s.sess.Submit()
	} else {
		err = s.sess.Advance()
	}
	if errors.Is(err, quiz.ErrPrecondition) {
		s.hint = "Choose an answer first."
		return s, nil
	}
	s.hint = ""
	if s.sess.Phase() == quiz.PhaseSubmitted {
		logging.FromContext(s.ctx).WithFields(logrus.Fields{
			"score": s.sess.Score(),
			"total": s.sess.Total(),
		}).Info("quiz submitted")
	}
	return s, nil
}

func (s *QuizTakerScreen) handleResultsKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		s.scroll++
	case "enter":
		if s.finishing {
			return s, nil
		}
		s.finishing = true
		s.errMsg = ""
		return s, s.finish()
	}
	return s, nil
}

func (s *QuizTakerScreen) finish() tea.Cmd {
	ctx, sess, store := s.ctx, s.sess, s.store
	return func() tea.Msg {
		rec, err := sess.Finish(ctx, store)
		return finishedMsg{from: s, record: rec, err: err}
	}
}

func (s *QuizTakerScreen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	if msg.from != s {
		return s, nil
	}
	s.finishing = false
	log := logging.FromContext(s.ctx)
	if msg.err != nil {
		log.WithError(msg.err).Error("could not save quiz result")
		s.errMsg = "Could not save your result. Press Enter to try again."
		return s, nil
	}
	log.WithField("percentage", performance.Percentage(msg.record.Score, msg.record.TotalQuestions)).Info("quiz finished")
	if s.store == nil {
		return s, router.Pop()
	}
	return s, router.Replace(dashboard.New(s.ctx, s.store))
}

func (s *QuizTakerScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	if s.sess.Phase() == quiz.PhaseInProgress {
		return layout.Center(s.renderQuestion(cw), width, height)
	}
	return s.renderResults(cw, width, height)
}

func (s *QuizTakerScreen) renderQuestion(width int) string {
	idx, q := s.sess.Current()
	total := s.sess.Total()

	var b strings.Builder
	progress := components.ProgressBar{
		Label:       fmt.Sprintf("Question %d of %d", idx+1, total),
		Percent:     s.sess.Progress(),
		ShowPercent: false,
		Width:       width,
	}
	b.WriteString(progress.View())
	b.WriteString("\n\n")

	b.WriteString(components.NewMultiChoice(q.Text, q.Options, s.sess.SelectedOption()).View(width))
	b.WriteString("\n")

	label := "Next Question"
	if s.sess.IsLast() {
		label = "Submit Quiz"
	}
	ready := s.sess.CanAdvance() || s.sess.CanSubmit()
	b.WriteString(components.NewButton(label, ready).View())

	if s.hint != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(s.hint))
	}
	return b.String()
}

func (s *QuizTakerScreen) renderResults(width, termWidth, height int) string {
	score, total := s.sess.Score(), s.sess.Total()

	header := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Quiz Results"),
		theme.Subtitle.Render(fmt.Sprintf("You scored %d out of %d (%d%%)", score, total, s.sess.Percentage())),
	)

	var lines []string
	for i, r := range s.sess.Results() {
		mark := theme.Correct.Render("✓ Correct")
		if r.State == quiz.AnswerIncorrect {
			mark = theme.Incorrect.Render("✗ Incorrect")
		}
		lines = append(lines, "")
		lines = append(lines, strings.Split(lipgloss.NewStyle().Width(width).Bold(true).Render(
			fmt.Sprintf("%d. %s", i+1, r.Question.Text)), "\n")...)
		lines = append(lines, "   "+mark)
		if r.State == quiz.AnswerIncorrect && r.Selected >= 0 {
			lines = append(lines, theme.Hint.Render("   Your answer: "+r.Question.Options[r.Selected]))
		}
		lines = append(lines, theme.Correct.Render("   Correct answer: "+r.Question.Options[r.Question.AnswerIndex]))
		lines = append(lines, strings.Split(lipgloss.NewStyle().Width(width-3).PaddingLeft(3).Foreground(theme.TextDim).Render(
			r.Question.Explanation), "\n")...)
	}

	var footer string
	switch {
	case s.finishing:
		footer = theme.Hint.Render("Saving your result...")
	case s.errMsg != "":
		footer = theme.ErrorText.Render(s.errMsg)
	default:
		footer = components.NewButton("Finish & View Progress", true).View()
	}

	room := height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	room = max(room, 1)
	maxScroll := max(0, len(lines)-room)
	s.scroll = min(s.scroll, maxScroll)
	visible := lines[s.scroll:min(len(lines), s.scroll+room)]

	body := lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(visible, "\n"), "", footer)
	return lipgloss.PlaceHorizontal(termWidth, lipgloss.Center, body)
}
