package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/performance"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/dashboard"
	"github.com/abhisek/examprep/internal/screens/explain"
	"github.com/abhisek/examprep/internal/screens/notice"
	"github.com/abhisek/examprep/internal/screens/quizsetup"
	"github.com/abhisek/examprep/internal/tutor"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// Deps are the collaborators screens reached from home need.
type Deps struct {
	// Tutor generates quizzes and explanations. Nil when neither an LLM
	// nor a question bank is configured.
	Tutor tutor.ContentProvider

	// CanExplain is false when Tutor cannot explain (bank-only mode).
	CanExplain bool

	Performance          performance.Store
	DefaultQuestionCount int
}

type summaryMsg struct {
	report performance.Report
	err    error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	ctx     context.Context
	deps    Deps
	menu    components.Menu
	summary *performance.Report
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(ctx context.Context, deps Deps) *HomeScreen {
	h := &HomeScreen{ctx: ctx, deps: deps}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Explain a Question", Action: h.openExplain},
		{Label: "Practice with a Quiz", Action: h.openQuiz},
		{Label: "My Performance", Action: h.openDashboard},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) openExplain() tea.Cmd {
	if h.deps.Tutor == nil || !h.deps.CanExplain {
		return router.Push(notice.LLMRequired("Explain a Question"))
	}
	return router.Push(explain.New(h.ctx, h.deps.Tutor))
}

func (h *HomeScreen) openQuiz() tea.Cmd {
	if h.deps.Tutor == nil {
		return router.Push(notice.LLMRequired("Practice with a Quiz"))
	}
	return router.Push(quizsetup.New(h.ctx, h.deps.Tutor, h.deps.Performance, h.deps.DefaultQuestionCount))
}

func (h *HomeScreen) openDashboard() tea.Cmd {
	return router.Push(dashboard.New(h.ctx, h.deps.Performance))
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadSummary()
}

func (h *HomeScreen) loadSummary() tea.Cmd {
	ctx, store := h.ctx, h.deps.Performance
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		records, err := store.List(ctx)
		return summaryMsg{report: performance.Aggregate(records), err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		if msg.err == nil {
			h.summary = &msg.report
		}
		return h, nil
	case router.ResumeMsg:
		// Back from a quiz or the dashboard: the averages may have moved.
		return h, h.loadSummary()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("examprep"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Your AI tutor for WAEC exam success"))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())

	if h.summary != nil && !h.summary.Empty() {
		b.WriteString("\n")
		noun := "quizzes"
		if h.summary.Quizzes == 1 {
			noun = "quiz"
		}
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Overall average %d%% across %d %s", h.summary.Overall, h.summary.Quizzes, noun)))
	}

	return layout.Center(theme.Card.Render(strings.TrimRight(b.String(), "\n")), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
