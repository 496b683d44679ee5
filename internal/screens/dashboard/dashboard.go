package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/performance"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/layout"
	"github.com/abhisek/examprep/internal/ui/theme"
)

// recentLimit is how many of the latest quizzes are listed under the chart.
const recentLimit = 5

type historyLoadedMsg struct {
	from    *DashboardScreen
	records []performance.Record
	err     error
}

// DashboardScreen shows the overall average and the per-subject chart.
type DashboardScreen struct {
	ctx     context.Context
	store   performance.Store
	loaded  bool
	err     error
	report  performance.Report
	records []performance.Record
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a dashboard reading from store.
func New(ctx context.Context, store performance.Store) *DashboardScreen {
	return &DashboardScreen{ctx: ctx, store: store}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return d.load()
}

func (d *DashboardScreen) load() tea.Cmd {
	ctx, store := d.ctx, d.store
	return func() tea.Msg {
		records, err := store.List(ctx)
		return historyLoadedMsg{from: d, records: records, err: err}
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.from != d {
			return d, nil
		}
		d.loaded = true
		d.err = msg.err
		if msg.err == nil {
			d.records = msg.records
			d.report = performance.Aggregate(msg.records)
		}
		return d, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return d, d.load()
		}
	}
	return d, nil
}

func (d *DashboardScreen) Title() string {
	return "My Performance"
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *DashboardScreen) View(width, height int) string {
	cw := min(layout.ContentWidth(width), 72)

	var body string
	switch {
	case !d.loaded:
		body = theme.Hint.Render("Loading your results...")
	case d.err != nil:
		body = theme.ErrorText.Render("Could not load your results: " + d.err.Error())
	default:
		body = d.renderReport(cw)
	}
	return layout.Center(theme.Card.Width(cw+4).Render(body), width, height)
}

func (d *DashboardScreen) renderReport(width int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Your Performance"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Here's a summary of your quiz performance. Keep practicing!"))
	b.WriteString("\n\n")

	b.WriteString(theme.Subtitle.Render("Overall Average Score"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(fmt.Sprintf("%d%%", d.report.Overall)))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  across %d %s", d.report.Quizzes, plural(d.report.Quizzes, "quiz", "quizzes"))))
	b.WriteString("\n\n")

	b.WriteString(theme.Bold.Render("Average Score by Subject"))
	b.WriteString("\n\n")

	if d.report.Empty() {
		b.WriteString(theme.Hint.Render("No data yet. Take a quiz to see your progress!"))
		return b.String()
	}

	labelWidth := 0
	for _, s := range d.report.Subjects {
		labelWidth = max(labelWidth, lipgloss.Width(string(s.Subject)))
	}
	for _, s := range d.report.Subjects {
		bar := components.ProgressBar{
			Label:       string(s.Subject),
			LabelWidth:  labelWidth,
			Percent:     float64(s.Average) / 100,
			ShowPercent: true,
			Width:       width - 6,
		}
		b.WriteString(bar.View())
		b.WriteString(theme.Hint.Render(fmt.Sprintf(" ×%d", s.Quizzes)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Bold.Render("Recent Quizzes"))
	b.WriteString("\n")
	start := max(0, len(d.records)-recentLimit)
	for i := len(d.records) - 1; i >= start; i-- {
		r := d.records[i]
		fmt.Fprintf(&b, "%s  %-10s %2d/%-2d  %3d%%\n",
			theme.Hint.Render(r.CompletedAt.Local().Format("02 Jan 15:04")),
			r.Subject, r.Score, r.TotalQuestions,
			performance.Percentage(r.Score, r.TotalQuestions))
	}
	return strings.TrimRight(b.String(), "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
