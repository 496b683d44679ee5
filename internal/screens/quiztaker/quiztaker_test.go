package quiztaker

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examprep/internal/performance"
	"github.com/abhisek/examprep/internal/quiz"
	"github.com/abhisek/examprep/internal/router"
	"github.com/abhisek/examprep/internal/screens/dashboard"
	"github.com/abhisek/examprep/internal/ui/components"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuiz() quiz.Quiz {
	return quiz.Quiz{
		Subject: quiz.SubjectPhysics,
		Questions: []quiz.Question{
			{Text: "SI unit of force?", Options: []string{"Joule", "Newton", "Watt", "Pascal"}, AnswerIndex: 1, Explanation: "Force is measured in newtons."},
			{Text: "SI unit of power?", Options: []string{"Watt", "Volt", "Ohm", "Tesla"}, AnswerIndex: 0, Explanation: "Power is measured in watts."},
		},
	}
}

func send(s *QuizTakerScreen, msg tea.Msg) tea.Cmd {
	_, cmd := s.Update(msg)
	return cmd
}

// choose presses key and feeds the resulting choice back in, the way the
// Bubble Tea runtime would.
func choose(t *testing.T, s *QuizTakerScreen, key tea.KeyPressMsg) {
	t.Helper()
	cmd := send(s, key)
	if cmd == nil {
		return
	}
	raw := cmd()
	msg, ok := raw.(components.OptionChosenMsg)
	if !ok {
		t.Fatalf("expected OptionChosenMsg, got %T", raw)
	}
	s.Update(msg)
}

type failingStore struct {
	*performance.MemoryStore
	fail bool
}

func (f *failingStore) Append(ctx context.Context, rec performance.Record) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.Append(ctx, rec)
}

func newScreen(t *testing.T, store performance.Store) *QuizTakerScreen {
	t.Helper()
	sess, err := quiz.NewSession(testQuiz())
	if err != nil {
		t.Fatal(err)
	}
	s := New(context.Background(), sess, store)
	s.Init()
	return s
}

func TestQuizTaker_FullRun(t *testing.T) {
	store := performance.NewMemoryStore()
	s := newScreen(t, store)

	if s.Title() != "Physics Quiz" {
		t.Errorf("Title = %q", s.Title())
	}

	// Enter without an answer is refused.
	send(s, specialKey(tea.KeyEnter))
	if idx, _ := s.Session().Current(); idx != 0 {
		t.Fatalf("advanced without an answer")
	}
	if !strings.Contains(s.View(100, 30), "Choose an answer first.") {
		t.Error("expected a hint after Enter with no answer")
	}

	choose(t, s, keyPress('2'))
	if s.Session().SelectedOption() != 1 {
		t.Fatalf("selected = %d, want 1", s.Session().SelectedOption())
	}

	send(s, specialKey(tea.KeyEnter))
	if idx, _ := s.Session().Current(); idx != 1 {
		t.Fatalf("expected question 2, got index %d", idx)
	}

	choose(t, s, keyPress('c'))
	choose(t, s, specialKey(tea.KeyUp))
	choose(t, s, specialKey(tea.KeyUp))
	if s.Session().SelectedOption() != 0 {
		t.Fatalf("selected = %d, want 0", s.Session().SelectedOption())
	}

	send(s, specialKey(tea.KeyEnter))
	if s.Session().Phase() != quiz.PhaseSubmitted {
		t.Fatalf("phase = %s, want submitted", s.Session().Phase())
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "You scored 2 out of 2 (100%)") {
		t.Errorf("results view missing score:\n%s", view)
	}

	cmd := send(s, specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected finish command")
	}
	_, next := s.Update(cmd())
	if next == nil {
		t.Fatal("expected navigation after finish")
	}
	replace, ok := next().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", next())
	}
	if _, ok := replace.Screen.(*dashboard.DashboardScreen); !ok {
		t.Errorf("expected dashboard, got %T", replace.Screen)
	}

	records, _ := store.List(context.Background())
	if len(records) != 1 || records[0].Score != 2 || records[0].Subject != "Physics" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].SessionID != s.Session().ID() {
		t.Error("record should carry the session ID")
	}
}

func TestQuizTaker_FinishFailureRetries(t *testing.T) {
	store := &failingStore{MemoryStore: performance.NewMemoryStore(), fail: true}
	s := newScreen(t, store)

	choose(t, s, keyPress('1'))
	send(s, specialKey(tea.KeyEnter))
	choose(t, s, keyPress('1'))
	send(s, specialKey(tea.KeyEnter))

	cmd := send(s, specialKey(tea.KeyEnter))
	s.Update(cmd())
	if s.Session().Phase() != quiz.PhaseSubmitted {
		t.Fatalf("phase = %s, want submitted after failed save", s.Session().Phase())
	}
	if !strings.Contains(s.View(100, 40), "Could not save your result") {
		t.Error("expected save error in view")
	}

	store.fail = false
	cmd = send(s, specialKey(tea.KeyEnter))
	s.Update(cmd())
	if s.Session().Phase() != quiz.PhaseFinished {
		t.Fatalf("phase = %s, want finished after retry", s.Session().Phase())
	}
	records, _ := store.List(context.Background())
	if len(records) != 1 || records[0].Score != 1 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestQuizTaker_DoubleEnterFinishesOnce(t *testing.T) {
	store := performance.NewMemoryStore()
	s := newScreen(t, store)

	choose(t, s, keyPress('2'))
	send(s, specialKey(tea.KeyEnter))
	choose(t, s, keyPress('1'))
	send(s, specialKey(tea.KeyEnter))

	first := send(s, specialKey(tea.KeyEnter))
	second := send(s, specialKey(tea.KeyEnter))
	if first == nil || second != nil {
		t.Fatal("expected exactly one finish command while saving")
	}
}

func TestQuizTaker_IgnoresKeysOutOfRange(t *testing.T) {
	s := newScreen(t, performance.NewMemoryStore())
	choose(t, s, keyPress('9'))
	if s.Session().SelectedOption() != quiz.Unanswered {
		t.Error("an out-of-range key should not select anything")
	}
}
