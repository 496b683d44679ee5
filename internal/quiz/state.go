package quiz

import (
	"time"

	"github.com/abhisek/examprep/internal/performance"
)

// Unanswered marks a question with no selected option.
const Unanswered = -1

// AnswerState is the graded outcome of one question.
type AnswerState string

const (
	AnswerUnanswered AnswerState = "unanswered"
	AnswerCorrect    AnswerState = "correct"
	AnswerIncorrect  AnswerState = "incorrect"
)

// Phase is the lifecycle position of a quiz session.
type Phase int

const (
	PhaseInProgress Phase = iota // Answering questions
	PhaseSubmitted               // Results computed, not yet recorded
	PhaseFinished                // Result appended to the performance store
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseSubmitted:
		return "submitted"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// State is the progress through one quiz. Transitions never mutate the
// state they are given.
type State struct {
	CurrentIndex int
	Selected     []int
	AnswerStates []AnswerState
	Submitted    bool
	Finished     bool
}

// NewState returns the initial state for a quiz of n questions.
func NewState(n int) State {
	st := State{
		Selected:     make([]int, n),
		AnswerStates: make([]AnswerState, n),
	}
	for i := range st.Selected {
		st.Selected[i] = Unanswered
		st.AnswerStates[i] = AnswerUnanswered
	}
	return st
}

// Phase derives the lifecycle phase from the state flags.
func (s State) Phase() Phase {
	switch {
	case s.Finished:
		return PhaseFinished
	case s.Submitted:
		return PhaseSubmitted
	}
	return PhaseInProgress
}

// Score counts the questions graded correct.
func (s State) Score() int {
	n := 0
	for _, a := range s.AnswerStates {
		if a == AnswerCorrect {
			n++
		}
	}
	return n
}

func (s State) clone() State {
	s.Selected = append([]int(nil), s.Selected...)
	s.AnswerStates = append([]AnswerState(nil), s.AnswerStates...)
	return s
}

func checkShape(op string, q *Quiz, st State) error {
	n := len(q.Questions)
	if n == 0 {
		return precondition(op, "quiz has no questions")
	}
	if len(st.Selected) != n || len(st.AnswerStates) != n {
		return precondition(op, "state does not match a quiz of %d questions", n)
	}
	if st.CurrentIndex < 0 || st.CurrentIndex >= n {
		return precondition(op, "current index %d out of range", st.CurrentIndex)
	}
	return nil
}

// SelectAnswer records option as the answer to the current question.
// Selecting again replaces the earlier choice.
func SelectAnswer(q *Quiz, st State, option int) (State, error) {
	const op = "select answer"
	if err := checkShape(op, q, st); err != nil {
		return st, err
	}
	if st.Submitted {
		return st, precondition(op, "quiz already submitted")
	}
	opts := q.Questions[st.CurrentIndex].Options
	if option < 0 || option >= len(opts) {
		return st, precondition(op, "option %d out of range [0,%d)", option, len(opts))
	}

	next := st.clone()
	next.Selected[st.CurrentIndex] = option
	return next, nil
}

// Advance moves to the next question. The current question must be
// answered and must not be the last one.
func Advance(q *Quiz, st State) (State, error) {
	const op = "advance"
	if err := checkShape(op, q, st); err != nil {
		return st, err
	}
	if st.Submitted {
		return st, precondition(op, "quiz already submitted")
	}
	if st.CurrentIndex >= len(q.Questions)-1 {
		return st, precondition(op, "already on the last question")
	}
	if st.Selected[st.CurrentIndex] == Unanswered {
		return st, precondition(op, "question %d has no answer selected", st.CurrentIndex+1)
	}

	next := st.clone()
	next.CurrentIndex++
	return next, nil
}

// Submit grades every question. It is allowed once, on the last question,
// after that question has been answered.
func Submit(q *Quiz, st State) (State, error) {
	const op = "submit"
	if err := checkShape(op, q, st); err != nil {
		return st, err
	}
	if st.Submitted {
		return st, precondition(op, "quiz already submitted")
	}
	if st.CurrentIndex != len(q.Questions)-1 {
		return st, precondition(op, "question %d of %d is not the last", st.CurrentIndex+1, len(q.Questions))
	}
	if st.Selected[st.CurrentIndex] == Unanswered {
		return st, precondition(op, "last question has no answer selected")
	}

	next := st.clone()
	for i, question := range q.Questions {
		switch sel := next.Selected[i]; {
		case sel == Unanswered:
			next.AnswerStates[i] = AnswerIncorrect
		case question.Correct(sel):
			next.AnswerStates[i] = AnswerCorrect
		default:
			next.AnswerStates[i] = AnswerIncorrect
		}
	}
	next.Submitted = true
	return next, nil
}

// Finish closes a submitted quiz and returns the record to append. The
// record's SessionID is left for the caller to fill in.
func Finish(q *Quiz, st State, now time.Time) (State, performance.Record, error) {
	const op = "finish"
	if err := checkShape(op, q, st); err != nil {
		return st, performance.Record{}, err
	}
	if !st.Submitted {
		return st, performance.Record{}, precondition(op, "quiz not submitted")
	}
	if st.Finished {
		return st, performance.Record{}, precondition(op, "quiz already finished")
	}

	rec := performance.Record{
		Subject:        string(q.Subject),
		Score:          st.Score(),
		TotalQuestions: len(q.Questions),
		CompletedAt:    now,
	}
	next := st.clone()
	next.Finished = true
	return next, rec, nil
}
