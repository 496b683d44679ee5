package quiz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/examprep/internal/performance"
)

// Session drives one attempt at a quiz. All methods are safe for concurrent
// use; a rejected call leaves the session unchanged.
type Session struct {
	mu        sync.Mutex
	id        string
	quiz      Quiz
	state     State
	startedAt time.Time
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for the start and completion
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// NewSession validates q and starts a session on the first question.
func NewSession(q Quiz, opts ...Option) (*Session, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}
	s := &Session{
		id:    uuid.NewString(),
		quiz:  q.clone(),
		state: NewState(len(q.Questions)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Subject returns the quiz subject.
func (s *Session) Subject() Subject { return s.quiz.Subject }

// Total returns the number of questions.
func (s *Session) Total() int { return len(s.quiz.Questions) }

// Quiz returns a copy of the quiz being taken.
func (s *Session) Quiz() Quiz { return s.quiz.clone() }

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase()
}

// Current returns the index and content of the current question.
func (s *Session) Current() (int, Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentIndex, s.quiz.Questions[s.state.CurrentIndex]
}

// SelectedOption returns the option chosen for the current question, or
// Unanswered.
func (s *Session) SelectedOption() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Selected[s.state.CurrentIndex]
}

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentIndex == len(s.quiz.Questions)-1
}

// CanAdvance reports whether Advance would succeed.
func (s *Session) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := Advance(&s.quiz, s.state)
	return err == nil
}

// CanSubmit reports whether Submit would succeed.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := Submit(&s.quiz, s.state)
	return err == nil
}

// Progress returns the fraction of the quiz reached, counting the current
// question as reached.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.state.CurrentIndex+1) / float64(len(s.quiz.Questions))
}

// Score returns the number of correct answers. It is zero until the quiz
// has been submitted.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Score()
}

// Percentage returns the rounded score percentage.
func (s *Session) Percentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return performance.Percentage(s.state.Score(), len(s.quiz.Questions))
}

// SelectAnswer records option for the current question.
func (s *Session) SelectAnswer(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := SelectAnswer(&s.quiz, s.state, option)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Advance moves to the next question.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Advance(&s.quiz, s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Submit grades the quiz.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Submit(&s.quiz, s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Finish appends the result to store and closes the session. If the append
// fails the session stays submitted and Finish may be retried. A nil store
// closes the session without recording anything.
func (s *Session) Finish(ctx context.Context, store performance.Appender) (performance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, rec, err := Finish(&s.quiz, s.state, s.now())
	if err != nil {
		return performance.Record{}, err
	}
	rec.SessionID = s.id

	if store != nil {
		if err := store.Append(ctx, rec); err != nil {
			return performance.Record{}, fmt.Errorf("append performance record: %w", err)
		}
	}
	s.state = next
	return rec, nil
}

// Result is the graded view of one question after submission.
type Result struct {
	Question Question
	Selected int
	State    AnswerState
}

// Results returns one entry per question in quiz order.
func (s *Session) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.quiz.Questions))
	for i, q := range s.quiz.Questions {
		out[i] = Result{
			Question: q,
			Selected: s.state.Selected[i],
			State:    s.state.AnswerStates[i],
		}
	}
	return out
}
