package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrecondition is wrapped by every rejected session transition.
	ErrPrecondition = errors.New("precondition violated")

	// ErrMalformedQuiz is wrapped by every quiz validation failure.
	ErrMalformedQuiz = errors.New("malformed quiz")
)

// PreconditionError reports a transition invoked in a state that does not
// allow it. The session state is left unchanged.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

func precondition(op, format string, args ...any) *PreconditionError {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// MalformedQuizError lists every structural problem found in a quiz.
type MalformedQuizError struct {
	Problems []string
}

func (e *MalformedQuizError) Error() string {
	return fmt.Sprintf("malformed quiz: %s", strings.Join(e.Problems, "; "))
}

func (e *MalformedQuizError) Unwrap() error { return ErrMalformedQuiz }
