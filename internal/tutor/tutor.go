// Package tutor produces quizzes, explanations, and simplified explanations
// for the student. LLMTutor talks to an llm.Provider; BankTutor serves
// quizzes from a local question bank.
package tutor

import (
	"context"
	"errors"

	"github.com/abhisek/examprep/internal/quiz"
)

// Question count bounds for a generated quiz.
const (
	MinQuestions = 1
	MaxQuestions = 10
)

var (
	// ErrQuestionCount is returned when a quiz is requested with a count
	// outside [MinQuestions, MaxQuestions].
	ErrQuestionCount = errors.New("question count must be between 1 and 10")

	// ErrEmptyQuestion is returned by Explain when neither text nor an
	// image was given.
	ErrEmptyQuestion = errors.New("no question text or image was provided")

	// ErrUnavailable is returned by capabilities a tutor does not offer.
	ErrUnavailable = errors.New("not available without an LLM provider")
)

// ContentProvider is everything the app asks of a tutor.
type ContentProvider interface {
	// GenerateQuiz returns a validated quiz with exactly count questions.
	GenerateQuiz(ctx context.Context, subject quiz.Subject, count int) (*quiz.Quiz, error)

	// Explain walks through a question step by step.
	Explain(ctx context.Context, in ExplainInput) (*Explanation, error)

	// Simplify rewrites an earlier explanation in simpler language.
	Simplify(ctx context.Context, in SimplifyInput) (string, error)
}

// ExplainInput is a question typed by the student, a photo of one, or both.
type ExplainInput struct {
	Question string
	Image    *Image
}

// Empty reports whether the input carries neither text nor an image.
func (in ExplainInput) Empty() bool {
	return trimmed(in.Question) == "" && in.Image == nil
}

// Explanation is the tutor's markdown answer to an ExplainInput.
type Explanation struct {
	Question string
	Text     string
}

// SimplifyInput is the original question and the explanation the student
// found confusing.
type SimplifyInput struct {
	Question    string
	Explanation string
}

// CheckCount validates a requested question count.
func CheckCount(count int) error {
	if count < MinQuestions || count > MaxQuestions {
		return ErrQuestionCount
	}
	return nil
}
