package tutor

import (
	"context"

	"github.com/abhisek/examprep/internal/quiz"
)

// Split serves quizzes from one provider and explanations from another, so
// a local question bank can be paired with an LLM tutor.
type Split struct {
	Quizzes   ContentProvider
	Explainer ContentProvider
}

var _ ContentProvider = Split{}

func (s Split) GenerateQuiz(ctx context.Context, subject quiz.Subject, count int) (*quiz.Quiz, error) {
	return s.Quizzes.GenerateQuiz(ctx, subject, count)
}

func (s Split) Explain(ctx context.Context, in ExplainInput) (*Explanation, error) {
	return s.Explainer.Explain(ctx, in)
}

func (s Split) Simplify(ctx context.Context, in SimplifyInput) (string, error) {
	return s.Explainer.Simplify(ctx, in)
}
