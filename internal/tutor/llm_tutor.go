package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/logging"
	"github.com/abhisek/examprep/internal/quiz"
)

// Config controls LLM request parameters per capability.
type Config struct {
	QuizMaxTokens    int
	ExplainMaxTokens int
	Temperature      float64
}

// DefaultConfig returns recommended request parameters.
func DefaultConfig() Config {
	return Config{
		QuizMaxTokens:    4096,
		ExplainMaxTokens: 2048,
		Temperature:      0.7,
	}
}

// LLMTutor implements ContentProvider with an LLM provider.
type LLMTutor struct {
	provider llm.Provider
	config   Config
}

var _ ContentProvider = (*LLMTutor)(nil)

// NewLLMTutor creates a tutor backed by provider.
func NewLLMTutor(provider llm.Provider, cfg Config) *LLMTutor {
	return &LLMTutor{provider: provider, config: cfg}
}

type quizOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// GenerateQuiz asks the model for count questions on subject.
func (t *LLMTutor) GenerateQuiz(ctx context.Context, subject quiz.Subject, count int) (*quiz.Quiz, error) {
	if !subject.Valid() {
		return nil, fmt.Errorf("unknown subject %q", subject)
	}
	if err := CheckCount(count); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)
	log := logging.FromContext(ctx).WithFields(logrus.Fields{"subject": subject, "count": count})
	start := time.Now()

	resp, err := t.provider.Generate(ctx, llm.Request{
		System: quizPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuizMessage(subject, count)},
		},
		Schema:      quizSchema(count),
		MaxTokens:   t.config.QuizMaxTokens,
		Temperature: t.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	var out quizOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	q := &quiz.Quiz{Subject: subject, Questions: out.Questions}
	if err := quiz.Validate(*q); err != nil {
		log.WithError(err).Warn("model returned a malformed quiz")
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	if q.Len() != count {
		return nil, fmt.Errorf("generate quiz: %w", &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("got %d questions, asked for %d", q.Len(), count),
		})
	}

	log.WithField("elapsed", time.Since(start)).Info("quiz generated")
	return q, nil
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
}

// Explain walks through the question step by step.
func (t *LLMTutor) Explain(ctx context.Context, in ExplainInput) (*Explanation, error) {
	if in.Empty() {
		return nil, ErrEmptyQuestion
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
	msg := llm.Message{Role: llm.RoleUser, Content: buildExplainMessage(in)}
	if in.Image != nil {
		msg.Images = []llm.Image{{MIMEType: in.Image.MIMEType, Data: in.Image.Data}}
	}

	resp, err := t.provider.Generate(ctx, llm.Request{
		System:      tutorPrompt,
		Messages:    []llm.Message{msg},
		Schema:      ExplanationSchema,
		MaxTokens:   t.config.ExplainMaxTokens,
		Temperature: t.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}

	var out explanationOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}
	if trimmed(out.Explanation) == "" {
		return nil, fmt.Errorf("explain: %w", errors.New("model returned an empty explanation"))
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"has_image": in.Image != nil,
		"chars":     len(out.Explanation),
	}).Info("question explained")
	return &Explanation{Question: trimmed(in.Question), Text: out.Explanation}, nil
}

type simplifiedOutput struct {
	Simplified string `json:"simplified_explanation"`
}

// Simplify rewrites in.Explanation for a confused student.
func (t *LLMTutor) Simplify(ctx context.Context, in SimplifyInput) (string, error) {
	if trimmed(in.Explanation) == "" {
		return "", errors.New("simplify: nothing to simplify")
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeSimplify)
	resp, err := t.provider.Generate(ctx, llm.Request{
		System: simplifyPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSimplifyMessage(in)},
		},
		Schema:      SimplifiedSchema,
		MaxTokens:   t.config.ExplainMaxTokens,
		Temperature: t.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("simplify: %w", err)
	}

	var out simplifiedOutput
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("simplify: %w", err)
	}
	if trimmed(out.Simplified) == "" {
		return "", errors.New("simplify: model returned an empty explanation")
	}
	return out.Simplified, nil
}
