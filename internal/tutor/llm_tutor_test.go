package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/quiz"
)

func quizJSON(n int) json.RawMessage {
	qs := make([]string, n)
	for i := range qs {
		qs[i] = fmt.Sprintf(`{"question":"What is %d + 1?","options":["%d","%d","%d","%d"],"answer":1,"explanation":"Add one."}`,
			i, i, i+1, i+2, i+3)
	}
	return json.RawMessage(`{"questions":[` + strings.Join(qs, ",") + `]}`)
}

func TestGenerateQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(3)})
	tut := NewLLMTutor(mock, DefaultConfig())

	q, err := tut.GenerateQuiz(context.Background(), quiz.SubjectMaths, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Subject != quiz.SubjectMaths || q.Len() != 3 {
		t.Fatalf("got subject=%s len=%d", q.Subject, q.Len())
	}
	if !q.Questions[2].Correct(1) || q.Questions[2].Options[1] != "3" {
		t.Errorf("unexpected third question: %+v", q.Questions[2])
	}

	req, _ := mock.LastCall()
	if req.Schema == nil || req.Schema.Name != "waec-quiz-3" {
		t.Errorf("unexpected schema: %+v", req.Schema)
	}
	if !strings.Contains(req.Messages[0].Content, "subject of Maths with 3 questions") {
		t.Errorf("prompt missing subject and count: %q", req.Messages[0].Content)
	}
}

func TestGenerateQuiz_RejectsWrongCount(t *testing.T) {
	for _, got := range []int{2, 4} {
		mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(got)})
		tut := NewLLMTutor(mock, DefaultConfig())

		q, err := tut.GenerateQuiz(context.Background(), quiz.SubjectPhysics, 3)
		var invErr *llm.ErrInvalidResponse
		if !errors.As(err, &invErr) {
			t.Fatalf("%d questions for 3: expected ErrInvalidResponse, got %v", got, err)
		}
		if q != nil {
			t.Errorf("%d questions for 3: expected no quiz, got %d questions", got, q.Len())
		}
	}
}

func TestGenerateQuiz_Malformed(t *testing.T) {
	bad := json.RawMessage(`{"questions":[{"question":"  ","options":["a","b","c","d"],"answer":0,"explanation":"x"}]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: bad})
	tut := NewLLMTutor(mock, DefaultConfig())

	_, err := tut.GenerateQuiz(context.Background(), quiz.SubjectEnglish, 1)
	if !errors.Is(err, quiz.ErrMalformedQuiz) {
		t.Fatalf("expected ErrMalformedQuiz, got %v", err)
	}
}

func TestGenerateQuiz_BadInput(t *testing.T) {
	tut := NewLLMTutor(llm.NewMockProvider(), DefaultConfig())

	for _, n := range []int{0, 11, -1} {
		if _, err := tut.GenerateQuiz(context.Background(), quiz.SubjectBiology, n); !errors.Is(err, ErrQuestionCount) {
			t.Errorf("count %d: expected ErrQuestionCount, got %v", n, err)
		}
	}
	if _, err := tut.GenerateQuiz(context.Background(), quiz.Subject("History"), 5); err == nil {
		t.Error("expected error for unknown subject")
	}
}

func TestGenerateQuiz_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	tut := NewLLMTutor(mock, DefaultConfig())

	_, err := tut.GenerateQuiz(context.Background(), quiz.SubjectChemistry, 2)
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"**Restate the question**\n2 + 2 = ?"}`),
	})
	tut := NewLLMTutor(mock, DefaultConfig())

	exp, err := tut.Explain(context.Background(), ExplainInput{Question: "  What is 2 + 2?  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.Question != "What is 2 + 2?" || !strings.HasPrefix(exp.Text, "**Restate") {
		t.Errorf("unexpected explanation: %+v", exp)
	}

	req, _ := mock.LastCall()
	if req.Messages[0].Content != "Question Text: What is 2 + 2?" {
		t.Errorf("unexpected user message: %q", req.Messages[0].Content)
	}
	if !strings.Contains(req.System, "aged 14-18") {
		t.Error("system prompt should target students aged 14-18")
	}
}

func TestExplain_ImageOnly(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"explanation":"The image shows a triangle."}`)})
	tut := NewLLMTutor(mock, DefaultConfig())

	img := &Image{MIMEType: "image/png", Data: []byte("png")}
	if _, err := tut.Explain(context.Background(), ExplainInput{Image: img}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, _ := mock.LastCall()
	msg := req.Messages[0]
	if msg.Content != imageOnlyText {
		t.Errorf("unexpected text: %q", msg.Content)
	}
	if len(msg.Images) != 1 || msg.Images[0].MIMEType != "image/png" {
		t.Errorf("image not attached: %+v", msg.Images)
	}
}

func TestExplain_Empty(t *testing.T) {
	mock := llm.NewMockProvider()
	tut := NewLLMTutor(mock, DefaultConfig())

	if _, err := tut.Explain(context.Background(), ExplainInput{Question: "   "}); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Error("provider should not be called for empty input")
	}
}

func TestSimplify(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"simplified_explanation":"Two apples and two more make four."}`),
	})
	tut := NewLLMTutor(mock, DefaultConfig())

	got, err := tut.Simplify(context.Background(), SimplifyInput{
		Question:    "What is 2 + 2?",
		Explanation: "By the axioms of arithmetic...",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Two apples and two more make four." {
		t.Errorf("got %q", got)
	}

	req, _ := mock.LastCall()
	body := req.Messages[0].Content
	if !strings.Contains(body, "What is 2 + 2?") || !strings.Contains(body, "By the axioms") {
		t.Errorf("prompt should carry question and explanation: %q", body)
	}
}

func TestSimplify_Empty(t *testing.T) {
	tut := NewLLMTutor(llm.NewMockProvider(), DefaultConfig())
	if _, err := tut.Simplify(context.Background(), SimplifyInput{Question: "q"}); err == nil {
		t.Fatal("expected error for empty explanation")
	}
}
