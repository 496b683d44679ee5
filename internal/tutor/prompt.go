package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/examprep/internal/quiz"
)

const tutorPrompt = `You are an AI tutor designed to help secondary-school students understand WAEC-style questions in a simple, clear, and accessible way. Your role is to provide step-by-step explanations, break down complex concepts, and communicate at the level of students aged 14-18.

Always explain answers step-by-step, showing reasoning in simple language.
Avoid overly technical jargon unless required, and explain it when you use it.
Keep answers concise, student-friendly, and exam-focused.
Offer alternative approaches when relevant (e.g., shortcut method, formula method).

For WAEC question explanations, structure responses as:

Restate the question
Key idea/concept needed
Step-by-step explanation
Final answer
(Optional) Tip for revision

Write the explanation in markdown. Use **bold** for headings and fenced code blocks for working.`

const quizPrompt = `You write WAEC-style multiple-choice quizzes for secondary-school students.

Rules:
- Match the style and difficulty of past WAEC (SSCE) papers for the subject.
- Every question has exactly 4 options and exactly one correct option.
- Distractors should reflect common mistakes, not random values.
- Options are plain text without "A.", "B." prefixes.
- Spread the correct option across positions; do not always use the same index.
- Each explanation says briefly why the correct option is right.
- Do not repeat a question within the quiz.`

const simplifyPrompt = `You are an AI tutor who specializes in simplifying explanations for secondary school students.`

const imageOnlyText = "The user uploaded an image without additional text. Please analyze the image to identify and answer the question."

func buildQuizMessage(subject quiz.Subject, count int) string {
	return fmt.Sprintf("Generate a WAEC-style quiz for the subject of %s with %d questions, and provide an answer key.", subject, count)
}

func buildExplainMessage(in ExplainInput) string {
	if q := trimmed(in.Question); q != "" {
		return "Question Text: " + q
	}
	return imageOnlyText
}

func buildSimplifyMessage(in SimplifyInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A student asked the following question: %s\n\n", trimmed(in.Question))
	fmt.Fprintf(&b, "You provided the following explanation: %s\n\n", trimmed(in.Explanation))
	b.WriteString("The student is still confused. Simplify your explanation so that it is easier to understand.\n\n")
	b.WriteString("Ensure the simplified explanation is still accurate and complete, but uses simpler language and avoids jargon.")
	return b.String()
}
