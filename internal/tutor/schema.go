package tutor

import (
	"fmt"

	"github.com/abhisek/examprep/internal/llm"
)

// quizSchema asks for exactly count questions. The count is part of the
// schema name because compiled schemas are cached by name.
func quizSchema(count int) *llm.Schema {
	return &llm.Schema{
		Name:        fmt.Sprintf("waec-quiz-%d", count),
		Description: "A WAEC-style multiple-choice quiz with an answer key",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": count,
					"maxItems": count,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{
								"type":        "string",
								"description": "The question stem, self-contained, in plain text",
							},
							"options": map[string]any{
								"type":        "array",
								"minItems":    4,
								"maxItems":    4,
								"items":       map[string]any{"type": "string"},
								"description": "Exactly 4 answer options without A-D prefixes",
							},
							"answer": map[string]any{
								"type":        "integer",
								"minimum":     0,
								"maximum":     3,
								"description": "Zero-based index of the correct option",
							},
							"explanation": map[string]any{
								"type":        "string",
								"description": "Why the correct option is right, in a few sentences",
							},
						},
						"required":             []any{"question", "options", "answer", "explanation"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []any{"questions"},
			"additionalProperties": false,
		},
	}
}

// ExplanationSchema is the response shape for Explain.
var ExplanationSchema = &llm.Schema{
	Name:        "waec-explanation",
	Description: "A step-by-step explanation of a WAEC question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "The step-by-step explanation in markdown",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

// SimplifiedSchema is the response shape for Simplify.
var SimplifiedSchema = &llm.Schema{
	Name:        "simplified-explanation",
	Description: "A simpler rewrite of an explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"simplified_explanation": map[string]any{
				"type":        "string",
				"description": "The simplified explanation in markdown",
			},
		},
		"required":             []any{"simplified_explanation"},
		"additionalProperties": false,
	},
}
