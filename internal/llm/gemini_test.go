package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"age":   map[string]any{"type": "integer"},
			"grade": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			"scores": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
				"minItems": 4,
				"maxItems": 4,
			},
		},
		"required": []any{"name", "age"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["name"].Type != "STRING" {
		t.Fatalf("expected STRING for name, got %s", schema.Properties["name"].Type)
	}
	if schema.Properties["age"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for age, got %s", schema.Properties["age"].Type)
	}
	if len(schema.Properties["grade"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["grade"].Enum))
	}
	if schema.Properties["scores"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for scores, got %s", schema.Properties["scores"].Type)
	}
	if schema.Properties["scores"].Items.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for scores items, got %s", schema.Properties["scores"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
	scores := schema.Properties["scores"]
	if scores.MinItems == nil || *scores.MinItems != 4 || scores.MaxItems == nil || *scores.MaxItems != 4 {
		t.Fatalf("expected minItems/maxItems 4, got %v/%v", scores.MinItems, scores.MaxItems)
	}
	if scores.Items.Maximum == nil || *scores.Items.Maximum != 3 {
		t.Fatalf("expected item maximum 3, got %v", scores.Items.Maximum)
	}
}

func TestBuildGeminiContents_InlineImage(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "Explain this circuit.", Images: []Image{{MIMEType: "image/webp", Data: []byte("webp")}}},
		{Role: RoleAssistant, Content: "It is a series circuit."},
	})
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	user := contents[0]
	if user.Role != "user" || len(user.Parts) != 2 {
		t.Fatalf("unexpected user content: role=%s parts=%d", user.Role, len(user.Parts))
	}
	blob := user.Parts[1].InlineData
	if blob == nil || blob.MIMEType != "image/webp" || string(blob.Data) != "webp" {
		t.Fatalf("unexpected inline data: %+v", blob)
	}
	if contents[1].Role != "model" {
		t.Fatalf("assistant role = %q, want model", contents[1].Role)
	}
}
