package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/config"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/performance"
	"github.com/abhisek/examprep/internal/tutor"
)

// scripted makes buildTutor use mock wrapped in the event logger.
func scripted(t *testing.T, mock *llm.MockProvider) {
	t.Helper()
	prev := newProvider
	newProvider = func(_ context.Context, _ llm.Config, sink llm.EventSink) (llm.Provider, error) {
		return llm.WithLogging(mock, sink), nil
	}
	t.Cleanup(func() { newProvider = prev })
}

func explanation(text string) llm.MockResponse {
	b, _ := json.Marshal(map[string]string{"explanation": text})
	return llm.MockResponse{Content: b}
}

func simplified(text string) llm.MockResponse {
	b, _ := json.Marshal(map[string]string{"simplified_explanation": text})
	return llm.MockResponse{Content: b}
}

func TestExplain(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "exam.db")
	mock := llm.NewMockProvider(explanation("Step 1: substitute x = 2. So k = 8."))
	scripted(t, mock)

	out := run(t, "--db", db, "--provider", "mock", "explain", "If x - 2 is a factor of x² + 2x - k, find k")
	assert.Equal(t, "Step 1: substitute x = 2. So k = 8.\n", out)
	assert.Equal(t, 1, mock.CallCount())

	req, ok := mock.LastCall()
	require.True(t, ok)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "find k")
	assert.Empty(t, req.Messages[0].Images)

	out = run(t, "--db", db, "llm", "list", "--purpose", llm.PurposeExplain)
	assert.Contains(t, out, llm.PurposeExplain)
	assert.Contains(t, out, "✓")
}

func TestExplain_Simplify(t *testing.T) {
	dir := isolate(t)
	mock := llm.NewMockProvider(
		explanation("Rust is iron oxide formed by oxidation."),
		simplified("Iron plus air makes rust."),
	)
	scripted(t, mock)

	out := run(t, "--db", filepath.Join(dir, "exam.db"), "--provider", "mock",
		"explain", "--simplify", "Balance: Fe + O2 -> Fe2O3")
	assert.Contains(t, out, "Rust is iron oxide formed by oxidation.\n")
	assert.Contains(t, out, "In simpler terms\n")
	assert.Contains(t, out, "Iron plus air makes rust.\n")
	assert.Less(t, strings.Index(out, "oxidation"), strings.Index(out, "In simpler terms"))
	assert.Equal(t, 2, mock.CallCount())

	req, _ := mock.LastCall()
	assert.Contains(t, req.Messages[0].Content, "Rust is iron oxide")
}

func TestExplain_Image(t *testing.T) {
	dir := isolate(t)
	img := filepath.Join(dir, "question.png")
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	require.NoError(t, os.WriteFile(img, png, 0o644))

	mock := llm.NewMockProvider(explanation("The diagram shows a right triangle."))
	scripted(t, mock)

	out := run(t, "--db", filepath.Join(dir, "exam.db"), "--provider", "mock", "explain", "--image", img)
	assert.Equal(t, "The diagram shows a right triangle.\n", out)

	req, ok := mock.LastCall()
	require.True(t, ok)
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, "image/png", req.Messages[0].Images[0].MIMEType)
}

func TestExplain_Errors(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "exam.db")
	mock := llm.NewMockProvider()
	scripted(t, mock)

	_, err := execute(t, "--db", db, "--provider", "mock", "explain", "   ")
	assert.ErrorIs(t, err, tutor.ErrEmptyQuestion)

	_, err = execute(t, "--db", db, "explain", "What is 2 + 2?")
	assert.ErrorIs(t, err, errNoProvider)

	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("just some notes"), 0o644))
	_, err = execute(t, "--db", db, "--provider", "mock", "explain", "--image", text)
	assert.ErrorContains(t, err, "unsupported image type")

	assert.Zero(t, mock.CallCount())
}

func TestAppOptions_Ephemeral(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "exam.db")
	mock := llm.DefaultConfig()
	mock.Provider = llm.ProviderMock
	settings = &config.Config{DB: db, LLM: mock, LLMConfigured: true}

	opts, closeStore, err := appOptions(context.Background(), true)
	require.NoError(t, err)
	require.NoError(t, closeStore())

	assert.IsType(t, &performance.MemoryStore{}, opts.Performance)
	assert.True(t, opts.CanExplain)
	assert.Equal(t, "mock", opts.Status)
	assert.NoFileExists(t, db, "an ephemeral run must not create the database")
}

func TestAppOptions_Persistent(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "exam.db")
	settings = &config.Config{DB: db}

	opts, closeStore, err := appOptions(context.Background(), false)
	require.NoError(t, err)
	defer closeStore()

	_, inMemory := opts.Performance.(*performance.MemoryStore)
	assert.False(t, inMemory)
	assert.Nil(t, opts.Tutor)
	assert.Equal(t, "offline", opts.Status)
	assert.FileExists(t, db)
}
