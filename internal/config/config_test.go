package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/llm"
)

// isolate clears every variable the loader reads and points the data and
// config dirs at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"EXAMPREP_DB", "EXAMPREP_CONFIG", "EXAMPREP_BANK", "EXAMPREP_LLM_PROVIDER", "EXAMPREP_LLM_MODEL",
		"EXAMPREP_LLM_ANTHROPIC_API_KEY", "EXAMPREP_LLM_OPENAI_API_KEY",
		"EXAMPREP_LLM_GEMINI_API_KEY", "EXAMPREP_LLM_OPENROUTER_API_KEY",
		"EXAMPREP_QUIZ_DEFAULT_COUNT", "EXAMPREP_LLM_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("EXAMPREP_ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	return dir
}

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(flags(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "examprep", "examprep.db"), cfg.DB)
	assert.Equal(t, 5, cfg.DefaultQuestionCount)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.LLMConfigured)
	assert.Empty(t, cfg.File)
}

func TestLoad_EnvProviderKey(t *testing.T) {
	isolate(t)
	t.Setenv("EXAMPREP_LLM_OPENAI_API_KEY", "sk-test")
	t.Setenv("EXAMPREP_LLM_TIMEOUT", "15s")

	cfg, err := Load(flags(t))
	require.NoError(t, err)

	require.True(t, cfg.LLMConfigured)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("EXAMPREP_DB", "/from/env.db")

	cfg, err := Load(flags(t, "--db", "/from/flag.db", "--provider", "mock", "--model", "ignored"))
	require.NoError(t, err)

	assert.Equal(t, "/from/flag.db", cfg.DB)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.True(t, cfg.LLMConfigured)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
}

func TestLoad_ProviderWithoutKey(t *testing.T) {
	isolate(t)
	_, err := Load(flags(t, "--provider", "anthropic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXAMPREP_LLM_ANTHROPIC_API_KEY")
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	confDir := filepath.Join(dir, "config", "examprep")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "examprep.yaml"), []byte(`
db: /tmp/exam.db
quiz:
  default-count: 8
llm:
  provider: anthropic
  anthropic:
    api-key: sk-ant
    model: claude-sonnet
`), 0o644))

	cfg, err := Load(flags(t))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/exam.db", cfg.DB)
	assert.Equal(t, 8, cfg.DefaultQuestionCount)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, "claude-sonnet", cfg.LLM.Anthropic.Model)
	assert.Equal(t, filepath.Join(confDir, "examprep.yaml"), cfg.File)
}

func TestLoad_Dotenv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("EXAMPREP_LLM_GEMINI_API_KEY=from-dotenv\n"), 0o644))
	t.Setenv("EXAMPREP_ENV_FILE", envFile)
	// godotenv never overrides, so the cleared value must be unset.
	require.NoError(t, os.Unsetenv("EXAMPREP_LLM_GEMINI_API_KEY"))
	t.Cleanup(func() { os.Unsetenv("EXAMPREP_LLM_GEMINI_API_KEY") })

	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "from-dotenv", cfg.LLM.Gemini.APIKey)
}

func TestLoad_InvalidCount(t *testing.T) {
	isolate(t)
	t.Setenv("EXAMPREP_QUIZ_DEFAULT_COUNT", "12")

	_, err := Load(flags(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiz.default-count must be between 1 and 10")
}
