// Package config resolves examprep settings from flags, EXAMPREP_*
// environment variables, a .env file, and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/logging"
	"github.com/abhisek/examprep/internal/store"
)

const envPrefix = "EXAMPREP"

// Keys understood in config files and as EXAMPREP_* variables. Dots and
// dashes become underscores in the environment, so llm.openai.api-key is
// read from EXAMPREP_LLM_OPENAI_API_KEY.
const (
	KeyConfig       = "config"
	KeyDB           = "db"
	KeyBank         = "bank"
	KeyLogLevel     = "log-level"
	KeyLogFormat    = "log-format"
	KeyLogFile      = "log-file"
	KeyProvider     = "llm.provider"
	KeyModel        = "llm.model"
	KeyTimeout      = "llm.timeout"
	KeyDefaultCount = "quiz.default-count"
)

// Config is the resolved runtime configuration.
type Config struct {
	DB   string `validate:"required"`
	Bank string

	Log logging.Config

	LLM llm.Config
	// LLMConfigured is false when no provider could be resolved. The app
	// still runs with a question bank or the performance dashboard.
	LLMConfigured bool

	DefaultQuestionCount int `validate:"gte=1,lte=10"`

	// File is the config file that was read, if any.
	File string
}

// BindFlags registers the persistent flags every command shares.
func BindFlags(flags *pflag.FlagSet) {
	flags.String(KeyConfig, "", "config file (default: examprep.yaml in ., $XDG_CONFIG_HOME/examprep, ~/.config/examprep)")
	flags.String(KeyDB, "", "path to the SQLite database")
	flags.String(KeyBank, "", "JSON question bank used instead of an LLM for quizzes")
	flags.String(KeyLogLevel, "info", "log level (trace, debug, info, warn, error)")
	flags.String(KeyLogFormat, "text", "log format (text, json)")
	flags.String(KeyLogFile, "", "log file (the TUI logs to <data dir>/examprep.log by default)")
	flags.String("provider", "", "LLM provider (anthropic, openai, gemini, openrouter, mock)")
	flags.String("model", "", "LLM model for the selected provider")
}

var providers = []string{
	llm.ProviderAnthropic,
	llm.ProviderOpenAI,
	llm.ProviderGemini,
	llm.ProviderOpenRouter,
}

// New builds a viper instance bound to flags and the environment, reading
// the config file if one is found. flags may be nil.
func New(flags *pflag.FlagSet) (*viper.Viper, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	v := viper.New()
	if flags != nil {
		for _, key := range []string{KeyConfig, KeyDB, KeyBank, KeyLogLevel, KeyLogFormat, KeyLogFile} {
			if f := flags.Lookup(key); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
		if f := flags.Lookup("provider"); f != nil {
			_ = v.BindPFlag(KeyProvider, f)
		}
		if f := flags.Lookup("model"); f != nil {
			_ = v.BindPFlag(KeyModel, f)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	defaults := llm.DefaultConfig()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyTimeout, defaults.Timeout)
	v.SetDefault(KeyDefaultCount, 5)
	v.SetDefault("llm.anthropic.model", defaults.Anthropic.Model)
	v.SetDefault("llm.openai.model", defaults.OpenAI.Model)
	v.SetDefault("llm.gemini.model", defaults.Gemini.Model)
	v.SetDefault("llm.openrouter.model", defaults.OpenRouter.Model)
	for _, p := range providers {
		_ = v.BindEnv("llm." + p + ".api-key")
		_ = v.BindEnv("llm." + p + ".base-url")
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("examprep")
	for _, dir := range searchPaths() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load resolves the full Config.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v, err := New(flags)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper converts a bound viper instance into a validated Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DB:   v.GetString(KeyDB),
		Bank: v.GetString(KeyBank),
		Log: logging.Config{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   v.GetString(KeyLogFile),
		},
		DefaultQuestionCount: v.GetInt(KeyDefaultCount),
		File:                 v.ConfigFileUsed(),
	}
	if cfg.DB == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DB = path
	}

	llmCfg, ok, err := resolveLLM(v)
	if err != nil {
		return nil, err
	}
	cfg.LLM = llmCfg
	cfg.LLMConfigured = ok

	if err := validate.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	return cfg, nil
}

var validate = validator.New()

func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.StructField() {
		case "DefaultQuestionCount":
			msgs = append(msgs, fmt.Sprintf("%s must be between 1 and 10, got %v", KeyDefaultCount, fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func resolveLLM(v *viper.Viper) (llm.Config, bool, error) {
	cfg := llm.DefaultConfig()
	cfg.Timeout = v.GetDuration(KeyTimeout)
	cfg.Anthropic = llm.AnthropicConfig{
		APIKey:  v.GetString("llm.anthropic.api-key"),
		Model:   v.GetString("llm.anthropic.model"),
		BaseURL: v.GetString("llm.anthropic.base-url"),
	}
	cfg.OpenAI = llm.OpenAIConfig{
		APIKey:  v.GetString("llm.openai.api-key"),
		Model:   v.GetString("llm.openai.model"),
		BaseURL: v.GetString("llm.openai.base-url"),
	}
	cfg.Gemini = llm.GeminiConfig{
		APIKey: v.GetString("llm.gemini.api-key"),
		Model:  v.GetString("llm.gemini.model"),
	}
	cfg.OpenRouter = llm.OpenRouterConfig{
		APIKey:  v.GetString("llm.openrouter.api-key"),
		Model:   v.GetString("llm.openrouter.model"),
		BaseURL: v.GetString("llm.openrouter.base-url"),
	}

	provider := strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider)))
	if provider == "" {
		for _, p := range providers {
			if v.GetString("llm."+p+".api-key") != "" {
				provider = p
				break
			}
		}
	}
	if provider == "" {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, false, nil
		}
		discovered.Timeout = cfg.Timeout
		cfg = discovered
		provider = cfg.Provider
	}
	cfg.Provider = provider

	if model := v.GetString(KeyModel); model != "" {
		setModel(&cfg, model)
	}
	if err := cfg.Validate(); err != nil {
		return llm.Config{}, false, err
	}
	return cfg, true, nil
}

func setModel(cfg *llm.Config, model string) {
	switch cfg.Provider {
	case llm.ProviderAnthropic:
		cfg.Anthropic.Model = model
	case llm.ProviderOpenAI:
		cfg.OpenAI.Model = model
	case llm.ProviderGemini:
		cfg.Gemini.Model = model
	case llm.ProviderOpenRouter:
		cfg.OpenRouter.Model = model
	}
}

// loadDotenv reads .env from the working directory. A missing file is fine;
// variables already set in the environment win.
func loadDotenv() error {
	path := os.Getenv(envPrefix + "_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func searchPaths() []string {
	paths := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "examprep"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "examprep"))
	}
	return paths
}
