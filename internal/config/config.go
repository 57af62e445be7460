// Package config loads sqltutor settings from a YAML file, SQLTUTOR_*
// environment variables and the standard provider API key variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/logging"
	"github.com/abhisek/sqltutor/internal/similarity"
	"github.com/abhisek/sqltutor/internal/sqldb"
	"github.com/abhisek/sqltutor/internal/store"
	"github.com/abhisek/sqltutor/internal/tutor"
)

// EnvPrefix prefixes every environment override, e.g. SQLTUTOR_LLM_PROVIDER.
const EnvPrefix = "SQLTUTOR"

type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Tutor     TutorConfig     `mapstructure:"tutor"`
	SampleDB  SampleDBConfig  `mapstructure:"sample_db"`
	DB        DBConfig        `mapstructure:"db"`
	Exercises ExercisesConfig `mapstructure:"exercises"`
	Log       LogConfig       `mapstructure:"log"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LLMConfig struct {
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
	Retry      RetryConfig    `mapstructure:"retry"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

type EmbeddingConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

type TutorConfig struct {
	MaxAttempts int                   `mapstructure:"max_attempts"`
	Thresholds  similarity.Thresholds `mapstructure:"thresholds"`
	// Generate enables AI exercise generation once a tier is complete.
	Generate bool `mapstructure:"generate"`
}

type SampleDBConfig struct {
	Path         string        `mapstructure:"path"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type ExercisesConfig struct {
	// Path is a JSON or YAML bank replacing the built-in one.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultPath returns $XDG_CONFIG_HOME/sqltutor/config.yaml, falling back
// to ~/.config/sqltutor/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sqltutor", "config.yaml"), nil
}

// Load reads configuration. An explicit path must exist; without one the
// default location is tried and silently skipped when absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short forms and the vendors' own key variables.
	_ = v.BindEnv("db.path", EnvPrefix+"_DB_PATH", EnvPrefix+"_DB")
	_ = v.BindEnv("sample_db.path", EnvPrefix+"_SAMPLE_DB_PATH", EnvPrefix+"_SAMPLE_DB")
	_ = v.BindEnv("exercises.path", EnvPrefix+"_EXERCISES_PATH", EnvPrefix+"_EXERCISES")
	_ = v.BindEnv("llm.anthropic.api_key", EnvPrefix+"_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.openai.api_key", EnvPrefix+"_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.gemini.api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("llm.openrouter.api_key", EnvPrefix+"_LLM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
	} else if def, err := DefaultPath(); err == nil {
		v.SetConfigFile(def)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "":
			return nil, fmt.Errorf("read config %s: %w", path, err)
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.File); err != nil {
		cfg.File = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", llmDefaults.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", llmDefaults.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", llmDefaults.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", llmDefaults.Retry.Multiplier)

	v.SetDefault("embedding.provider", "")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "")

	th := similarity.DefaultThresholds()
	v.SetDefault("tutor.max_attempts", tutor.DefaultMaxAttempts)
	v.SetDefault("tutor.thresholds.near_miss", th.NearMiss)
	v.SetDefault("tutor.thresholds.structural", th.Structural)
	v.SetDefault("tutor.thresholds.conceptual", th.Conceptual)
	v.SetDefault("tutor.generate", true)

	v.SetDefault("sample_db.path", "")
	v.SetDefault("sample_db.query_timeout", 10*time.Second)
	v.SetDefault("db.path", "")
	v.SetDefault("exercises.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.console", false)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "", "anthropic", "openai", "gemini", "openrouter", "mock":
	default:
		return fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider)
	}
	switch c.Embedding.Provider {
	case "", "openai", "gemini", "lexical", "mock":
	default:
		return fmt.Errorf("embedding.provider: unknown provider %q", c.Embedding.Provider)
	}
	if c.Tutor.MaxAttempts < 1 {
		return fmt.Errorf("tutor.max_attempts must be at least 1, got %d", c.Tutor.MaxAttempts)
	}
	if err := c.Tutor.Thresholds.Validate(); err != nil {
		return fmt.Errorf("tutor.thresholds: %w", err)
	}
	if c.SampleDB.QueryTimeout < 0 || c.LLM.Timeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LLMProvider converts the llm section into a provider configuration, discovering
// the provider from the configured keys when none is named.
func (c *Config) LLMProvider() llm.Config {
	out := llm.Config{
		Provider:   c.LLM.Provider,
		Anthropic:  llm.AnthropicConfig{APIKey: c.LLM.Anthropic.APIKey, Model: c.LLM.Anthropic.Model},
		OpenAI:     llm.OpenAIConfig{APIKey: c.LLM.OpenAI.APIKey, Model: c.LLM.OpenAI.Model, BaseURL: c.LLM.OpenAI.BaseURL},
		Gemini:     llm.GeminiConfig{APIKey: c.LLM.Gemini.APIKey, Model: c.LLM.Gemini.Model},
		OpenRouter: llm.OpenRouterConfig{APIKey: c.LLM.OpenRouter.APIKey, Model: c.LLM.OpenRouter.Model, BaseURL: c.LLM.OpenRouter.BaseURL},
		Retry: llm.RetryConfig{
			MaxAttempts: c.LLM.Retry.MaxAttempts,
			InitialWait: c.LLM.Retry.InitialWait,
			MaxWait:     c.LLM.Retry.MaxWait,
			Multiplier:  c.LLM.Retry.Multiplier,
		},
		Timeout: c.LLM.Timeout,
	}
	out, _ = llm.DiscoverProvider(out)
	return out
}

// EmbeddingProvider returns the embedding configuration, following the text
// provider when the embedding provider is not set.
func (c *Config) EmbeddingProvider() llm.EmbeddingConfig {
	return llm.ResolveEmbedding(llm.EmbeddingConfig{
		Provider: c.Embedding.Provider,
		Model:    c.Embedding.Model,
		APIKey:   c.Embedding.APIKey,
		BaseURL:  c.Embedding.BaseURL,
	}, c.LLMProvider())
}

// Logging returns the logger configuration. console forces stderr output
// on top of the configured setting.
func (c *Config) Logging(console bool) logging.Config {
	out := logging.DefaultConfig()
	out.Level = c.Log.Level
	if c.Log.File != "" {
		out.File = c.Log.File
	}
	out.Console = c.Log.Console || console
	return out
}

// SamplePath returns the sample database path.
func (c *Config) SamplePath() (string, error) {
	if c.SampleDB.Path != "" {
		return c.SampleDB.Path, nil
	}
	return sqldb.DefaultSamplePath()
}

// StatePath returns the tutor state database path.
func (c *Config) StatePath() (string, error) {
	if c.DB.Path != "" {
		return c.DB.Path, nil
	}
	return store.DefaultDBPath()
}
