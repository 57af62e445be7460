package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock".
	// Empty means "discover from the standard API key variables".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single logical request, retries included.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: DefaultAnthropicModel
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: DefaultOpenAIModel
	BaseURL string // Optional override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: DefaultGeminiModel
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: DefaultOpenRouterModel
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// Default chat models. Hints and feedback are short replies, so the
// defaults favour each vendor's fast tier.
const (
	DefaultAnthropicModel  = "claude-haiku-4-5"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultOpenRouterModel = "anthropic/claude-haiku-4.5"
)

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. The provider is
// left empty so DiscoverProvider can pick one from the environment.
func DefaultConfig() Config {
	return Config{
		Anthropic: AnthropicConfig{
			Model: DefaultAnthropicModel,
		},
		OpenAI: OpenAIConfig{
			Model: DefaultOpenAIModel,
		},
		Gemini: GeminiConfig{
			Model: DefaultGeminiModel,
		},
		OpenRouter: OpenRouterConfig{
			Model: DefaultOpenRouterModel,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// DiscoverProvider fills in cfg.Provider when no provider was chosen
// explicitly. A provider whose API key is already configured wins;
// otherwise the standard vendor variables are probed. Both passes go
// through Anthropic, OpenAI, Gemini and OpenRouter in that order. It
// reports whether a provider was found.
func DiscoverProvider(cfg Config) (Config, bool) {
	if cfg.Provider != "" {
		return cfg, true
	}

	switch {
	case cfg.Anthropic.APIKey != "":
		cfg.Provider = "anthropic"
		return cfg, true
	case cfg.OpenAI.APIKey != "":
		cfg.Provider = "openai"
		return cfg, true
	case cfg.Gemini.APIKey != "":
		cfg.Provider = "gemini"
		return cfg, true
	case cfg.OpenRouter.APIKey != "":
		cfg.Provider = "openrouter"
		return cfg, true
	}

	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return cfg, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("an Anthropic API key is required (set ANTHROPIC_API_KEY or llm.anthropic.api_key)")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("an OpenAI API key is required (set OPENAI_API_KEY or llm.openai.api_key)")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("a Gemini API key is required (set GEMINI_API_KEY or llm.gemini.api_key)")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("an OpenRouter API key is required (set OPENROUTER_API_KEY or llm.openrouter.api_key)")
		}
	case "mock":
	case "":
		return ErrNotConfigured
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// EmbeddingConfig selects the embedding backend used for query similarity.
type EmbeddingConfig struct {
	// Provider is "openai", "gemini", "lexical" or "mock". Empty follows
	// the text provider when it can embed, otherwise "lexical".
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// DefaultEmbeddingModels maps embedding providers to their default model.
var DefaultEmbeddingModels = map[string]string{
	"openai": "text-embedding-3-small",
	"gemini": "gemini-embedding-001",
}

// ResolveEmbedding derives the embedding configuration from the text
// provider configuration when cfg leaves the provider open. Anthropic has
// no embedding API, so that case resolves to the lexical scorer.
func ResolveEmbedding(cfg EmbeddingConfig, text Config) EmbeddingConfig {
	if cfg.Provider == "" {
		switch text.Provider {
		case "openai":
			cfg.Provider = "openai"
			if cfg.APIKey == "" {
				cfg.APIKey = text.OpenAI.APIKey
			}
			if cfg.BaseURL == "" {
				cfg.BaseURL = text.OpenAI.BaseURL
			}
		case "gemini":
			cfg.Provider = "gemini"
			if cfg.APIKey == "" {
				cfg.APIKey = text.Gemini.APIKey
			}
		case "mock":
			cfg.Provider = "mock"
		default:
			switch {
			case os.Getenv("OPENAI_API_KEY") != "":
				cfg.Provider = "openai"
			case os.Getenv("GEMINI_API_KEY") != "":
				cfg.Provider = "gemini"
			default:
				cfg.Provider = "lexical"
			}
		}
	}
	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultEmbeddingModels[cfg.Provider]
	}
	return cfg
}
