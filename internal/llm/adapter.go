package llm

import (
	"context"

	"github.com/dhabedank/burnlog/internal/core"
)

// Adapter is the interface all completion adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Check verifies the credential before any request is sent.
	Check() error

	// Complete sends one system + user prompt pair and returns the raw reply.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*core.Completion, error)
}

var _ core.LLMAdapter = Adapter(nil)

// Temperature is the fixed sampling temperature for estimates.
const Temperature = 0.7

// Config holds configuration for completion adapters.
type Config struct {
	// Model specifies which model to use (optional, adapter chooses default).
	Model string `yaml:"model" toml:"model"`

	// APIKey for direct API access. Falls back to ANTHROPIC_API_KEY.
	APIKey string `yaml:"-" toml:"-"`

	// BaseURL overrides the API endpoint (proxies, tests).
	BaseURL string `yaml:"base_url,omitempty" toml:"base_url"`

	// MaxTokens limits response length.
	MaxTokens int `yaml:"max_tokens,omitempty" toml:"max_tokens"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model:     DefaultModel,
		MaxTokens: 1024,
	}
}
