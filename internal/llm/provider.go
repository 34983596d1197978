package llm

import (
	"context"

	"github.com/shred-cli/shred/internal/model"
)

// Provider defines the interface for language-model backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends a prompt and returns the model's plain-text response.
	// A single attempt is made per call; there are no retries.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation call
type GenerateRequest struct {
	// Prompt is the full text prompt
	Prompt string

	// System is an optional system instruction
	System string

	// Model is the specific model to use (provider-specific); falls back
	// to the configured default when empty
	Model string

	// Temperature for sampling. Zero means deterministic intent and is
	// sent explicitly, not omitted.
	Temperature float64

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the model's output
type GenerateResponse struct {
	// Text is the trimmed response text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption (estimated when the backend
	// does not report counts)
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "ollama", "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "ollama",
		Model:     "gemma:2b",
		Timeout:   120,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:   c.Provider,
		Model:      c.Model,
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Timeout:    c.Timeout,
		MaxTokens:  c.MaxTokens,
		HTTPProxy:  c.HTTPProxy,
		HTTPSProxy: c.HTTPSProxy,
		NoProxy:    c.NoProxy,
	}
}
