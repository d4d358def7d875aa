package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/veritas/internal/model"
)

// Provider defines the interface for language-model gateways.
// Complete takes one prompt and returns the raw text response; any
// network failure, non-success status, or malformed response envelope
// is returned as a *TransportError.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the raw text response
	Complete(ctx context.Context, prompt string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// TransportError is the gateway transport error kind: network failures,
// non-2xx responses, and malformed response envelopes all map here so
// calling stages can absorb them under one fallback policy.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s gateway: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Gemini/OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, test servers)
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
		Provider:  "gemini",
		Model:     "gemini-2.0-flash",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
		NoProxy:    modelConfig.NoProxy,
	}
}
