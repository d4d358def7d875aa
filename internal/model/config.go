package model

import "time"

// Config holds the complete runtime configuration.
// Read-only for the life of the process.
type Config struct {
	LLM          LLMConfig          `yaml:"llm" json:"llm"`
	Search       SearchConfig       `yaml:"search" json:"search"`
	HTTP         HTTPConfig         `yaml:"http" json:"http"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" json:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" json:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" json:"output"`
}

// LLMConfig configures the language-model gateway
type LLMConfig struct {
	Provider   string `yaml:"provider" json:"provider"`               // gemini, openai, ollama
	Model      string `yaml:"model" json:"model"`                     // Model name
	APIKey     string `yaml:"-" json:"-"`                             // Never serialized
	BaseURL    string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout    int    `yaml:"timeout" json:"timeout"`                 // Seconds
	MaxTokens  int    `yaml:"max_tokens" json:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// SearchConfig configures the evidence retrieval gateway
type SearchConfig struct {
	APIKey      string `yaml:"-" json:"-"`                         // Never serialized
	BaseURL     string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	PaperLimit  int    `yaml:"paper_limit" json:"paper_limit"`     // Max papers per claim
	EnrichShort bool   `yaml:"enrich_short" json:"enrich_short"`   // Fetch abstracts for short snippets
}

// HTTPConfig configures outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// ConcurrencyConfig configures worker counts
type ConcurrencyConfig struct {
	AnnotationWorkers int `yaml:"annotation_workers" json:"annotation_workers"` // Per-paper findings extraction
	BatchWorkers      int `yaml:"batch_workers" json:"batch_workers"`           // Concurrent claims in batch mode
}

// RateLimitingConfig configures per-host outbound rate limits
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig configures report output
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-2.0-flash",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Search: SearchConfig{
			PaperLimit:  5,
			EnrichShort: true,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Veritas/0.1 (+https://github.com/ppiankov/veritas)",
			MaxBodyBytes: 2_000_000,
		},
		Concurrency: ConcurrencyConfig{
			AnnotationWorkers: 5,
			BatchWorkers:      4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
