package model

import "time"

// Config holds the full tool configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	HTTP      HTTPConfig      `yaml:"http"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Rewrite   RewriteConfig   `yaml:"rewrite"`
	Output    OutputConfig    `yaml:"output"`
}

// LLMConfig configures the language-model backend.
type LLMConfig struct {
	// Provider name: "ollama", "openai", or "" (disabled, rules only)
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI (usually set via OPENAI_API_KEY instead)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g., a non-default Ollama host)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for model requests, in seconds
	Timeout int `yaml:"timeout_seconds"`

	// Temperature for the rewrite call (fact extraction is always pinned to 0)
	Temperature float64 `yaml:"temperature"`

	// MaxTokens limits the response length
	MaxTokens int `yaml:"max_tokens"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// HTTPConfig configures fetching of --url inputs.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CacheConfig configures the model-response cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// RateLimitConfig paces model calls in batch mode.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// RewriteConfig carries the per-invocation rewrite options.
type RewriteConfig struct {
	Style     string   `yaml:"style"`
	Mode      string   `yaml:"mode"`
	MaxWords  int      `yaml:"max_words"`
	KeepTerms []string `yaml:"keep_terms,omitempty"`
	RulesOnly bool     `yaml:"rules_only"`
	SkipFacts bool     `yaml:"skip_facts"`
}

// OutputConfig controls diagnostics.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultMaxWords is the target word budget when none is given.
const DefaultMaxWords = 120

// DefaultConfig returns sensible defaults: a small local Ollama model,
// faithful mode, plain style.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "gemma:2b",
			Timeout:     120,
			Temperature: 0.2,
			MaxTokens:   1000,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Shred/0.1 (+https://github.com/shred-cli/shred)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // resolved to ~/.shred/cache at startup
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Rewrite: RewriteConfig{
			Style:    string(StylePlain),
			Mode:     string(ModeFaithful),
			MaxWords: DefaultMaxWords,
		},
		Output: OutputConfig{},
	}
}
