package model

import "time"

// Config is the complete gleaner configuration. Everything the extraction
// loop touches flows from here; there is no package-level mutable state.
type Config struct {
	PDF     PDFConfig     `yaml:"pdf"`
	LLM     LLMConfig     `yaml:"llm"`
	Extract ExtractConfig `yaml:"extract"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
}

// PDFConfig controls the paginated text source.
type PDFConfig struct {
	// MinTextLength is the minimum number of characters a page must yield
	// before it is sent for extraction; shorter pages are skipped.
	MinTextLength int `yaml:"min_text_length"`
}

// LLMConfig holds generation-service settings.
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey is read from the environment, never from the config file
	APIKey string `yaml:"-"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url"`

	// Timeout for a single API request, in seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens"`
}

// ExtractConfig controls the page loop.
type ExtractConfig struct {
	// MaxRetries is the number of retries after the first attempt for a
	// failing generation call.
	MaxRetries int `yaml:"max_retries"`

	// PagesPerSecond caps the page processing rate (base rate limiting
	// between pages, independent of per-call backoff).
	PagesPerSecond float64 `yaml:"pages_per_second"`
}

// CacheConfig controls the completion cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig names the output artifacts.
type OutputConfig struct {
	// Dir is the output directory holding knowledge.pl and raw/.
	Dir string `yaml:"dir"`

	// StateFile is the progress checkpoint path.
	StateFile string `yaml:"state_file"`

	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		PDF: PDFConfig{
			MinTextLength: 50,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Timeout:   60,
			MaxTokens: 1024,
		},
		Extract: ExtractConfig{
			MaxRetries:     3,
			PagesPerSecond: 2, // ~500ms between pages
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".gleaner-cache",
			TTL:     7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Dir:       "output",
			StateFile: "state.json",
		},
	}
}
