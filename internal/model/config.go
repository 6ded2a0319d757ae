package model

import "time"

// Config holds the complete claimcheck configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Search       SearchConfig       `yaml:"search" mapstructure:"search"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the completion backend used for extraction and verification
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // Never written back to disk
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds per request
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig configures the web-search backend
type SearchConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"` // tavily
	APIKey      string `yaml:"-" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxResults  int    `yaml:"max_results" mapstructure:"max_results"`
	SearchDepth string `yaml:"search_depth" mapstructure:"search_depth"` // basic, advanced
	Timeout     int    `yaml:"timeout" mapstructure:"timeout"`           // seconds per request

	// FetchPages appends an excerpt of each result page to its snippet
	FetchPages   bool  `yaml:"fetch_pages" mapstructure:"fetch_pages"`
	PageMaxBytes int64 `yaml:"page_max_bytes" mapstructure:"page_max_bytes"`
	PageMaxChars int   `yaml:"page_max_chars" mapstructure:"page_max_chars"`
}

// HTTPConfig holds outbound HTTP settings shared by all clients
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures search result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend   string        `yaml:"backend" mapstructure:"backend"` // memory, disk, layered, redis
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir       string        `yaml:"dir,omitempty" mapstructure:"dir"`
	RedisAddr string        `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisDB   int           `yaml:"redis_db" mapstructure:"redis_db"`
}

// ServerConfig configures the web UI
type ServerConfig struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	AllowOrigins   []string `yaml:"allow_origins,omitempty" mapstructure:"allow_origins"`
	GinMode        string   `yaml:"gin_mode" mapstructure:"gin_mode"`
}

// ConcurrencyConfig controls how many documents are checked at once.
// Claims inside one document are always checked sequentially.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig controls outbound request pacing per host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   60,
			MaxTokens: 2000,
		},
		Search: SearchConfig{
			Provider:     "tavily",
			MaxResults:   3,
			SearchDepth:  "basic",
			Timeout:      30,
			PageMaxBytes: 2_000_000,
			PageMaxChars: 1500,
		},
		HTTP: HTTPConfig{
			UserAgent: "ClaimCheck/0.1 (+https://github.com/ppiankov/claimcheck)",
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 10 << 20,
			GinMode:        "release",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 2,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
