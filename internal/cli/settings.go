package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
)

// registerDefaults makes every key known to viper so env overrides apply
// even when no config file sets them.
func registerDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)

	v.SetDefault("search.provider", d.Search.Provider)
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.base_url", "")
	v.SetDefault("search.max_results", d.Search.MaxResults)
	v.SetDefault("search.search_depth", d.Search.SearchDepth)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.fetch_pages", d.Search.FetchPages)
	v.SetDefault("search.page_max_bytes", d.Search.PageMaxBytes)
	v.SetDefault("search.page_max_chars", d.Search.PageMaxChars)

	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.http_proxy", "")
	v.SetDefault("http.https_proxy", "")
	v.SetDefault("http.no_proxy", "")

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.allow_origins", d.Server.AllowOrigins)
	v.SetDefault("server.gin_mode", d.Server.GinMode)

	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
	v.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", d.RateLimiting.BurstSize)

	v.SetDefault("output.verbose", d.Output.Verbose)
	v.SetDefault("output.include_footer", d.Output.IncludeFooter)
}

// loadConfig resolves defaults, config file and CLAIMCHECK_* variables.
// Callers apply flags next and then finalizeConfig.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// finalizeConfig fills credentials and provider defaults once flags are applied
func finalizeConfig(cfg *model.Config) {
	applyEnvCredentials(cfg, os.Getenv)
	applyProviderDefaults(cfg)
}

// applyEnvCredentials fills unset keys from OPENAI_API_KEY, ANTHROPIC_API_KEY,
// OLLAMA_BASE_URL and TAVILY_API_KEY.
func applyEnvCredentials(cfg *model.Config, getenv func(string) string) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai", "":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = getenv("OLLAMA_BASE_URL")
		}
	}

	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = getenv("TAVILY_API_KEY")
	}
}

// applyProviderDefaults drops the OpenAI default model when another
// provider is selected, so that provider's own default applies.
func applyProviderDefaults(cfg *model.Config) {
	provider := strings.ToLower(cfg.LLM.Provider)
	if provider != "openai" && provider != "" && cfg.LLM.Model == model.DefaultConfig().LLM.Model {
		cfg.LLM.Model = ""
	}
}

// validateCredentials reports missing keys before any work starts
func validateCredentials(cfg *model.Config) error {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai", "":
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if cfg.LLM.Model == "" {
			return fmt.Errorf("ollama requires --llm-model (e.g. llama3.1)")
		}
	}

	if cfg.Search.APIKey == "" {
		return fmt.Errorf("TAVILY_API_KEY environment variable not set")
	}
	return nil
}

// openCache returns the configured search cache, or nil when disabled.
// The returned close function is always safe to call.
func openCache(cfg *model.Config) (cache.Cache, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}

	store, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open cache: %w", err)
	}

	closeFn := func() {}
	if closer, ok := store.(interface{ Close() error }); ok {
		closeFn = func() { _ = closer.Close() }
	}
	return store, closeFn, nil
}

// sanitizeFilename turns a document name into a safe report file stem
func sanitizeFilename(s string) string {
	s = strings.TrimSuffix(filepath.Base(s), filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)
	s = strings.Trim(s, ".-_")

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "report"
	}

	return s
}
