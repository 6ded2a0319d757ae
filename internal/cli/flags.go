package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimcheck/internal/model"
)

// checkFlags are shared by the check and batch commands
type checkFlags struct {
	llmProvider string
	llmModel    string
	maxResults  int
	searchDepth string
	fetchPages  bool
	noCache     bool
	noFooter    bool
	userAgent   string
	httpProxy   string
	httpsProxy  string
}

func addCheckFlags(cmd *cobra.Command, f *checkFlags) {
	d := model.DefaultConfig()

	// LLM flags
	cmd.Flags().StringVar(&f.llmProvider, "llm-provider", d.LLM.Provider, "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&f.llmModel, "llm-model", d.LLM.Model, "LLM model name")

	// Search flags
	cmd.Flags().IntVar(&f.maxResults, "max-results", d.Search.MaxResults, "search results per claim")
	cmd.Flags().StringVar(&f.searchDepth, "search-depth", d.Search.SearchDepth, "Tavily search depth (basic, advanced)")
	cmd.Flags().BoolVar(&f.fetchPages, "fetch-pages", false, "append an excerpt of each result page to its snippet (honors robots.txt)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable search result cache")

	// Output flags
	cmd.Flags().BoolVar(&f.noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	cmd.Flags().StringVar(&f.userAgent, "ua", d.HTTP.UserAgent, "HTTP User-Agent")
	cmd.Flags().StringVar(&f.httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&f.httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// apply overrides cfg with the flags the user actually set
func (f *checkFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	changed := cmd.Flags().Changed

	if changed("llm-provider") && !strings.EqualFold(f.llmProvider, cfg.LLM.Provider) {
		// Configured key and model belong to the previous provider
		cfg.LLM.Provider = f.llmProvider
		cfg.LLM.APIKey = ""
		cfg.LLM.Model = f.llmModel
	}
	if changed("llm-model") {
		cfg.LLM.Model = f.llmModel
	}
	if changed("max-results") {
		cfg.Search.MaxResults = f.maxResults
	}
	if changed("search-depth") {
		cfg.Search.SearchDepth = f.searchDepth
	}
	if changed("fetch-pages") {
		cfg.Search.FetchPages = f.fetchPages
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if f.noFooter {
		cfg.Output.IncludeFooter = false
	}
	if changed("ua") {
		cfg.HTTP.UserAgent = f.userAgent
	}
	if changed("http-proxy") {
		cfg.HTTP.HTTPProxy = f.httpProxy
	}
	if changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = f.httpsProxy
	}
}
