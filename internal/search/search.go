// Package search looks up web evidence for claims.
package search

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// Searcher returns up to maxResults snippets for a query
type Searcher interface {
	// Name returns the backend name
	Name() string

	// Search runs one query. Results keep the backend's ranking.
	Search(ctx context.Context, query string, maxResults int) ([]model.Snippet, error)
}

// New builds the configured searcher with its optional cache and page enrichment.
// A nil store disables caching regardless of configuration.
func New(cfg *model.Config, store cache.Cache) (Searcher, error) {
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	var s Searcher
	switch strings.ToLower(cfg.Search.Provider) {
	case "tavily", "":
		client, err := NewTavilyClient(TavilyConfig{
			APIKey:      cfg.Search.APIKey,
			BaseURL:     cfg.Search.BaseURL,
			SearchDepth: cfg.Search.SearchDepth,
			Timeout:     time.Duration(cfg.Search.Timeout) * time.Second,
			UserAgent:   cfg.HTTP.UserAgent,
			Proxy:       util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
			Limiter:     limiter,
		})
		if err != nil {
			return nil, err
		}
		s = client
	default:
		return nil, fmt.Errorf("unknown search provider: %s (supported: tavily)", cfg.Search.Provider)
	}

	if cfg.Search.FetchPages {
		enricher := NewPageEnricher(s, newPageFetcher(cfg, limiter), cfg.Search.PageMaxChars)
		if cfg.Output.Verbose {
			enricher.SetLogger(func(format string, args ...any) {
				fmt.Fprintf(os.Stderr, format+"\n", args...)
			})
		}
		s = enricher
	}

	if store != nil && cfg.Cache.Enabled {
		s = NewCachedSearcher(s, store, cfg.Cache.TTL)
	}

	return s, nil
}

// newPageFetcher builds the result-page fetcher. robots.txt requests share
// the search timeout so a stalled host cannot hold up a claim.
func newPageFetcher(cfg *model.Config, limiter *worker.Limiter) *PageFetcher {
	timeout := time.Duration(cfg.Search.Timeout) * time.Second
	proxy := util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	robotsClient := &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{Proxy: proxy},
	}
	if timeout <= 0 {
		robotsClient.Timeout = 10 * time.Second
	}

	return NewPageFetcher(PageFetcherConfig{
		Timeout:   timeout,
		UserAgent: cfg.HTTP.UserAgent,
		MaxBytes:  cfg.Search.PageMaxBytes,
		Robots:    util.NewRobotsChecker(robotsClient, cfg.HTTP.UserAgent),
		Limiter:   limiter,
		Proxy:     proxy,
	})
}
