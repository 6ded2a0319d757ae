package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/worker"
)

const defaultTavilyURL = "https://api.tavily.com"

// TavilyConfig configures the Tavily search client
type TavilyConfig struct {
	APIKey      string
	BaseURL     string
	SearchDepth string // basic, advanced
	Timeout     time.Duration
	UserAgent   string
	Proxy       func(*http.Request) (*url.URL, error)
	Limiter     *worker.Limiter
}

// TavilyClient implements Searcher using the Tavily search API
type TavilyClient struct {
	apiKey      string
	baseURL     string
	searchDepth string
	userAgent   string
	httpClient  *http.Client
	limiter     *worker.Limiter
}

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth,omitempty"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// NewTavilyClient creates a new Tavily client
func NewTavilyClient(config TavilyConfig) (*TavilyClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Tavily API key is required (set TAVILY_API_KEY)")
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTavilyURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if config.Proxy != nil {
		transport.Proxy = config.Proxy
	}

	return &TavilyClient{
		apiKey:      config.APIKey,
		baseURL:     baseURL,
		searchDepth: config.SearchDepth,
		userAgent:   config.UserAgent,
		httpClient:  &http.Client{Timeout: timeout, Transport: transport},
		limiter:     config.Limiter,
	}, nil
}

// Name returns the backend name
func (c *TavilyClient) Name() string {
	return "tavily"
}

// CacheVariant keys cached results by search depth
func (c *TavilyClient) CacheVariant() string {
	depth := c.searchDepth
	if depth == "" {
		depth = "basic"
	}
	return "depth=" + strings.ToLower(depth)
}

// Search runs one Tavily query and returns at most maxResults snippets
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]model.Snippet, error) {
	endpoint := c.baseURL + "/search"

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(tavilyRequest{
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: c.searchDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody, resp.Status),
			Op:         "tavily search",
		}
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	results := parsed.Results
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	snippets := make([]model.Snippet, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, model.Snippet{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	return snippets, nil
}

// errorMessage extracts Tavily's "detail" message, which is either a string
// or an object with an "error" field.
func errorMessage(body []byte, fallback string) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 200 {
			return msg
		}
		return fallback
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil && text != "" {
		return text
	}

	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(envelope.Detail, &obj); err == nil && obj.Error != "" {
		return obj.Error
	}

	return fallback
}
