package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/worker"
)

func TestTavilyClient_Search(t *testing.T) {
	var got tavilyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/search" {
			t.Errorf("Expected path /search, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tvly-test" {
			t.Errorf("Expected bearer auth, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{
			"query": "Current verification of: 1. Bitcoin is trading at $42,500.",
			"results": [
				{"title": "BTC price", "url": "https://a.example/btc", "content": "Bitcoin trades near $67,000.", "score": 0.92},
				{"title": "Markets", "url": "https://b.example/m", "content": "Crypto markets rallied.", "score": 0.81},
				{"title": "News", "url": "https://c.example/n", "content": "BTC hit a new high.", "score": 0.77},
				{"title": "Extra", "url": "https://d.example/x", "content": "Should be dropped.", "score": 0.5}
			]
		}`)
	}))
	defer server.Close()

	client, err := NewTavilyClient(TavilyConfig{
		APIKey:      "tvly-test",
		BaseURL:     server.URL + "/",
		SearchDepth: "basic",
		Limiter:     worker.NewLimiter(100, 10),
	})
	if err != nil {
		t.Fatalf("NewTavilyClient failed: %v", err)
	}

	snippets, err := client.Search(context.Background(), "Current verification of: 1. Bitcoin is trading at $42,500.", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got.MaxResults != 3 {
		t.Errorf("Expected max_results 3, got %d", got.MaxResults)
	}
	if got.SearchDepth != "basic" {
		t.Errorf("Expected search_depth basic, got %q", got.SearchDepth)
	}
	if got.Query != "Current verification of: 1. Bitcoin is trading at $42,500." {
		t.Errorf("Unexpected query %q", got.Query)
	}

	if len(snippets) != 3 {
		t.Fatalf("Expected 3 snippets, got %d", len(snippets))
	}
	if snippets[0].Content != "Bitcoin trades near $67,000." {
		t.Errorf("Unexpected first snippet content %q", snippets[0].Content)
	}
	if snippets[0].URL != "https://a.example/btc" || snippets[0].Score != 0.92 {
		t.Errorf("Unexpected first snippet %+v", snippets[0])
	}
	if snippets[2].Title != "News" {
		t.Errorf("Expected ranking to be kept, got %+v", snippets[2])
	}
}

func TestTavilyClient_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"results": []}`)
	}))
	defer server.Close()

	client, _ := NewTavilyClient(TavilyConfig{APIKey: "k", BaseURL: server.URL})

	snippets, err := client.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if snippets == nil || len(snippets) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", snippets)
	}
}

func TestTavilyClient_Errors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantMessage  string
		rateLimited  bool
		unauthorized bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": {"error": "Unauthorized: missing or invalid API key."}}`, "Unauthorized: missing or invalid API key.", false, true},
		{"rate limited", http.StatusTooManyRequests, `{"detail": "Too many requests"}`, "Too many requests", true, false},
		{"server error", http.StatusInternalServerError, ``, "500 Internal Server Error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client, _ := NewTavilyClient(TavilyConfig{APIKey: "k", BaseURL: server.URL})

			_, err := client.Search(context.Background(), "q", 3)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("Expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, apiErr.Message)
			}
			if IsRateLimited(err) != tt.rateLimited {
				t.Errorf("IsRateLimited = %v, want %v", IsRateLimited(err), tt.rateLimited)
			}
			if IsUnauthorized(err) != tt.unauthorized {
				t.Errorf("IsUnauthorized = %v, want %v", IsUnauthorized(err), tt.unauthorized)
			}
		})
	}
}

func TestTavilyClient_RequiresKey(t *testing.T) {
	if _, err := NewTavilyClient(TavilyConfig{}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestTavilyClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = fmt.Fprint(w, `{"results": []}`)
	}))
	defer server.Close()

	client, _ := NewTavilyClient(TavilyConfig{APIKey: "k", BaseURL: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.Search(ctx, "q", 3); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 401, Message: "bad key", Op: "tavily search"}
	if err.Error() != "tavily search: 401 bad key" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	err = &APIError{StatusCode: 500, Message: "boom"}
	if err.Error() != "500 boom" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
