package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
)

type mockSearcher struct {
	queries    []string
	maxResults []int
	snippets   []model.Snippet
	err        error
}

func (m *mockSearcher) Name() string { return "mock" }

func (m *mockSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.Snippet, error) {
	m.queries = append(m.queries, query)
	m.maxResults = append(m.maxResults, maxResults)
	if m.err != nil {
		return nil, m.err
	}
	return m.snippets, nil
}

type mockProvider struct {
	prompts []string
	text    string
	err     error
}

func (m *mockProvider) Name() string                         { return "mock" }
func (m *mockProvider) IsAvailable(ctx context.Context) bool { return true }

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.prompts = append(m.prompts, req.Prompt)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Text: m.text}, nil
}

func TestBuildQuery(t *testing.T) {
	if got := BuildQuery("1. A is true"); got != "Current verification of: 1. A is true" {
		t.Errorf("Unexpected query %q", got)
	}
}

func TestJoinSnippets(t *testing.T) {
	tests := []struct {
		name     string
		snippets []model.Snippet
		expected string
	}{
		{"none", nil, ""},
		{"one", []model.Snippet{{Content: "a"}}, "a"},
		{"three", []model.Snippet{{Content: "a"}, {Content: "b"}, {Content: "c"}}, "a\nb\nc"},
		{"empty content kept", []model.Snippet{{Content: "a"}, {Content: ""}, {Content: "c"}}, "a\n\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinSnippets(tt.snippets); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestVerifier_Verify(t *testing.T) {
	searcher := &mockSearcher{snippets: []model.Snippet{
		{Content: "Bitcoin trades near $67,000.", URL: "https://a.example"},
		{Content: "BTC rallied this week.", URL: "https://b.example"},
	}}
	provider := &mockProvider{text: "Inaccurate: current price is about $67,000 (a.example)."}
	verifier := NewVerifier(searcher, provider, Options{})

	v, err := verifier.Verify(context.Background(), model.Claim{Index: 1, Text: "1. Bitcoin is trading at $42,500."})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if len(searcher.queries) != 1 || searcher.queries[0] != "Current verification of: 1. Bitcoin is trading at $42,500." {
		t.Errorf("Unexpected search calls %v", searcher.queries)
	}
	if searcher.maxResults[0] != 3 {
		t.Errorf("Expected default of 3 results, got %d", searcher.maxResults[0])
	}

	if len(provider.prompts) != 1 {
		t.Fatalf("Expected 1 LLM call, got %d", len(provider.prompts))
	}
	prompt := provider.prompts[0]
	if !strings.Contains(prompt, "Claim: 1. Bitcoin is trading at $42,500.\n") {
		t.Errorf("Expected claim in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "Search Results: Bitcoin trades near $67,000.\nBTC rallied this week.\n") {
		t.Errorf("Expected joined snippets in prompt, got %q", prompt)
	}

	if v.ClaimIndex != 1 || v.Query != searcher.queries[0] || v.Report != provider.text || len(v.Snippets) != 2 {
		t.Errorf("Unexpected verification %+v", v)
	}
}

func TestVerifier_NoResultsStillJudged(t *testing.T) {
	provider := &mockProvider{text: "False: no evidence."}
	verifier := NewVerifier(&mockSearcher{}, provider, Options{MaxResults: 5})

	v, err := verifier.Verify(context.Background(), model.Claim{Index: 2, Text: "2. X"})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.Snippets == nil || len(v.Snippets) != 0 {
		t.Errorf("Expected empty snippets, got %v", v.Snippets)
	}
	if !strings.Contains(provider.prompts[0], "Search Results: \n") {
		t.Errorf("Expected empty results in prompt, got %q", provider.prompts[0])
	}
}

func TestVerifier_SearchError(t *testing.T) {
	sentinel := errors.New("search down")
	provider := &mockProvider{}
	verifier := NewVerifier(&mockSearcher{err: sentinel}, provider, Options{})

	_, err := verifier.Verify(context.Background(), model.Claim{Index: 1, Text: "1. X"})
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped search error, got %v", err)
	}
	if len(provider.prompts) != 0 {
		t.Errorf("Expected no LLM call after search failure, got %d", len(provider.prompts))
	}
}

func TestVerifier_JudgeError(t *testing.T) {
	sentinel := errors.New("llm down")
	verifier := NewVerifier(&mockSearcher{}, &mockProvider{err: sentinel}, Options{})

	if _, err := verifier.Judge(context.Background(), "1. X", nil); !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped LLM error, got %v", err)
	}
}
