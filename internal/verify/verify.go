// Package verify checks single claims against web search evidence.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/search"
)

// QueryPrefix is prepended to every claim before it is searched
const QueryPrefix = "Current verification of: "

// DefaultMaxResults is how many search results back one verification
const DefaultMaxResults = 3

// BuildQuery returns the search query for a claim
func BuildQuery(claim string) string {
	return QueryPrefix + claim
}

// JoinSnippets joins result contents with newlines, in ranking order
func JoinSnippets(snippets []model.Snippet) string {
	contents := make([]string, len(snippets))
	for i, s := range snippets {
		contents[i] = s.Content
	}
	return strings.Join(contents, "\n")
}

// Verifier gathers evidence for a claim and asks the LLM to judge it.
// It keeps no state between claims.
type Verifier struct {
	searcher   search.Searcher
	provider   llm.Provider
	model      string
	maxTokens  int
	maxResults int
}

// Options tunes a Verifier
type Options struct {
	Model      string // empty uses the provider's model
	MaxTokens  int
	MaxResults int // defaults to DefaultMaxResults
}

// NewVerifier creates a new verifier
func NewVerifier(searcher search.Searcher, provider llm.Provider, opts Options) *Verifier {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Verifier{
		searcher:   searcher,
		provider:   provider,
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		maxResults: maxResults,
	}
}

// Gather runs the single search for a claim
func (v *Verifier) Gather(ctx context.Context, claim string) (string, []model.Snippet, error) {
	query := BuildQuery(claim)

	snippets, err := v.searcher.Search(ctx, query, v.maxResults)
	if err != nil {
		return query, nil, fmt.Errorf("search %s: %w", v.searcher.Name(), err)
	}
	if snippets == nil {
		snippets = []model.Snippet{}
	}

	return query, snippets, nil
}

// Judge asks the LLM for a free-text verdict on a claim given its evidence
func (v *Verifier) Judge(ctx context.Context, claim string, snippets []model.Snippet) (string, error) {
	resp, err := v.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:    llm.VerifyClaimPrompt(claim, JoinSnippets(snippets)),
		Model:     v.model,
		MaxTokens: v.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("verify claim: %w", err)
	}
	return resp.Text, nil
}

// Verify gathers evidence and judges one claim
func (v *Verifier) Verify(ctx context.Context, claim model.Claim) (*model.Verification, error) {
	query, snippets, err := v.Gather(ctx, claim.Text)
	if err != nil {
		return nil, err
	}

	report, err := v.Judge(ctx, claim.Text, snippets)
	if err != nil {
		return nil, err
	}

	return &model.Verification{
		ClaimIndex: claim.Index,
		Claim:      claim.Text,
		Query:      query,
		Snippets:   snippets,
		Report:     report,
	}, nil
}
