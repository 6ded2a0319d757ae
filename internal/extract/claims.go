package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
)

// ClaimExtractor asks an LLM to list the factual claims in a document
type ClaimExtractor struct {
	provider  llm.Provider
	model     string
	maxTokens int
}

// NewClaimExtractor creates a new claim extractor.
// An empty model uses the provider's configured model.
func NewClaimExtractor(provider llm.Provider, model string, maxTokens int) *ClaimExtractor {
	return &ClaimExtractor{
		provider:  provider,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Extract returns the numbered claims the model finds in text.
// Whitespace-only text yields no claims and no LLM call.
func (e *ClaimExtractor) Extract(ctx context.Context, text string) ([]model.Claim, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Claim{}, nil
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:    llm.ExtractClaimsPrompt(text),
		Model:     e.model,
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	return ParseClaims(resp.Text), nil
}

// ParseClaims keeps the response lines that start with a digit once trimmed.
// Order is preserved and nothing is deduplicated.
func ParseClaims(response string) []model.Claim {
	claims := []model.Claim{}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] < '0' || line[0] > '9' {
			continue
		}
		claims = append(claims, model.Claim{
			Index: len(claims) + 1,
			Text:  line,
		})
	}

	return claims
}
