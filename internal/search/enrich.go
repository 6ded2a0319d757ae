package search

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/claimcheck/internal/model"
)

// PageEnricher appends an excerpt of each result page to its snippet.
// Pages that cannot be fetched leave their snippet unchanged.
type PageEnricher struct {
	next     Searcher
	fetcher  *PageFetcher
	maxChars int
	logf     func(format string, args ...any)
}

// NewPageEnricher wraps next with page enrichment
func NewPageEnricher(next Searcher, fetcher *PageFetcher, maxChars int) *PageEnricher {
	if maxChars <= 0 {
		maxChars = 1500
	}
	return &PageEnricher{
		next:     next,
		fetcher:  fetcher,
		maxChars: maxChars,
	}
}

// SetLogger sets where skipped pages are reported
func (e *PageEnricher) SetLogger(logf func(format string, args ...any)) {
	e.logf = logf
}

// Name returns the wrapped backend name
func (e *PageEnricher) Name() string {
	return e.next.Name()
}

// CacheVariant separates enriched results from plain ones and by excerpt size
func (e *PageEnricher) CacheVariant() string {
	return variantOf(e.next) + ";pages=" + strconv.Itoa(e.maxChars)
}

// Search queries the backend and enriches each result in order
func (e *PageEnricher) Search(ctx context.Context, query string, maxResults int) ([]model.Snippet, error) {
	snippets, err := e.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	for i := range snippets {
		if snippets[i].URL == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := e.fetcher.Fetch(ctx, snippets[i].URL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if e.logf != nil {
				e.logf("skip page %s: %v", snippets[i].URL, err)
			}
			continue
		}

		excerpt := Excerpt(page.Text, e.maxChars)
		if excerpt == "" || strings.Contains(snippets[i].Content, excerpt) {
			continue
		}
		if snippets[i].Content == "" {
			snippets[i].Content = excerpt
		} else {
			snippets[i].Content += "\n" + excerpt
		}
	}

	return snippets, nil
}

// Excerpt shortens text to at most maxChars runes, cutting at a word boundary
func Excerpt(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxChars])
	if idx := strings.LastIndexByte(cut, ' '); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}
