package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
)

// CachedSearcher serves repeated queries from a cache.
// Only successful results are stored.
type CachedSearcher struct {
	next  Searcher
	store cache.Cache
	ttl   time.Duration
}

// NewCachedSearcher wraps next with a result cache
func NewCachedSearcher(next Searcher, store cache.Cache, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{
		next:  next,
		store: store,
		ttl:   ttl,
	}
}

// Name returns the wrapped backend name
func (c *CachedSearcher) Name() string {
	return c.next.Name()
}

// Search returns cached snippets when present, otherwise queries the backend
func (c *CachedSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.Snippet, error) {
	key := cache.Key("search", c.next.Name(), variantOf(c.next), query, strconv.Itoa(maxResults))

	if data, ok := c.store.Get(key); ok {
		var snippets []model.Snippet
		if err := json.Unmarshal(data, &snippets); err == nil {
			return snippets, nil
		}
		_ = c.store.Delete(key)
	}

	snippets, err := c.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(snippets)
	if err != nil {
		return nil, fmt.Errorf("marshal snippets: %w", err)
	}
	// A cache write failure never fails the search
	_ = c.store.Set(key, data, c.ttl)

	return snippets, nil
}

// variant is implemented by searchers whose results depend on settings
// other than the query, so differently configured runs never share entries.
type variant interface {
	CacheVariant() string
}

func variantOf(s Searcher) string {
	if v, ok := s.(variant); ok {
		return v.CacheVariant()
	}
	return ""
}
