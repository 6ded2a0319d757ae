package search

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx answer from a search backend
type APIError struct {
	StatusCode int
	Message    string
	Op         string // Operation that failed (e.g., "tavily search")
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether err indicates a 429 response
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

// IsUnauthorized reports whether err indicates a rejected API key
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
