package model

import "time"

// Report represents the result of checking one document.
// Verifications[i] always belongs to Claims[i]; a failed run keeps the
// verifications produced before the failure.
type Report struct {
	ID        string    `json:"id"`         // Run identifier (UUID)
	Source    string    `json:"source"`     // File name or path of the checked PDF
	CheckedAt time.Time `json:"checked_at"` // When the run started
	Pages     int       `json:"pages"`
	TextChars int       `json:"text_chars"`

	Claims        []Claim        `json:"claims"`
	Verifications []Verification `json:"verifications"`

	LLM    BackendInfo `json:"llm"`
	Search BackendInfo `json:"search"`

	Complete bool   `json:"complete"`        // Every claim was verified
	Error    string `json:"error,omitempty"` // Why the run stopped early
}

// BackendInfo records which external service produced part of a report
type BackendInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// Pending returns the claims that have no verification yet
func (r *Report) Pending() []Claim {
	if len(r.Verifications) >= len(r.Claims) {
		return nil
	}
	return r.Claims[len(r.Verifications):]
}
