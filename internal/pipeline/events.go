package pipeline

import "github.com/ppiankov/claimcheck/internal/model"

// EventType identifies a progress event
type EventType string

const (
	EventTextExtracted   EventType = "text_extracted"
	EventClaimsExtracted EventType = "claims_extracted"
	EventVerifying       EventType = "verifying"
	EventVerified        EventType = "verified"
	EventFailed          EventType = "failed"
	EventCompleted       EventType = "completed"
)

// Event reports progress of one run. Only the fields relevant to Type are set.
type Event struct {
	Type     EventType `json:"type"`
	ReportID string    `json:"report_id"`

	// EventTextExtracted
	Pages     int  `json:"pages,omitempty"`
	TextChars int  `json:"text_chars,omitempty"`
	Blank     bool `json:"blank,omitempty"` // no extractable text, e.g. a scanned PDF

	// EventClaimsExtracted
	Claims []model.Claim `json:"claims,omitempty"`

	// EventVerifying, EventVerified
	Claim        *model.Claim        `json:"claim,omitempty"`
	Total        int                 `json:"total,omitempty"`
	Verification *model.Verification `json:"verification,omitempty"`

	// EventFailed
	Stage Stage  `json:"stage,omitempty"`
	Error string `json:"error,omitempty"`

	// EventCompleted, EventFailed
	Report *model.Report `json:"report,omitempty"`
}

// EventHandler receives events synchronously, in order, on the run's goroutine
type EventHandler func(Event)

func (h EventHandler) emit(ev Event) {
	if h != nil {
		h(ev)
	}
}
