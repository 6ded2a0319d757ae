package model

// Claim represents a factual assertion extracted from the document
type Claim struct {
	Index int    `json:"index"` // 1-based position in the extraction output
	Text  string `json:"text"`  // The numbered line as returned by the model
}

// Snippet is the textual content of one web-search hit
type Snippet struct {
	Title   string  `json:"title,omitempty"`
	URL     string  `json:"url,omitempty"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"` // Relevance score reported by the search backend
}

// Verification is the model's free-text judgement of one claim.
// The Verified/Inaccurate/False label lives only inside Report.
type Verification struct {
	ClaimIndex int       `json:"claim_index"`
	Claim      string    `json:"claim"`
	Query      string    `json:"query"`
	Snippets   []Snippet `json:"snippets"`
	Report     string    `json:"report"`
}
