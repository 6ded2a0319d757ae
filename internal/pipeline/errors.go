package pipeline

import "fmt"

// Stage names one external step of a check run
type Stage string

const (
	StageExtractText   Stage = "extract_text"
	StageExtractClaims Stage = "extract_claims"
	StageSearch        Stage = "search"
	StageVerify        Stage = "verify"
)

// StageError records which step of a run failed and for which claim.
// ClaimIndex is 0 for document-level stages.
type StageError struct {
	Stage      Stage
	ClaimIndex int
	Err        error
}

func (e *StageError) Error() string {
	if e.ClaimIndex > 0 {
		return fmt.Sprintf("%s (claim %d): %v", e.Stage, e.ClaimIndex, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
