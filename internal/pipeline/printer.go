package pipeline

import (
	"fmt"
	"io"
	"strings"
)

// TextPrinter prints run progress as plain text, in the order events arrive
type TextPrinter struct {
	w           io.Writer
	verbose     bool
	headerShown bool
}

// NewTextPrinter creates a printer writing to w
func NewTextPrinter(w io.Writer, verbose bool) *TextPrinter {
	return &TextPrinter{w: w, verbose: verbose}
}

// Handle prints one event; it is an EventHandler
func (p *TextPrinter) Handle(ev Event) {
	switch ev.Type {
	case EventTextExtracted:
		if p.verbose {
			fmt.Fprintf(p.w, "Run %s: %d pages, %d characters\n", ev.ReportID, ev.Pages, ev.TextChars)
		}
		fmt.Fprintln(p.w, "PDF text extracted. Extracting claims...")
		if ev.Blank {
			fmt.Fprintln(p.w, "Note: no extractable text found (scanned or image-only PDF?)")
		}

	case EventClaimsExtracted:
		fmt.Fprintf(p.w, "Found %d claims:\n", len(ev.Claims))
		for _, c := range ev.Claims {
			fmt.Fprintln(p.w, c.Text)
		}

	case EventVerifying:
		fmt.Fprintf(p.w, "Verifying: %s\n", ev.Claim.Text)

	case EventVerified:
		if !p.headerShown {
			fmt.Fprintln(p.w, "Verification Report:")
			p.headerShown = true
		}
		fmt.Fprintf(p.w, "Claim %d: %s\n", ev.Verification.ClaimIndex, ev.Verification.Claim)
		if p.verbose {
			for _, s := range ev.Verification.Snippets {
				fmt.Fprintf(p.w, "  source: %s\n", s.URL)
			}
		}
		fmt.Fprintln(p.w, strings.TrimSpace(ev.Verification.Report))
		fmt.Fprintln(p.w, "---")

	case EventFailed:
		fmt.Fprintf(p.w, "Error: %s\n", ev.Error)
		if ev.Report != nil {
			if pending := ev.Report.Pending(); len(pending) > 0 {
				fmt.Fprintf(p.w, "%d claims not verified.\n", len(pending))
			}
		}

	case EventCompleted:
		if p.verbose && ev.Report != nil {
			fmt.Fprintf(p.w, "Done: %d of %d claims verified.\n", len(ev.Report.Verifications), len(ev.Report.Claims))
		}
	}
}
