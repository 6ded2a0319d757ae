package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Renderer writes finished reports to disk
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, report)
	})
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	})
}

// WriteJSON encodes report to w
func WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Verification Report: %s\n\n", report.Source)
	fmt.Fprintf(&b, "- Run: `%s`\n", report.ID)
	fmt.Fprintf(&b, "- Checked: %s\n", report.CheckedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Pages: %d\n", report.Pages)
	fmt.Fprintf(&b, "- Claims: %d (verified %d)\n", len(report.Claims), len(report.Verifications))
	if report.LLM.Model != "" {
		fmt.Fprintf(&b, "- LLM: %s/%s\n", report.LLM.Provider, report.LLM.Model)
	} else {
		fmt.Fprintf(&b, "- LLM: %s\n", report.LLM.Provider)
	}
	fmt.Fprintf(&b, "- Search: %s\n", report.Search.Provider)

	if !report.Complete && report.Error != "" {
		fmt.Fprintf(&b, "\n> **Incomplete:** %s\n", report.Error)
	}

	if len(report.Claims) == 0 {
		b.WriteString("\nNo claims found.\n")
	}

	for _, v := range report.Verifications {
		fmt.Fprintf(&b, "\n## Claim %d: %s\n\n", v.ClaimIndex, v.Claim)
		b.WriteString(strings.TrimSpace(v.Report))
		b.WriteString("\n")

		if len(v.Snippets) > 0 {
			b.WriteString("\n**Sources**\n\n")
			for _, s := range v.Snippets {
				title := s.Title
				if title == "" {
					title = s.URL
				}
				if s.URL != "" {
					fmt.Fprintf(&b, "- [%s](%s)\n", title, s.URL)
				} else {
					fmt.Fprintf(&b, "- %s\n", title)
				}
			}
		}
		b.WriteString("\n---\n")
	}

	if pending := report.Pending(); len(pending) > 0 {
		b.WriteString("\n## Not verified\n\n")
		for _, c := range pending {
			fmt.Fprintf(&b, "- %s\n", c.Text)
		}
	}

	if r.includeFooter {
		b.WriteString("\n_Verdicts are model output based on the top web search results and may be wrong._\n")
	}

	return b.String()
}

func writeFile(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
