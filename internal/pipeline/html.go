package pipeline

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ppiankov/claimcheck/internal/model"
)

// reportBody is the sanitized part of the HTML report. Every value is
// auto-escaped, so claim and report text shows exactly as produced.
var reportBody = template.Must(template.New("body").Funcs(template.FuncMap{"trim": strings.TrimSpace}).Parse(`<h1>Verification Report: {{.Report.Source}}</h1>
<ul>
<li>Run: <code>{{.Report.ID}}</code></li>
<li>Checked: {{.Checked}}</li>
<li>Pages: {{.Report.Pages}}</li>
<li>Claims: {{len .Report.Claims}} (verified {{len .Report.Verifications}})</li>
<li>LLM: {{.LLM}}</li>
<li>Search: {{.Report.Search.Provider}}</li>
</ul>
{{if .Incomplete}}<blockquote><strong>Incomplete:</strong> {{.Report.Error}}</blockquote>
{{end}}{{if not .Report.Claims}}<p>No claims found.</p>
{{end}}{{range .Report.Verifications}}<h2>Claim {{.ClaimIndex}}: {{.Claim}}</h2>
<pre>{{trim .Report}}</pre>
{{if .Snippets}}<p><strong>Sources</strong></p>
<ul>
{{range .Snippets}}<li>{{if .URL}}<a href="{{.URL}}">{{or .Title .URL}}</a>{{else}}{{.Title}}{{end}}</li>
{{end}}</ul>
{{end}}<hr>
{{end}}{{with .Pending}}<h2>Not verified</h2>
<ul>
{{range .}}<li>{{.Text}}</li>
{{end}}</ul>
{{end}}{{if .Footer}}<p><em>Verdicts are model output based on the top web search results and may be wrong.</em></p>
{{end}}`))

var reportPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Verification Report: {{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
pre { white-space: pre-wrap; font-family: inherit; }
blockquote { border-left: 4px solid #c0392b; margin: 1rem 0; padding-left: 1rem; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// reportPolicy limits report markup to plain structure; result links open
// in a new tab with rel="nofollow noopener".
var reportPolicy = newReportPolicy()

func newReportPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// HTML renders the report as a standalone HTML page
func (r *Renderer) HTML(report *model.Report) (string, error) {
	llmName := report.LLM.Provider
	if report.LLM.Model != "" {
		llmName += "/" + report.LLM.Model
	}

	var body bytes.Buffer
	err := reportBody.Execute(&body, struct {
		Report     *model.Report
		Checked    string
		LLM        string
		Incomplete bool
		Pending    []model.Claim
		Footer     bool
	}{
		Report:     report,
		Checked:    report.CheckedAt.Format("2006-01-02 15:04:05 UTC"),
		LLM:        llmName,
		Incomplete: !report.Complete && report.Error != "",
		Pending:    report.Pending(),
		Footer:     r.includeFooter,
	})
	if err != nil {
		return "", fmt.Errorf("render report body: %w", err)
	}

	var page bytes.Buffer
	err = reportPage.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{
		Title: report.Source,
		Body:  template.HTML(reportPolicy.SanitizeBytes(body.Bytes())),
	})
	if err != nil {
		return "", fmt.Errorf("render report page: %w", err)
	}

	return page.String(), nil
}

// RenderHTML writes the report as an HTML page
func (r *Renderer) RenderHTML(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteHTML(w, report)
	})
}

// WriteHTML renders the report as an HTML page to w
func (r *Renderer) WriteHTML(w io.Writer, report *model.Report) error {
	page, err := r.HTML(report)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, page)
	return err
}
