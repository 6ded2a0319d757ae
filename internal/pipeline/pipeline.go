package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pdftext"
	"github.com/ppiankov/claimcheck/internal/search"
	"github.com/ppiankov/claimcheck/internal/verify"
)

// Pipeline orchestrates one document check: text, claims, then each claim in order
type Pipeline struct {
	extractor  *extract.ClaimExtractor
	verifier   *verify.Verifier
	llmInfo    model.BackendInfo
	searchInfo model.BackendInfo
	now        func() time.Time
}

// Options tunes a Pipeline built from explicit backends
type Options struct {
	Model      string // recorded in reports and sent with every completion
	MaxTokens  int
	MaxResults int
}

// NewPipeline creates a pipeline over the given backends
func NewPipeline(provider llm.Provider, searcher search.Searcher, opts Options) *Pipeline {
	return &Pipeline{
		extractor: extract.NewClaimExtractor(provider, opts.Model, opts.MaxTokens),
		verifier: verify.NewVerifier(searcher, provider, verify.Options{
			Model:      opts.Model,
			MaxTokens:  opts.MaxTokens,
			MaxResults: opts.MaxResults,
		}),
		llmInfo:    model.BackendInfo{Provider: provider.Name(), Model: opts.Model},
		searchInfo: model.BackendInfo{Provider: searcher.Name()},
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// New builds the LLM provider and searcher described by cfg.
// The provider and searcher are shared by every run of the pipeline.
func New(cfg *model.Config, store cache.Cache) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	searcher, err := search.New(cfg, store)
	if err != nil {
		return nil, fmt.Errorf("init search: %w", err)
	}

	return NewPipeline(provider, searcher, Options{
		Model:      cfg.LLM.Model,
		MaxTokens:  cfg.LLM.MaxTokens,
		MaxResults: cfg.Search.MaxResults,
	}), nil
}

// CheckFile checks the PDF at path without progress events
func (p *Pipeline) CheckFile(ctx context.Context, path string) (*model.Report, error) {
	return p.CheckPath(ctx, path, nil)
}

// CheckPath extracts the PDF at path and checks it
func (p *Pipeline) CheckPath(ctx context.Context, path string, on EventHandler) (*model.Report, error) {
	report := p.newReport(filepath.Base(path))

	doc, err := pdftext.ExtractFile(path)
	if err != nil {
		return p.fail(report, &StageError{Stage: StageExtractText, Err: err}, on)
	}

	return p.run(ctx, report, doc, on)
}

// CheckReader extracts a PDF stream and checks it
func (p *Pipeline) CheckReader(ctx context.Context, source string, r io.Reader, on EventHandler) (*model.Report, error) {
	report := p.newReport(source)

	doc, err := pdftext.ExtractReader(r)
	if err != nil {
		return p.fail(report, &StageError{Stage: StageExtractText, Err: err}, on)
	}

	return p.run(ctx, report, doc, on)
}

// CheckDocument checks already extracted text.
// On failure the returned report holds every verification produced before it.
func (p *Pipeline) CheckDocument(ctx context.Context, source string, doc *pdftext.Document, on EventHandler) (*model.Report, error) {
	return p.run(ctx, p.newReport(source), doc, on)
}

func (p *Pipeline) newReport(source string) *model.Report {
	return &model.Report{
		ID:            uuid.NewString(),
		Source:        source,
		CheckedAt:     p.now(),
		Claims:        []model.Claim{},
		Verifications: []model.Verification{},
		LLM:           p.llmInfo,
		Search:        p.searchInfo,
	}
}

func (p *Pipeline) run(ctx context.Context, report *model.Report, doc *pdftext.Document, on EventHandler) (*model.Report, error) {
	report.Pages = doc.Pages
	report.TextChars = len(doc.Text)

	on.emit(Event{
		Type:      EventTextExtracted,
		ReportID:  report.ID,
		Pages:     doc.Pages,
		TextChars: len(doc.Text),
		Blank:     doc.IsBlank(),
	})

	if err := ctx.Err(); err != nil {
		return p.fail(report, &StageError{Stage: StageExtractClaims, Err: err}, on)
	}

	claims, err := p.extractor.Extract(ctx, doc.Text)
	if err != nil {
		return p.fail(report, &StageError{Stage: StageExtractClaims, Err: err}, on)
	}
	report.Claims = claims

	on.emit(Event{
		Type:     EventClaimsExtracted,
		ReportID: report.ID,
		Claims:   claims,
	})

	for i := range claims {
		claim := claims[i]

		if err := ctx.Err(); err != nil {
			return p.fail(report, &StageError{Stage: StageSearch, ClaimIndex: claim.Index, Err: err}, on)
		}

		on.emit(Event{
			Type:     EventVerifying,
			ReportID: report.ID,
			Claim:    &claim,
			Total:    len(claims),
		})

		query, snippets, err := p.verifier.Gather(ctx, claim.Text)
		if err != nil {
			return p.fail(report, &StageError{Stage: StageSearch, ClaimIndex: claim.Index, Err: err}, on)
		}

		text, err := p.verifier.Judge(ctx, claim.Text, snippets)
		if err != nil {
			return p.fail(report, &StageError{Stage: StageVerify, ClaimIndex: claim.Index, Err: err}, on)
		}

		v := model.Verification{
			ClaimIndex: claim.Index,
			Claim:      claim.Text,
			Query:      query,
			Snippets:   snippets,
			Report:     text,
		}
		report.Verifications = append(report.Verifications, v)

		on.emit(Event{
			Type:         EventVerified,
			ReportID:     report.ID,
			Claim:        &claim,
			Total:        len(claims),
			Verification: &v,
		})
	}

	report.Complete = true

	on.emit(Event{
		Type:     EventCompleted,
		ReportID: report.ID,
		Report:   report,
	})

	return report, nil
}

func (p *Pipeline) fail(report *model.Report, stageErr *StageError, on EventHandler) (*model.Report, error) {
	report.Complete = false
	report.Error = stageErr.Error()

	on.emit(Event{
		Type:     EventFailed,
		ReportID: report.ID,
		Stage:    stageErr.Stage,
		Error:    stageErr.Error(),
		Report:   report,
	})

	return report, stageErr
}
