package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Checker checks one PDF file and returns its report.
// A failed run may still return a partial report alongside the error.
type Checker interface {
	CheckFile(ctx context.Context, path string) (*model.Report, error)
}

// FileJob checks a single file
type FileJob struct {
	Index   int
	Path    string
	Checker Checker
}

// Execute executes the check job
func (j *FileJob) Execute(ctx context.Context) Result {
	report, err := j.Checker.CheckFile(ctx, j.Path)
	return &FileResult{
		Index:  j.Index,
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// FileResult represents the result of one file check
type FileResult struct {
	Index  int
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the check
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor checks several documents concurrently.
// Each document is still checked claim by claim.
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessFiles checks the given files and returns results in input order.
// Files never started because ctx ended are reported with ctx's error.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		pool.Submit(&FileJob{
			Index:   i,
			Path:    path,
			Checker: b.checker,
		})
	}

	results := pool.Wait()

	out := make([]*FileResult, len(paths))
	for _, result := range results {
		fr := result.(*FileResult)
		out[fr.Index] = fr
	}
	for i, fr := range out {
		if fr == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("not processed")
			}
			out[i] = &FileResult{Index: i, Path: paths[i], Error: err}
		}
	}

	return out
}

// ProcessListFile reads paths from a list file and checks them
func (b *BatchProcessor) ProcessListFile(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads PDF paths from a file (one per line).
// Blank lines and # comments are skipped, relative paths resolve against the
// list file's directory, and duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	baseDir := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(baseDir, line)
		}
		line = filepath.Clean(line)

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
