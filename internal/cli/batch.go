package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/worker"
)

var (
	batchOpts    checkFlags
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Check several PDFs listed in a file",
	Long: `Batch checks the PDFs listed in a file (one path per line, # comments
allowed, relative paths resolve against the list file):
- Several documents are checked at once (--concurrency)
- Claims inside each document are still checked one after another
- A JSON, a Markdown and an HTML report is written per document

Example:
  claimcheck batch papers.txt
  claimcheck batch papers.txt --concurrency 4 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", model.DefaultConfig().Concurrency.Workers, "number of documents checked at once")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimcheck-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for batch processing")
	addCheckFlags(batchCmd, &batchOpts)
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	batchOpts.apply(cmd, cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	finalizeConfig(cfg)
	if err := validateCredentials(cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ClaimCheck Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", listFile)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	store, closeCache, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	p, err := pipeline.New(cfg, store)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Checking documents...\n\n")
	results, err := processor.ProcessListFile(ctx, listFile)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	names := newNameSet()
	complete, partial, failed := 0, 0, 0

	for _, result := range results {
		if result.Report == nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		slug := names.unique(sanitizeFilename(result.Path))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")
		htmlPath := filepath.Join(outputDir, slug+".html")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderHTML(result.Report, htmlPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write HTML: %v\n", result.Path, err)
			continue
		}

		r := result.Report
		if result.Error != nil {
			partial++
			fmt.Fprintf(os.Stderr, "! %s: %d of %d claims verified (%v)\n", result.Path, len(r.Verifications), len(r.Claims), result.Error)
			continue
		}
		complete++
		fmt.Fprintf(os.Stderr, "✓ %s: %d claims verified\n", result.Path, len(r.Verifications))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Complete:  %d\n", complete)
	fmt.Fprintf(os.Stderr, "  Partial:   %d\n", partial)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if complete == 0 && len(results) > 0 {
		return fmt.Errorf("no document was fully checked")
	}
	return nil
}

// nameSet hands out report names that do not collide within one batch
type nameSet map[string]bool

func newNameSet() nameSet {
	return make(nameSet)
}

// unique returns name, or the first free name-N, and marks it taken
func (n nameSet) unique(name string) string {
	candidate := name
	for i := 2; n[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
	n[candidate] = true
	return candidate
}
