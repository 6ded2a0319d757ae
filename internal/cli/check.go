package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/pipeline"
)

var (
	checkOpts    checkFlags
	outJSON      string
	outMD        string
	outHTML      string
	checkTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file.pdf>",
	Short: "Extract and verify the claims in one PDF",
	Long: `Check reads a PDF and:
- Extracts its text page by page
- Asks the LLM for a numbered list of specific claims
- Searches the web for each claim ("Current verification of: <claim>")
- Asks the LLM to flag each claim as Verified, Inaccurate or False

Progress and verdicts are printed as they complete. A failure stops the
run; verdicts produced before it are still written to the reports.

Example:
  claimcheck check report.pdf
  claimcheck check report.pdf --json report.json --md report.md --html report.html
  claimcheck check report.pdf --llm-provider anthropic --fetch-pages`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional, - for stdout)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional, - for stdout)")
	checkCmd.Flags().StringVar(&outHTML, "html", "", "output HTML path (optional, - for stdout)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 15*time.Minute, "overall run timeout")
	addCheckFlags(checkCmd, &checkOpts)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	checkOpts.apply(cmd, cfg)
	finalizeConfig(cfg)
	if err := validateCredentials(cfg); err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", path)
		fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Search: %s (top %d)\n", cfg.Search.Provider, cfg.Search.MaxResults)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	store, closeCache, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	p, err := pipeline.New(cfg, store)
	if err != nil {
		return err
	}

	printer := pipeline.NewTextPrinter(os.Stdout, cfg.Output.Verbose)
	report, runErr := p.CheckPath(ctx, path, printer.Handle)

	// Partial reports are still written
	if report != nil && (outJSON != "" || outMD != "" || outHTML != "") {
		renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
		if outJSON != "" {
			if err := renderer.RenderJSON(report, outJSON); err != nil {
				return fmt.Errorf("render JSON: %w", err)
			}
			if cfg.Output.Verbose && outJSON != "-" {
				fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
			}
		}
		if outMD != "" {
			if err := renderer.RenderMarkdown(report, outMD); err != nil {
				return fmt.Errorf("render markdown: %w", err)
			}
			if cfg.Output.Verbose && outMD != "-" {
				fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
			}
		}
		if outHTML != "" {
			if err := renderer.RenderHTML(report, outHTML); err != nil {
				return fmt.Errorf("render HTML: %w", err)
			}
			if cfg.Output.Verbose && outHTML != "-" {
				fmt.Fprintf(os.Stderr, "✓ Wrote HTML: %s\n", outHTML)
			}
		}
	}

	if runErr != nil {
		return fmt.Errorf("check failed: %w", runErr)
	}
	return nil
}
