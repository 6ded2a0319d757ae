package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/server"
)

var (
	serveOpts checkFlags
	serveAddr string
	uploadMB  int64
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload web UI",
	Long: `Serve starts a web page with a single PDF upload control. Progress and
verdicts stream to the browser as each claim is checked.

Endpoints:
  GET  /                        upload page
  POST /api/v1/check            multipart field "file"; server-sent events
  POST /api/v1/check?stream=false  full JSON report
  GET  /healthz                 liveness

Example:
  claimcheck serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().Int64Var(&uploadMB, "max-upload-mb", 10, "maximum PDF upload size in MB")
	addCheckFlags(serveCmd, &serveOpts)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	serveOpts.apply(cmd, cfg)
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if cmd.Flags().Changed("max-upload-mb") {
		cfg.Server.MaxUploadBytes = uploadMB << 20
	}
	finalizeConfig(cfg)
	if err := validateCredentials(cfg); err != nil {
		return err
	}

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	logger := log.New(os.Stderr, "claimcheck ", log.LstdFlags)

	store, closeCache, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	p, err := pipeline.New(cfg, store)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Printf("LLM %s/%s, search %s (top %d), cache %v",
		cfg.LLM.Provider, cfg.LLM.Model, cfg.Search.Provider, cfg.Search.MaxResults, cfg.Cache.Enabled)

	if err := server.New(cfg.Server, p, logger).Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
