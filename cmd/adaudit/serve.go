package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adaudit/adaudit/internal/config"
	"github.com/adaudit/adaudit/internal/log"
	"github.com/adaudit/adaudit/internal/pipeline"
	"github.com/adaudit/adaudit/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the audit API server",
		Long: `Serve starts an HTTP server exposing the audit pipeline.

Endpoints:
  POST /api/scan    {"url": "https://example.com"} -> full audit report
  GET  /api/health  server and moderation status

Examples:
  # Listen on the default address (:8080)
  adaudit serve

  # Listen on a custom address
  adaudit serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServerAddr,
		"Listen address for the API server")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request made during a scan")
	cmd.Flags().String("profile", "",
		"Threshold profile: standard or lenient (default: standard)")
	cmd.Flags().String("model", config.DefaultModerationModel,
		"Gemini model used for content moderation")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .adaudit.yaml in current or XDG config directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ServerAddr, err = cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	cfg.ModerationModel, err = cmd.Flags().GetString("model")
	if err != nil {
		return err
	}
	if err := resolveProfile(cmd, cfg); err != nil {
		return err
	}

	_ = godotenv.Load()
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	// Server mode emits JSON records for log aggregation.
	verbose := getVerboseFlag(cmd)
	logger := log.NewJSONLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")
		cancel()
	}()

	mod, closeMod, err := newModerationAdapter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeMod()

	client := &http.Client{Timeout: cfg.Timeout}
	factory := func() *pipeline.Pipeline {
		return createPipeline(cfg, client, mod, logger)
	}

	srv := server.New(factory, mod,
		server.WithAddr(cfg.ServerAddr),
		server.WithServerLogger(logger),
	)

	fmt.Printf("Audit API listening on %s\n", cfg.ServerAddr)
	return srv.Start(ctx)
}
