package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adaudit/adaudit/internal/config"
	"github.com/adaudit/adaudit/internal/log"
	"github.com/adaudit/adaudit/internal/model"
	"github.com/adaudit/adaudit/internal/moderation"
	"github.com/adaudit/adaudit/internal/pipeline"
	"github.com/adaudit/adaudit/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [site-url]",
		Short: "Audit a website for advertising policy compliance",
		Long: `Scan crawls a website and audits it for advertising policy compliance.

It discovers same-host pages from the homepage, classifies content posts,
and checks each page for:
- Misleading or exaggerated claims
- Copyright infringement signals (piracy keywords, suspicious downloads)
- Affiliate links without disclosure
- Excessive ad unit density
- Prohibited content (via LLM moderation, when GEMINI_API_KEY is set)

The result is a 0-100 compliance score with remediation suggestions.

Examples:
  # Audit a single site
  adaudit scan https://example.com

  # Audit several sites concurrently
  adaudit scan https://site-a.com https://site-b.com https://site-c.com

  # Output JSON report to a file
  adaudit scan --json -o report.json https://example.com

  # Use the lenient threshold profile
  adaudit scan --profile lenient https://example.com

Configuration file (.adaudit.yaml) example:
  profile: lenient
  overrides:
    min_word_count: 200
    max_ad_units: 6`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to discover per site")
	cmd.Flags().Int("seed-expansion", config.DefaultSeedExpansion,
		"Number of homepage links fetched during crawl expansion")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of posts analyzed concurrently (and concurrent scans for multiple sites)")

	// Analysis flags
	cmd.Flags().String("profile", "",
		"Threshold profile: standard or lenient (default: standard)")
	cmd.Flags().String("model", config.DefaultModerationModel,
		"Gemini model used for content moderation")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .adaudit.yaml in current or XDG config directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("save", "s", false,
		"Also save a JSON copy of each report to the XDG data directory")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return errors.New("no targets provided (specify one or more site URLs as arguments)")
	}

	// Validate every target up front so a typo in the third URL does not
	// waste two full scans first.
	for _, target := range args {
		cfg.TargetURL = target
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid target %q: %w", target, err)
		}
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, args, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.SeedExpansion, err = cmd.Flags().GetInt("seed-expansion")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ModerationModel, err = cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}

	if err := resolveProfile(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ArchiveReports, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	// API key comes from the environment, with .env as a convenience.
	// A missing key is not an error: moderation degrades to neutral.
	_ = godotenv.Load()
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	return cfg, nil
}

// resolveProfile fills cfg.Profile from the --profile flag or the config
// file. The flag wins over the file; the file wins over the default.
// If the user explicitly specified a config file path, a missing file is
// an error. An unspecified, absent file is silently ignored.
func resolveProfile(cmd *cobra.Command, cfg *config.Config) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	explicitConfigPath := configPath != ""
	foundPath := config.FindConfigFile(configPath)

	if foundPath != "" {
		profile, err := config.LoadConfigFile(foundPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", foundPath, err)
		}
		cfg.Profile = profile
	} else if explicitConfigPath {
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	profileName, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	if profileName != "" {
		profile, err := config.ProfileByName(profileName)
		if err != nil {
			return err
		}
		cfg.Profile = profile
	}

	return nil
}

// runScan executes the scan against all targets.
func runScan(ctx context.Context, cfg *config.Config, targets []string, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", targets,
		"batchSize", cfg.BatchSize,
		"profile", cfg.Profile.Name,
	)

	mod, closeMod, err := newModerationAdapter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeMod()

	if !mod.Available() {
		fmt.Fprintln(os.Stderr, "Note: GEMINI_API_KEY not set; running rule-based checks only.")
	}

	client := &http.Client{Timeout: cfg.Timeout}

	if len(targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, targets, client, mod, logger)
	}
	return runSequentialScan(ctx, cfg, targets, client, mod, logger)
}

// newModerationAdapter builds the moderation adapter from the config.
// Without an API key the adapter carries a nil classifier and every
// moderation verdict is neutral.
func newModerationAdapter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*moderation.Adapter, func(), error) {
	adapterOpts := []moderation.AdapterOption{
		moderation.WithCutoff(cfg.Profile.ModerationCutoff),
		moderation.WithAdapterLogger(logger),
	}

	if cfg.GeminiAPIKey == "" {
		return moderation.NewAdapter(nil, adapterOpts...), func() {}, nil
	}

	classifier, err := moderation.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.ModerationModel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create moderation classifier: %w", err)
	}

	closeFn := func() {
		if err := classifier.Close(); err != nil {
			logger.Error("failed to close moderation classifier", "error", err)
		}
	}
	return moderation.NewAdapter(classifier, adapterOpts...), closeFn, nil
}

// createPipeline assembles a pipeline from the configuration.
func createPipeline(cfg *config.Config, client *http.Client, mod *moderation.Adapter, logger *slog.Logger) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
	}

	return pipeline.NewDefault(client, mod, cfg.Profile, pipelineOpts,
		pipeline.WithPipelineMaxPages(cfg.MaxPages),
		pipeline.WithPipelineSeedExpansion(cfg.SeedExpansion),
		pipeline.WithPipelineBatchSize(cfg.BatchSize),
		pipeline.WithPipelineUserAgent(cfg.UserAgent),
		pipeline.WithPipelineMaxBodySize(cfg.MaxBodySize),
	)
}

// runSequentialScan scans targets one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, targets []string, client *http.Client, mod *moderation.Adapter, logger *slog.Logger) error {
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipeline(cfg, client, mod, logger)
		scanReport := model.NewScanReport(target)

		fmt.Printf("Auditing %s...\n", target)
		startTime := time.Now()

		if err := p.Execute(ctx, scanReport); err != nil {
			logger.Error("scan failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		if cfg.ArchiveReports {
			if err := archiveReport(scanReport); err != nil {
				logger.Error("failed to archive report", "target", target, "error", err)
			}
		}
	}

	return nil
}

// runBatchScan scans multiple targets concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, targets []string, client *http.Client, mod *moderation.Adapter, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d sites (concurrency: %d)...\n\n",
		len(targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipeline(cfg, client, mod, logger)
		},
		pipeline.WithBatchConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Callback for streaming output as each scan completes
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, targets, func(scanReport *model.ScanReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Audit completed: %s\n", index+1, len(targets), scanReport.SiteURL)

		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "target", scanReport.SiteURL, "error", err)
		}

		if cfg.ArchiveReports {
			if err := archiveReport(scanReport); err != nil {
				logger.Error("failed to archive report", "target", scanReport.SiteURL, "error", err)
			}
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// archiveReport saves a JSON copy of the report to the XDG data
// directory, named by site host and scan time.
func archiveReport(scanReport *model.ScanReport) error {
	dir := config.XDGDataDir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	host := "site"
	if u, err := url.Parse(scanReport.SiteURL); err == nil && u.Host != "" {
		host = u.Host
	}
	name := fmt.Sprintf("%s-%s.json", host, scanReport.DateScanned.Format("20060102-150405"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	_, err = report.NewJSONWriter(f, report.WithPrettyPrint()).Write(scanReport)
	return err
}

// outputReport writes the scan report in the requested format.
func outputReport(cfg *config.Config, scanReport *model.ScanReport) error {
	output, err := report.Open(cfg.ReportFile)
	if err != nil {
		return fmt.Errorf("failed to open report output: %w", err)
	}
	defer output.Close()

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err = writer.Write(scanReport)
	return err
}
