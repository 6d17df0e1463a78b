package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These match the stricter of the two threshold variants observed in
// production use; the looser variant can be selected via a profile file.
const (
	// DefaultTimeout is the per-request fetch timeout. It bounds each
	// individual network operation; no timeout spans the whole scan.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxPages bounds the crawl frontier. Expansion stops accepting
	// new links once the frontier exceeds this size.
	DefaultMaxPages = 150

	// DefaultSeedExpansion is the number of homepage links fetched during
	// the expansion phase. This is a deliberate cap on outbound request
	// volume, not the full frontier.
	DefaultSeedExpansion = 30

	// DefaultBatchSize is the number of posts analyzed concurrently.
	// Each batch fully completes before the next starts.
	DefaultBatchSize = 8

	// DefaultMinWordCount is the minimum word count below which a page is
	// flagged as thin content.
	DefaultMinWordCount = 300

	// DefaultMaxAdUnits is the ad-element count above which a page gets an
	// excessive-ads violation.
	DefaultMaxAdUnits = 5

	// DefaultMaxSuggestions caps the aggregate suggestion list in the report.
	DefaultMaxSuggestions = 10

	// DefaultUserAgent identifies the auditor in HTTP requests.
	DefaultUserAgent = "adaudit/1.0 (+https://github.com/adaudit/adaudit)"

	// DefaultMaxBodySize limits response bodies to 5MB. Larger pages are
	// truncated to prevent memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultModerationModel is the Gemini model used for content moderation.
	DefaultModerationModel = "gemini-2.5-flash-lite"

	// DefaultServerAddr is the listen address for serve mode.
	DefaultServerAddr = ":8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "adaudit"
)

// Config holds all options for a scan run.
// It is populated from CLI flags (or server request parameters) and passed
// through the application via dependency injection.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The option count is manageable, and nesting would add indirection
// without benefit. Analysis thresholds that vary by profile live in
// Profile instead.
type Config struct {
	// TargetURL is the homepage URL the scan starts from.
	TargetURL string

	// Timeout is the per-fetch timeout.
	Timeout time.Duration

	// MaxPages bounds the crawl frontier size.
	MaxPages int

	// SeedExpansion is how many homepage links to expand during crawling.
	SeedExpansion int

	// BatchSize is the per-batch concurrency for post analysis.
	BatchSize int

	// UserAgent is the User-Agent header for all fetches.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// GeminiAPIKey authenticates the moderation classifier. Empty means
	// moderation runs degraded: every verdict is neutral.
	GeminiAPIKey string

	// ModerationModel is the Gemini model name for moderation calls.
	ModerationModel string

	// Profile holds the analysis thresholds and scoring weights.
	Profile *Profile

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport selects JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ArchiveReports additionally saves a JSON copy of each report under
	// the XDG data directory.
	ArchiveReports bool

	// ServerAddr is the listen address for serve mode.
	ServerAddr string
}

// NewConfig returns a Config with all defaults applied and the standard
// threshold profile selected.
func NewConfig() *Config {
	return &Config{
		Timeout:         DefaultTimeout,
		MaxPages:        DefaultMaxPages,
		SeedExpansion:   DefaultSeedExpansion,
		BatchSize:       DefaultBatchSize,
		UserAgent:       DefaultUserAgent,
		MaxBodySize:     DefaultMaxBodySize,
		ModerationModel: DefaultModerationModel,
		Profile:         StandardProfile(),
		ServerAddr:      DefaultServerAddr,
	}
}

// XDGConfigDir returns the XDG config directory for the auditor.
// On Linux: ~/.config/adaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory, used as the default location
// for written report files.
// On Linux: ~/.local/share/adaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any scanning begins.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return ErrNoTarget
	}
	u, err := url.Parse(c.TargetURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidTarget
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidTarget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
