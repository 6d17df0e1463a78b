package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/adaudit/adaudit/internal/analyzer"
	"github.com/adaudit/adaudit/internal/config"
	"github.com/adaudit/adaudit/internal/crawler"
	"github.com/adaudit/adaudit/internal/model"
	"github.com/adaudit/adaudit/internal/moderation"
	"github.com/adaudit/adaudit/internal/scoring"
)

// CrawlStep discovers the site's URL frontier starting from the homepage.
//
// Design decision: Crawling is the only step allowed to fail the whole
// pipeline because:
// 1. Every later step consumes crawl data
// 2. An unreachable homepage means there is no site to audit
// 3. Partial per-page failures are absorbed inside the spider instead
type CrawlStep struct {
	// client is the HTTP client used for all fetches.
	client *http.Client

	// maxPages limits the size of the discovered frontier.
	maxPages int

	// seedExpansion limits how many homepage links are expanded.
	seedExpansion int

	// concurrency limits parallel fetches during expansion.
	concurrency int

	// userAgent is the User-Agent header to send with requests.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlMaxPages sets the frontier size limit.
func WithCrawlMaxPages(maxPages int) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxPages = maxPages
	}
}

// WithCrawlSeedExpansion sets how many homepage links are expanded.
func WithCrawlSeedExpansion(n int) CrawlStepOption {
	return func(s *CrawlStep) {
		s.seedExpansion = n
	}
}

// WithCrawlConcurrency sets the parallel fetch limit.
func WithCrawlConcurrency(n int) CrawlStepOption {
	return func(s *CrawlStep) {
		s.concurrency = n
	}
}

// WithCrawlUserAgent sets the User-Agent header for HTTP requests.
func WithCrawlUserAgent(userAgent string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.userAgent = userAgent
	}
}

// WithCrawlMaxBodySize sets the maximum response body size in bytes.
func WithCrawlMaxBodySize(maxBodySize int64) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxBodySize = maxBodySize
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a new crawling step.
func NewCrawlStep(client *http.Client, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		client:        client,
		maxPages:      config.DefaultMaxPages,
		seedExpansion: config.DefaultSeedExpansion,
		concurrency:   config.DefaultBatchSize,
		userAgent:     config.DefaultUserAgent,
		maxBodySize:   config.DefaultMaxBodySize,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, report *model.ScanReport) error {
	fetcher := crawler.NewFetcher(s.client,
		crawler.WithUserAgent(s.userAgent),
		crawler.WithMaxBodySize(s.maxBodySize),
	)
	spider := crawler.NewSpider(fetcher,
		crawler.WithMaxPages(s.maxPages),
		crawler.WithSeedExpansion(s.seedExpansion),
		crawler.WithConcurrency(s.concurrency),
		crawler.WithLogger(s.logger),
	)

	result, err := spider.Crawl(ctx, report.SiteURL)
	if err != nil {
		return err
	}

	report.Frontier = result.Frontier
	report.PagesDiscovered = len(result.Frontier)
	report.HomepageMeta = result.HomepageMeta
	report.HomepageContent = result.Homepage.RawContent

	s.logger.Info("crawl completed",
		"pages_discovered", report.PagesDiscovered,
		"pages_fetched", result.PagesFetched,
	)

	return nil
}

// requiredPages maps a human-readable page name to the path segments
// that satisfy it.
var requiredPages = []struct {
	name     string
	segments []string
}{
	{"privacy policy", []string{"privacy", "privacy-policy"}},
	{"about", []string{"about", "about-us"}},
	{"contact", []string{"contact", "contact-us"}},
}

// ClassifyStep separates content posts from structural pages and checks
// the site for required pages.
type ClassifyStep struct {
	classifier *crawler.Classifier
	profile    *config.Profile
	logger     *slog.Logger
}

// ClassifyStepOption configures a ClassifyStep.
type ClassifyStepOption func(*ClassifyStep)

// WithClassifyProfile sets the threshold profile.
func WithClassifyProfile(profile *config.Profile) ClassifyStepOption {
	return func(s *ClassifyStep) {
		if profile != nil {
			s.profile = profile
		}
	}
}

// WithClassifyLogger sets a custom logger for the classify step.
func WithClassifyLogger(logger *slog.Logger) ClassifyStepOption {
	return func(s *ClassifyStep) {
		s.logger = logger
	}
}

// NewClassifyStep creates a new classification step.
func NewClassifyStep(opts ...ClassifyStepOption) *ClassifyStep {
	s := &ClassifyStep{
		classifier: crawler.NewClassifier(),
		profile:    config.StandardProfile(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classification step.
func (s *ClassifyStep) Do(_ context.Context, report *model.ScanReport) error {
	report.Posts = s.classifier.FilterPosts(report.Frontier)

	for _, required := range requiredPages {
		if !frontierHasPage(report.Frontier, required.segments) {
			report.MissingPages = append(report.MissingPages, required.name)
		}
	}

	if len(report.Posts) < s.profile.LowPostThreshold {
		report.StructureWarnings = append(report.StructureWarnings, "few posts discovered")
	}

	s.logger.Info("classification completed",
		"posts", len(report.Posts),
		"missing_pages", len(report.MissingPages),
	)

	return nil
}

// frontierHasPage reports whether any frontier URL's path contains one
// of the given segments.
func frontierHasPage(frontier []string, segments []string) bool {
	for _, raw := range frontier {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		for _, part := range strings.Split(strings.Trim(u.Path, "/"), "/") {
			for _, seg := range segments {
				if strings.EqualFold(part, seg) {
					return true
				}
			}
		}
	}
	return false
}

// HomepageStep analyzes the homepage itself. The homepage is always
// analyzed and its finding is reported separately from post findings.
type HomepageStep struct {
	analyzer   *analyzer.Analyzer
	moderation *moderation.Adapter
	logger     *slog.Logger
}

// HomepageStepOption configures a HomepageStep.
type HomepageStepOption func(*HomepageStep)

// WithHomepageLogger sets a custom logger for the homepage step.
func WithHomepageLogger(logger *slog.Logger) HomepageStepOption {
	return func(s *HomepageStep) {
		s.logger = logger
	}
}

// NewHomepageStep creates a new homepage analysis step.
func NewHomepageStep(a *analyzer.Analyzer, mod *moderation.Adapter, opts ...HomepageStepOption) *HomepageStep {
	s := &HomepageStep{
		analyzer:   a,
		moderation: mod,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *HomepageStep) Name() string {
	return "homepage"
}

// Do executes the homepage analysis step.
func (s *HomepageStep) Do(ctx context.Context, report *model.ScanReport) error {
	analysis, err := s.analyzer.AnalyzePage(report.HomepageContent)
	if err != nil {
		// A homepage that fetched but does not parse still gets a finding,
		// just an empty one.
		s.logger.Warn("homepage analysis failed", "url", report.SiteURL, "error", err)
		report.HomepageFinding = &model.PageFinding{URL: report.SiteURL}
		return nil
	}

	verdict := s.moderation.Moderate(ctx, analysis.Text, report.SiteURL)

	report.HomepageQuality = analysis.Quality
	report.HomepageFinding = &model.PageFinding{
		URL:           report.SiteURL,
		Violations:    append(analysis.Violations, verdict.Violations...),
		Summary:       verdict.Summary,
		Suggestions:   verdict.Suggestions,
		QualityIssues: analysis.Quality.Issues,
	}

	return nil
}

// AnalyzeStep fetches and analyzes every classified post.
//
// Posts are processed in fixed-size batches; all pages of a batch run
// concurrently and the batch completes fully before the next one starts.
// This bounds both memory (page bodies in flight) and the burst rate
// against the target site.
type AnalyzeStep struct {
	client     *http.Client
	analyzer   *analyzer.Analyzer
	moderation *moderation.Adapter
	duplicates *analyzer.Detector

	batchSize   int
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// AnalyzeStepOption configures an AnalyzeStep.
type AnalyzeStepOption func(*AnalyzeStep)

// WithAnalyzeBatchSize sets the batch size for post analysis.
func WithAnalyzeBatchSize(n int) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithAnalyzeUserAgent sets the User-Agent header for post fetches.
func WithAnalyzeUserAgent(userAgent string) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		s.userAgent = userAgent
	}
}

// WithAnalyzeMaxBodySize sets the maximum response body size in bytes.
func WithAnalyzeMaxBodySize(maxBodySize int64) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		s.maxBodySize = maxBodySize
	}
}

// WithAnalyzeDuplicateDetector sets the duplicate detector. By default a
// fresh detector with standard thresholds is used per step instance.
func WithAnalyzeDuplicateDetector(d *analyzer.Detector) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		if d != nil {
			s.duplicates = d
		}
	}
}

// WithAnalyzeLogger sets a custom logger for the analyze step.
func WithAnalyzeLogger(logger *slog.Logger) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		s.logger = logger
	}
}

// NewAnalyzeStep creates a new post analysis step.
func NewAnalyzeStep(client *http.Client, a *analyzer.Analyzer, mod *moderation.Adapter, opts ...AnalyzeStepOption) *AnalyzeStep {
	s := &AnalyzeStep{
		client:      client,
		analyzer:    a,
		moderation:  mod,
		duplicates:  analyzer.NewDetector(),
		batchSize:   config.DefaultBatchSize,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do executes the post analysis step.
func (s *AnalyzeStep) Do(ctx context.Context, report *model.ScanReport) error {
	fetcher := crawler.NewFetcher(s.client,
		crawler.WithUserAgent(s.userAgent),
		crawler.WithMaxBodySize(s.maxBodySize),
	)

	// Findings accumulate under a mutex; the report itself does no locking.
	var mu sync.Mutex

	posts := report.Posts
	for start := 0; start < len(posts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(posts) {
			end = len(posts)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, postURL := range posts[start:end] {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				finding, ok := s.analyzePost(gctx, fetcher, postURL)
				if !ok {
					return nil
				}
				mu.Lock()
				report.AddPageFinding(finding)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	s.logger.Info("post analysis completed",
		"posts", len(posts),
		"findings", len(report.PageFindings),
	)

	return nil
}

// analyzePost runs all per-page checks for one post. It returns false
// when the page yielded nothing worth reporting, including every failure
// path; analysis failures never abort the scan.
func (s *AnalyzeStep) analyzePost(ctx context.Context, fetcher *crawler.Fetcher, postURL string) (model.PageFinding, bool) {
	page := fetcher.Fetch(ctx, postURL)
	if !page.FetchSucceeded {
		s.logger.Debug("post fetch failed", "url", postURL, "status", page.StatusCode)
		return model.PageFinding{}, false
	}

	analysis, err := s.analyzer.AnalyzePage(page.RawContent)
	if err != nil {
		s.logger.Debug("post parse failed", "url", postURL, "error", err)
		return model.PageFinding{}, false
	}

	duplicate := s.duplicates.IsDuplicate(analysis.Text)
	s.duplicates.Add(analysis.Text)

	verdict := s.moderation.Moderate(ctx, analysis.Text, postURL)

	finding := model.PageFinding{
		URL:           postURL,
		Violations:    append(analysis.Violations, verdict.Violations...),
		Summary:       verdict.Summary,
		Suggestions:   verdict.Suggestions,
		QualityIssues: analysis.Quality.Issues,
		Duplicate:     duplicate,
	}
	return finding, finding.HasSignal()
}

// ScoreStep computes the final score, summary, and aggregate suggestions.
type ScoreStep struct {
	engine *scoring.Engine
	logger *slog.Logger
}

// ScoreStepOption configures a ScoreStep.
type ScoreStepOption func(*ScoreStep)

// WithScoreLogger sets a custom logger for the score step.
func WithScoreLogger(logger *slog.Logger) ScoreStepOption {
	return func(s *ScoreStep) {
		s.logger = logger
	}
}

// NewScoreStep creates a new scoring step.
func NewScoreStep(profile *config.Profile, opts ...ScoreStepOption) *ScoreStep {
	s := &ScoreStep{
		engine: scoring.NewEngine(profile),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ScoreStep) Name() string {
	return "score"
}

// Do executes the scoring step.
func (s *ScoreStep) Do(_ context.Context, report *model.ScanReport) error {
	s.engine.Score(report, report.HomepageQuality)

	s.logger.Info("scoring completed",
		"score", report.Score,
		"violations", report.TotalViolations(),
	)

	return nil
}

// DefaultConfig holds configuration for the default pipeline.
type DefaultConfig struct {
	// MaxPages limits the crawl frontier size.
	MaxPages int

	// SeedExpansion limits how many homepage links are expanded.
	SeedExpansion int

	// BatchSize is the post analysis batch size, also used as the crawl
	// concurrency limit.
	BatchSize int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64
}

// DefaultOption configures a DefaultConfig.
type DefaultOption func(*DefaultConfig)

// WithPipelineMaxPages sets the crawl frontier limit.
func WithPipelineMaxPages(maxPages int) DefaultOption {
	return func(c *DefaultConfig) {
		c.MaxPages = maxPages
	}
}

// WithPipelineSeedExpansion sets the homepage link expansion limit.
func WithPipelineSeedExpansion(n int) DefaultOption {
	return func(c *DefaultConfig) {
		c.SeedExpansion = n
	}
}

// WithPipelineBatchSize sets the analysis batch size.
func WithPipelineBatchSize(n int) DefaultOption {
	return func(c *DefaultConfig) {
		c.BatchSize = n
	}
}

// WithPipelineUserAgent sets the User-Agent header for HTTP requests.
func WithPipelineUserAgent(userAgent string) DefaultOption {
	return func(c *DefaultConfig) {
		c.UserAgent = userAgent
	}
}

// WithPipelineMaxBodySize sets the maximum response body size in bytes.
func WithPipelineMaxBodySize(maxBodySize int64) DefaultOption {
	return func(c *DefaultConfig) {
		c.MaxBodySize = maxBodySize
	}
}

// NewDefault creates a pipeline with all default steps configured.
// This is the standard pipeline for a full site audit.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineMaxPages, etc).
func NewDefault(client *http.Client, mod *moderation.Adapter, profile *config.Profile, pipelineOpts []Option, configOpts ...DefaultOption) *Pipeline {
	p := New(pipelineOpts...)

	if profile == nil {
		profile = config.StandardProfile()
	}

	cfg := &DefaultConfig{
		MaxPages:      config.DefaultMaxPages,
		SeedExpansion: config.DefaultSeedExpansion,
		BatchSize:     config.DefaultBatchSize,
		UserAgent:     config.DefaultUserAgent,
		MaxBodySize:   config.DefaultMaxBodySize,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	pageAnalyzer := analyzer.NewAnalyzer(
		[]analyzer.QualityOption{analyzer.WithMinWordCount(profile.MinWordCount)},
		[]analyzer.RuleOption{analyzer.WithMaxAdUnits(profile.MaxAdUnits)},
	)
	duplicates := analyzer.NewDetector(
		analyzer.WithDuplicateThreshold(profile.DuplicateThreshold),
		analyzer.WithDuplicateMinLength(profile.DuplicateMinLength),
	)

	p.AddSteps(
		NewCrawlStep(client,
			WithCrawlMaxPages(cfg.MaxPages),
			WithCrawlSeedExpansion(cfg.SeedExpansion),
			WithCrawlConcurrency(cfg.BatchSize),
			WithCrawlUserAgent(cfg.UserAgent),
			WithCrawlMaxBodySize(cfg.MaxBodySize),
		),
		NewClassifyStep(
			WithClassifyProfile(profile),
		),
		NewHomepageStep(pageAnalyzer, mod),
		NewAnalyzeStep(client, pageAnalyzer, mod,
			WithAnalyzeBatchSize(cfg.BatchSize),
			WithAnalyzeUserAgent(cfg.UserAgent),
			WithAnalyzeMaxBodySize(cfg.MaxBodySize),
			WithAnalyzeDuplicateDetector(duplicates),
		),
		NewScoreStep(profile),
	)

	return p
}
