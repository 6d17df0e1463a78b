package crawler

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/adaudit/adaudit/internal/config"
	"github.com/adaudit/adaudit/internal/model"
)

// ErrHomepageUnreachable is the one fatal crawl error. If the homepage
// cannot be fetched there is nothing to audit and the scan aborts.
var ErrHomepageUnreachable = errors.New("homepage unreachable")

// Spider performs the two-phase bounded crawl that builds the frontier.
//
// Phase 1 fetches the homepage and seeds the frontier with its links.
// Phase 2 expands a fixed-size prefix of those seed links concurrently
// and merges discovered links back in, until the page budget is hit.
// The cap on expansion is deliberate: it bounds outbound request volume
// on sites with very large homepages.
type Spider struct {
	// fetcher retrieves pages.
	fetcher *Fetcher

	// maxPages bounds the frontier size. Once exceeded, in-flight fetches
	// complete but their discovered links are not added.
	maxPages int

	// seedExpansion is how many seed links phase 2 fetches.
	seedExpansion int

	// concurrency limits simultaneous expansion fetches.
	concurrency int

	// logger for structured logging.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the frontier page budget.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithSeedExpansion sets how many seed links are expanded.
func WithSeedExpansion(n int) SpiderOption {
	return func(s *Spider) {
		s.seedExpansion = n
	}
}

// WithConcurrency sets the expansion fetch concurrency.
func WithConcurrency(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider using the given Fetcher.
func NewSpider(fetcher *Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:       fetcher,
		maxPages:      config.DefaultMaxPages,
		seedExpansion: config.DefaultSeedExpansion,
		concurrency:   config.DefaultBatchSize,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CrawlResult is everything one crawl produces.
type CrawlResult struct {
	// Frontier is the full deduplicated set of discovered same-host URLs,
	// in discovery order. It does not include the homepage itself.
	Frontier []string

	// Homepage is the homepage fetch result.
	Homepage *model.PageResult

	// HomepageMeta carries the homepage title and meta description.
	HomepageMeta model.PageMeta

	// PagesFetched counts pages fetched during both phases, including
	// failures.
	PagesFetched int
}

// frontier is the mutable discovery set shared by expansion tasks.
// All mutation happens under the mutex; concurrent fetches only touch it
// through add.
type frontier struct {
	mu    sync.Mutex
	seen  map[string]bool
	order []string
	limit int
}

func newFrontier(limit int) *frontier {
	return &frontier{seen: make(map[string]bool), limit: limit}
}

// add merges links into the frontier, stopping at the limit.
// Links beyond the budget are silently dropped.
func (f *frontier) add(links []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, link := range links {
		if len(f.order) >= f.limit {
			return
		}
		if !f.seen[link] {
			f.seen[link] = true
			f.order = append(f.order, link)
		}
	}
}

// snapshot returns the frontier contents in discovery order.
func (f *frontier) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Crawl runs both phases and returns the frontier.
// Only a homepage fetch failure is fatal; every other page failure is
// absorbed and yields no links.
func (s *Spider) Crawl(ctx context.Context, homepageURL string) (*CrawlResult, error) {
	start, err := url.Parse(homepageURL)
	if err != nil || start.Host == "" {
		return nil, ErrHomepageUnreachable
	}

	// Phase 1: seed discovery.
	homepage := s.fetcher.Fetch(ctx, homepageURL)
	if !homepage.FetchSucceeded {
		return nil, ErrHomepageUnreachable
	}

	extractor, err := NewExtractor(homepageURL)
	if err != nil {
		return nil, ErrHomepageUnreachable
	}
	seed, err := extractor.Extract(homepage.RawContent)
	if err != nil {
		// Unparseable homepage markup still counts as reachable; the
		// scan proceeds with an empty frontier.
		s.logger.Warn("homepage parse failed", "url", homepageURL, "error", err)
		seed = &ExtractResult{}
	}

	fr := newFrontier(s.maxPages)
	fr.add(seed.Links)

	result := &CrawlResult{
		Homepage:     homepage,
		HomepageMeta: seed.Meta,
		PagesFetched: 1,
	}

	// Phase 2: bounded expansion over a fixed prefix of the seed links.
	expand := seed.Links
	if len(expand) > s.seedExpansion {
		expand = expand[:s.seedExpansion]
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	var countMu sync.Mutex
	for _, link := range expand {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			page := s.fetcher.Fetch(gctx, link)
			countMu.Lock()
			result.PagesFetched++
			countMu.Unlock()

			if !page.FetchSucceeded {
				s.logger.Debug("expansion fetch failed", "url", link, "status", page.StatusCode)
				return nil
			}

			ex, err := NewExtractor(link)
			if err != nil {
				return nil
			}
			inner, err := ex.Extract(page.RawContent)
			if err != nil {
				s.logger.Debug("expansion parse failed", "url", link, "error", err)
				return nil
			}
			fr.add(inner.Links)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Context cancellation surfaces here; partial frontier is still
		// returned alongside the error.
		result.Frontier = fr.snapshot()
		return result, err
	}

	result.Frontier = fr.snapshot()
	s.logger.Info("crawl completed",
		"frontier_size", len(result.Frontier),
		"pages_fetched", result.PagesFetched,
	)
	return result, nil
}
