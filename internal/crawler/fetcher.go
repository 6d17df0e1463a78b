package crawler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/adaudit/adaudit/internal/config"
	"github.com/adaudit/adaudit/internal/model"
)

// Fetcher retrieves raw page content for a URL.
//
// Contract: Fetch never returns an error. Network failures, timeouts,
// TLS problems, and non-2xx statuses all yield a PageResult with
// FetchSucceeded set to false, because no single page failure may be
// fatal to a scan. Retry policy, if any, belongs to callers; the
// fetcher performs exactly one attempt.
type Fetcher struct {
	// client performs the requests. Injected so tests and the server can
	// share one transport.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize bounds how much of a response body is read.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
// A nil client gets a default one with the standard per-request timeout.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = NewHTTPClient(config.DefaultTimeout)
	}
	f := &Fetcher{
		client:      client,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewHTTPClient builds an HTTP client with the per-request timeout
// applied. Redirects are followed with the default policy.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// Fetch retrieves a single page.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) *model.PageResult {
	result := &model.PageResult{URL: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return result
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return result
	}

	result.RawContent = string(body)
	result.FetchSucceeded = true
	return result
}
