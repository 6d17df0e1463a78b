package model

import "time"

// PageFinding aggregates every signal worth reporting for one analyzed
// content page. Pages with zero signals are dropped by the pipeline, not
// retained as empty records.
type PageFinding struct {
	// URL is the page's canonical (fragment-free) URL.
	URL string `json:"url"`

	// Violations lists all policy breaches found on the page, from both
	// the rule-based detectors and the moderation adapter. The two
	// sources are additive; no deduplication is performed between them.
	Violations []Violation `json:"violations,omitempty"`

	// Summary is a one-line description of the page's state.
	Summary string `json:"summary,omitempty"`

	// Suggestions are remediation hints for this page.
	Suggestions []string `json:"suggestions,omitempty"`

	// QualityIssues carries the quality analyzer's issue strings, if any.
	QualityIssues []string `json:"quality_issues,omitempty"`

	// Duplicate is true when the page's content near-matches an
	// already-analyzed page.
	Duplicate bool `json:"duplicate,omitempty"`
}

// HasSignal reports whether the finding carries anything worth keeping.
func (f *PageFinding) HasSignal() bool {
	return len(f.Violations) > 0 || len(f.QualityIssues) > 0 || f.Duplicate
}

// ScanReport is the terminal aggregate for one scan request.
// It is created once per scan, filled in by pipeline steps, and immutable
// after the scoring step runs. Reports are never persisted across requests.
type ScanReport struct {
	// SiteURL is the homepage URL the scan started from.
	SiteURL string `json:"site_url"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// === Crawl Data ===

	// Frontier is the full deduplicated set of same-host URLs discovered
	// during crawling. Excluded from JSON due to size; PagesDiscovered
	// carries the count.
	Frontier []string `json:"-"`

	// PagesDiscovered is the size of the crawl frontier.
	PagesDiscovered int `json:"pages_discovered"`

	// Posts are the URLs the classifier accepted as content pages,
	// deduplicated by canonical URL.
	Posts []string `json:"posts,omitempty"`

	// HomepageMeta holds the homepage title and meta description.
	HomepageMeta PageMeta `json:"homepage_meta"`

	// HomepageContent is the homepage's raw HTML, kept for the homepage
	// analysis step. Excluded from JSON due to size.
	HomepageContent string `json:"-"`

	// HomepageQuality is the homepage's quality report, filled in by the
	// homepage analysis step and consumed by scoring.
	HomepageQuality *QualityReport `json:"homepage_quality,omitempty"`

	// === Site Structure ===

	// MissingPages lists required pages (privacy policy, about, contact)
	// not found anywhere in the frontier.
	MissingPages []string `json:"missing_pages,omitempty"`

	// StructureWarnings are site-level warnings consumed verbatim by
	// report writers.
	StructureWarnings []string `json:"structure_warnings,omitempty"`

	// === Findings ===

	// HomepageFinding is the homepage's analysis result. The homepage is
	// always analyzed and always reported separately from post findings.
	HomepageFinding *PageFinding `json:"homepage_finding,omitempty"`

	// PageFindings holds one finding per analyzed post that had at least
	// one signal worth reporting.
	PageFindings []PageFinding `json:"page_findings,omitempty"`

	// === Aggregation ===

	// Suggestions is the capped aggregate suggestion list.
	Suggestions []string `json:"suggestions,omitempty"`

	// Score is the compliance score in [0,100].
	Score int `json:"score"`

	// Summary is the one-line human-readable verdict.
	Summary string `json:"summary"`

	// === Scan State ===

	// PerformedSteps lists the pipeline steps that actually ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the fatal error if the scan aborted.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewScanReport creates an empty report for the given site URL.
func NewScanReport(siteURL string) *ScanReport {
	return &ScanReport{
		SiteURL:     siteURL,
		DateScanned: time.Now(),
	}
}

// AddPageFinding appends a post finding. Callers running concurrent
// analysis tasks must serialize access themselves; the report performs
// no locking of its own.
func (r *ScanReport) AddPageFinding(f PageFinding) {
	r.PageFindings = append(r.PageFindings, f)
}

// TotalViolations counts violations across the homepage and all posts.
func (r *ScanReport) TotalViolations() int {
	n := 0
	if r.HomepageFinding != nil {
		n += len(r.HomepageFinding.Violations)
	}
	for i := range r.PageFindings {
		n += len(r.PageFindings[i].Violations)
	}
	return n
}

// HomepageIssueCount returns the number of structural issues recorded
// against the homepage.
func (r *ScanReport) HomepageIssueCount() int {
	if r.HomepageFinding == nil {
		return 0
	}
	return len(r.HomepageFinding.QualityIssues)
}

// HasMetaDescription reports whether the homepage carried a meta description.
func (r *ScanReport) HasMetaDescription() bool {
	return r.HomepageMeta.Description != ""
}
