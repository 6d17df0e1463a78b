package analyzer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/adaudit/adaudit/internal/model"
)

// contentSelector picks the main content region of a page. The first
// matching element wins; pages without any of these fall back to body.
const contentSelector = "article, main, .post-content, .entry-content"

// QualityAnalyzer measures the textual substance and markup structure of
// a page.
type QualityAnalyzer struct {
	// minWordCount is the threshold below which content is flagged as thin.
	minWordCount int
}

// QualityOption configures a QualityAnalyzer.
type QualityOption func(*QualityAnalyzer)

// WithMinWordCount overrides the thin-content threshold.
func WithMinWordCount(n int) QualityOption {
	return func(q *QualityAnalyzer) {
		if n > 0 {
			q.minWordCount = n
		}
	}
}

// NewQualityAnalyzer creates a QualityAnalyzer with default thresholds.
func NewQualityAnalyzer(opts ...QualityOption) *QualityAnalyzer {
	q := &QualityAnalyzer{
		minWordCount: 300,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Analyze derives a quality report from a parsed page.
//
// The word count is taken from the main content region rather than the
// whole document so that navigation, sidebars, and footers do not inflate
// it. Issue strings are appended in a fixed order so report output is
// stable across runs.
func (q *QualityAnalyzer) Analyze(doc *goquery.Document) *model.QualityReport {
	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}
	wordCount := len(strings.Fields(content.Text()))

	hasH1 := doc.Find("h1").Length() > 0
	hasSub := doc.Find("h2, h3").Length() > 0

	report := &model.QualityReport{
		WordCount:                 wordCount,
		HasProperHeadingHierarchy: hasH1 && hasSub,
	}

	if wordCount < q.minWordCount {
		report.Issues = append(report.Issues,
			fmt.Sprintf("thin content: %d words, expected at least %d", wordCount, q.minWordCount))
	}
	if !hasH1 {
		report.Issues = append(report.Issues, "missing h1 heading")
	}
	if hasH1 && !hasSub {
		report.Issues = append(report.Issues, "no h2/h3 subheadings")
	}

	return report
}
