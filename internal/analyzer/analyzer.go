package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/adaudit/adaudit/internal/model"
)

// Analyzer coordinates the per-page checks that share a parsed document.
//
// Design decision: We parse each page exactly once and hand the document
// to the quality analyzer and the rule detector because:
//  1. Parsing is the dominant cost on large pages
//  2. Both checks need the same DOM and the same extracted text
//  3. The extracted text is also what moderation and duplicate
//     detection consume, so it is returned to the caller
type Analyzer struct {
	quality *QualityAnalyzer
	rules   *RuleDetector
}

// PageAnalysis is the combined outcome of the offline checks for one page.
type PageAnalysis struct {
	// Quality is the word-count and heading-structure report.
	Quality *model.QualityReport

	// Violations are the rule-based findings.
	Violations []model.Violation

	// Text is the page's visible text, for moderation and duplicate checks.
	Text string
}

// NewAnalyzer creates an Analyzer. Options are forwarded to the
// underlying quality analyzer and rule detector.
func NewAnalyzer(qualityOpts []QualityOption, ruleOpts []RuleOption) *Analyzer {
	return &Analyzer{
		quality: NewQualityAnalyzer(qualityOpts...),
		rules:   NewRuleDetector(ruleOpts...),
	}
}

// AnalyzePage parses raw HTML and runs the quality and rule checks.
// A parse failure is returned to the caller, who decides whether the
// page is skipped or the scan degrades.
func (a *Analyzer) AnalyzePage(rawHTML string) (*PageAnalysis, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	text := doc.Find("body").Text()
	return &PageAnalysis{
		Quality:    a.quality.Analyze(doc),
		Violations: a.rules.Detect(doc, text),
		Text:       text,
	}, nil
}
