package scoring

import (
	"fmt"

	"github.com/adaudit/adaudit/internal/config"
	"github.com/adaudit/adaudit/internal/model"
)

// Engine computes the final compliance score and aggregate summary for
// a scan report. It mutates the report in place and must run after every
// analysis step has finished.
type Engine struct {
	profile *config.Profile
}

// NewEngine creates an Engine using the given profile's weights. A nil
// profile falls back to the standard profile.
func NewEngine(profile *config.Profile) *Engine {
	if profile == nil {
		profile = config.StandardProfile()
	}
	return &Engine{profile: profile}
}

// Score fills in the report's Score, Summary, and Suggestions.
//
// homepageQuality is the homepage's quality report; it may be nil when
// homepage analysis was skipped, in which case the heading deduction is
// not applied. A weak homepage heading structure is deducted both here
// and through the per-issue homepage weight.
func (e *Engine) Score(report *model.ScanReport, homepageQuality *model.QualityReport) {
	p := e.profile

	deductions := 0
	deductions += report.TotalViolations() * p.ViolationWeight
	deductions += len(report.MissingPages) * p.MissingPageWeight
	deductions += report.HomepageIssueCount() * p.HomepageIssueWeight

	postCount := len(report.Posts)
	switch {
	case postCount < p.LowPostThreshold:
		deductions += p.LowPostDeduction
	case postCount < p.GoodPostThreshold:
		deductions += p.MidPostDeduction
	}

	if !report.HasMetaDescription() {
		deductions += p.MissingMetaDeduction
	}
	if homepageQuality != nil && !homepageQuality.HasProperHeadingHierarchy {
		deductions += p.WeakHeadingDeduction
	}

	report.Score = clamp(100-deductions, 0, 100)
	report.Suggestions = e.collectSuggestions(report)
	report.Summary = e.summarize(report, postCount)
}

// collectSuggestions concatenates per-finding suggestions in report
// order, homepage first, capped at the profile limit.
func (e *Engine) collectSuggestions(report *model.ScanReport) []string {
	var suggestions []string
	if report.HomepageFinding != nil {
		suggestions = append(suggestions, report.HomepageFinding.Suggestions...)
	}
	for i := range report.PageFindings {
		suggestions = append(suggestions, report.PageFindings[i].Suggestions...)
	}
	if len(suggestions) > e.profile.MaxSuggestions {
		suggestions = suggestions[:e.profile.MaxSuggestions]
	}
	return suggestions
}

// summarize picks the verdict line. Violations dominate low content
// volume, which dominates the compliant verdict.
func (e *Engine) summarize(report *model.ScanReport, postCount int) string {
	if n := report.TotalViolations(); n > 0 {
		return fmt.Sprintf("%d policy violation(s) detected across the site", n)
	}
	if postCount < e.profile.LowPostThreshold {
		return fmt.Sprintf("no violations, but low content volume (%d posts)", postCount)
	}
	return "site appears compliant with advertising policies"
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
