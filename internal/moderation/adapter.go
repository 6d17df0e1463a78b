package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adaudit/adaudit/internal/model"
)

// promptBudget caps the page text submitted to the classifier, in bytes.
const promptBudget = 8000

// dangerKeywords force a classifier call even when a safe keyword is
// also present. Ordering matters: the danger check runs before the safe
// short circuit so that "online casino tutorial" is still escalated.
var dangerKeywords = []string{
	"casino",
	"betting",
	"adult",
	"xxx",
	"viagra",
	"steroids",
	"weapons",
	"counterfeit",
	"essay-writing",
	"payday loan",
}

// safeKeywords short-circuit obviously benign content without a remote
// call.
var safeKeywords = []string{
	"recipe",
	"tutorial",
	"review",
	"how to",
	"guide",
	"interview",
}

// Adapter decides per page whether to consult the classifier and
// normalizes its verdicts. Every failure path yields a neutral verdict;
// degraded moderation reduces scan depth, never scan availability.
type Adapter struct {
	classifier Classifier
	cutoff     float64
	logger     *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithCutoff overrides the hard confidence cutoff. Violations at or
// below the cutoff are discarded.
func WithCutoff(c float64) AdapterOption {
	return func(a *Adapter) {
		if c > 0 && c < 1 {
			a.cutoff = c
		}
	}
}

// WithAdapterLogger sets the adapter's logger.
func WithAdapterLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAdapter creates an Adapter around classifier. A nil classifier is
// allowed and puts the adapter in degraded mode: every page gets a
// neutral verdict and Available reports false.
func NewAdapter(classifier Classifier, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		classifier: classifier,
		cutoff:     0.8,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Available reports whether a classifier is configured.
func (a *Adapter) Available() bool {
	return a.classifier != nil
}

// Moderate produces the moderation verdict for one page.
//
// The keyword pre-filter runs in a fixed order: danger keywords first,
// so pages that mix benign and dangerous vocabulary are still escalated,
// then the safe-keyword short circuit. Pages matching neither are sent
// to the classifier as well.
func (a *Adapter) Moderate(ctx context.Context, text, pageURL string) *model.ModerationResult {
	if a.classifier == nil {
		return model.NeutralModerationResult("moderation unavailable: classifier not configured")
	}

	truncated := text
	if len(truncated) > promptBudget {
		truncated = truncated[:promptBudget]
	}
	lower := strings.ToLower(truncated)

	if !containsAny(lower, dangerKeywords) && containsAny(lower, safeKeywords) {
		return model.NeutralModerationResult("skipped: content matched safe keywords")
	}

	verdict, err := a.classifier.Moderate(ctx, truncated)
	if err != nil {
		a.logger.Warn("moderation call failed", "url", pageURL, "error", err)
		return model.NeutralModerationResult(fmt.Sprintf("moderation unavailable: %v", err))
	}

	result := &model.ModerationResult{
		Violations:  make([]model.Violation, 0),
		Summary:     verdict.Summary,
		Suggestions: verdict.Suggestions,
	}
	for _, v := range verdict.Violations {
		if v.Confidence <= a.cutoff {
			continue
		}
		result.Violations = append(result.Violations, model.Violation{
			Type:       normalizeType(v.Type),
			Excerpt:    v.Excerpt,
			Confidence: v.Confidence,
		})
	}
	return result
}

// normalizeType maps a classifier type tag onto the known violation
// types. Unknown tags collapse into the prohibited-content bucket
// rather than leaking free-form strings into reports.
func normalizeType(tag string) model.ViolationType {
	switch model.ViolationType(tag) {
	case model.ViolationMisleading,
		model.ViolationCopyright,
		model.ViolationAffiliateDisclosure,
		model.ViolationExcessiveAds,
		model.ViolationProhibitedContent:
		return model.ViolationType(tag)
	default:
		return model.ViolationProhibitedContent
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
