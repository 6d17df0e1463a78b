package model

// ViolationType categorizes a policy breach.
//
// Design decision: We use string constants rather than iota integers
// because violations cross the process boundary twice (the moderation
// classifier returns them as JSON, and the scan response serializes
// them again). A stable string tag survives both trips without a
// custom marshaler.
type ViolationType string

const (
	// ViolationMisleading marks scam or deceptive phrasing.
	ViolationMisleading ViolationType = "misleading_content"

	// ViolationCopyright marks links offering copyrighted media for
	// unauthorized download.
	ViolationCopyright ViolationType = "copyright_infringement"

	// ViolationAffiliateDisclosure marks monetized links on a page that
	// carries no disclosure or sponsorship wording.
	ViolationAffiliateDisclosure ViolationType = "missing_affiliate_disclosure"

	// ViolationExcessiveAds marks a page whose ad-unit count exceeds the
	// configured threshold.
	ViolationExcessiveAds ViolationType = "excessive_ads"

	// ViolationProhibitedContent marks content the external moderation
	// classifier flagged as violating advertising policy.
	ViolationProhibitedContent ViolationType = "prohibited_content"
)

// Violation is a single flagged policy breach.
// Rule-based detectors emit violations with a fixed per-rule confidence;
// the moderation adapter emits violations whose confidence comes from the
// external classifier, already filtered to its hard cutoff.
type Violation struct {
	// Type is the breach category tag.
	Type ViolationType `json:"type"`

	// Excerpt is the offending text or selector match, truncated for display.
	Excerpt string `json:"excerpt,omitempty"`

	// Confidence is in [0,1]. Fixed per rule for deterministic detectors.
	Confidence float64 `json:"confidence"`
}

// ModerationResult is the normalized verdict of the external content
// classifier for one page's text.
type ModerationResult struct {
	// Violations are the retained violations (confidence above the
	// adapter's cutoff). Empty for safe or degraded verdicts.
	Violations []Violation `json:"violations"`

	// Summary is a one-line description of the verdict, including
	// diagnostic text when the remote call failed or was skipped.
	Summary string `json:"summary"`

	// Suggestions are remediation hints from the classifier.
	Suggestions []string `json:"suggestions,omitempty"`
}

// NeutralModerationResult returns an empty "no violations" verdict with
// the given summary. Used for safe-keyword short circuits and for every
// degraded-capability path; moderation failures must never surface as
// errors to the pipeline.
func NeutralModerationResult(summary string) *ModerationResult {
	return &ModerationResult{
		Violations: []Violation{},
		Summary:    summary,
	}
}
