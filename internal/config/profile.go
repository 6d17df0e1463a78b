package config

// Profile bundles the analysis thresholds and scoring weights that vary
// between deployment variants.
//
// Two heuristic variants exist in practice: a strict one and a looser one
// with lower content expectations. Rather than silently merging them we
// model the choice as configuration; "standard" (strict) is the default.
type Profile struct {
	// Name identifies the profile ("standard" or "lenient").
	Name string `yaml:"name"`

	// === Analysis thresholds ===

	// MinWordCount flags pages with fewer words as thin content.
	MinWordCount int `yaml:"min_word_count"`

	// MaxAdUnits is the ad-element count above which excessive-ads fires.
	MaxAdUnits int `yaml:"max_ad_units"`

	// ModerationCutoff is the hard confidence cutoff for classifier
	// violations. Violations at or below it are discarded, not weighted.
	ModerationCutoff float64 `yaml:"moderation_cutoff"`

	// DuplicateThreshold is the positional-agreement ratio above which two
	// texts are declared duplicates.
	DuplicateThreshold float64 `yaml:"duplicate_threshold"`

	// DuplicateMinLength is the minimum comparison length for duplicate
	// checks. Shorter overlaps are ignored.
	DuplicateMinLength int `yaml:"duplicate_min_length"`

	// === Scoring weights ===

	// ViolationWeight is deducted per counted violation.
	ViolationWeight int `yaml:"violation_weight"`

	// MissingPageWeight is deducted per missing required page.
	MissingPageWeight int `yaml:"missing_page_weight"`

	// HomepageIssueWeight is deducted per homepage structural issue.
	HomepageIssueWeight int `yaml:"homepage_issue_weight"`

	// LowPostThreshold and LowPostDeduction: post counts below the
	// threshold take the larger tiered deduction.
	LowPostThreshold int `yaml:"low_post_threshold"`
	LowPostDeduction int `yaml:"low_post_deduction"`

	// GoodPostThreshold and MidPostDeduction: post counts below this
	// (but at or above LowPostThreshold) take the smaller deduction.
	GoodPostThreshold int `yaml:"good_post_threshold"`
	MidPostDeduction  int `yaml:"mid_post_deduction"`

	// MissingMetaDeduction is the flat deduction for a homepage without a
	// meta description.
	MissingMetaDeduction int `yaml:"missing_meta_deduction"`

	// WeakHeadingDeduction is the flat deduction for a homepage without
	// proper heading structure.
	WeakHeadingDeduction int `yaml:"weak_heading_deduction"`

	// MaxSuggestions caps the aggregate suggestion list.
	MaxSuggestions int `yaml:"max_suggestions"`
}

// StandardProfile returns the strict default profile.
func StandardProfile() *Profile {
	return &Profile{
		Name:                 "standard",
		MinWordCount:         DefaultMinWordCount,
		MaxAdUnits:           DefaultMaxAdUnits,
		ModerationCutoff:     0.8,
		DuplicateThreshold:   0.8,
		DuplicateMinLength:   100,
		ViolationWeight:      5,
		MissingPageWeight:    5,
		HomepageIssueWeight:  3,
		LowPostThreshold:     20,
		LowPostDeduction:     15,
		GoodPostThreshold:    40,
		MidPostDeduction:     5,
		MissingMetaDeduction: 3,
		WeakHeadingDeduction: 2,
		MaxSuggestions:       DefaultMaxSuggestions,
	}
}

// LenientProfile returns the looser variant with lower content
// expectations. Detection thresholds for duplicates and moderation are
// identical to the standard profile; only volume expectations and the
// tiered deductions differ.
func LenientProfile() *Profile {
	p := StandardProfile()
	p.Name = "lenient"
	p.MinWordCount = 150
	p.MaxAdUnits = 8
	p.LowPostThreshold = 10
	p.LowPostDeduction = 10
	p.GoodPostThreshold = 25
	return p
}

// ProfileByName resolves a profile name to its definition.
func ProfileByName(name string) (*Profile, error) {
	switch name {
	case "", "standard":
		return StandardProfile(), nil
	case "lenient":
		return LenientProfile(), nil
	default:
		return nil, ErrUnknownProfile
	}
}
