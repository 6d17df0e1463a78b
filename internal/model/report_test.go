package model

import "testing"

// TestScanReportCounters tests the aggregate counters used by scoring.
func TestScanReportCounters(t *testing.T) {
	t.Parallel()

	t.Run("counts violations across homepage and posts", func(t *testing.T) {
		t.Parallel()

		r := NewScanReport("https://example.com")
		r.HomepageFinding = &PageFinding{
			URL:        "https://example.com",
			Violations: []Violation{{Type: ViolationExcessiveAds, Confidence: 1.0}},
		}
		r.AddPageFinding(PageFinding{
			URL: "https://example.com/post-one",
			Violations: []Violation{
				{Type: ViolationMisleading, Confidence: 0.95},
				{Type: ViolationCopyright, Confidence: 0.9},
			},
		})

		if got := r.TotalViolations(); got != 3 {
			t.Errorf("expected 3 violations, got %d", got)
		}
	})

	t.Run("zero violations on empty report", func(t *testing.T) {
		t.Parallel()

		r := NewScanReport("https://example.com")
		if got := r.TotalViolations(); got != 0 {
			t.Errorf("expected 0 violations, got %d", got)
		}
		if got := r.HomepageIssueCount(); got != 0 {
			t.Errorf("expected 0 homepage issues, got %d", got)
		}
	})

	t.Run("meta description presence", func(t *testing.T) {
		t.Parallel()

		r := NewScanReport("https://example.com")
		if r.HasMetaDescription() {
			t.Error("expected no meta description on empty report")
		}
		r.HomepageMeta.Description = "A blog about woodworking"
		if !r.HasMetaDescription() {
			t.Error("expected meta description to be present")
		}
	})
}

// TestPageFindingHasSignal tests the signal filter used to drop empty findings.
func TestPageFindingHasSignal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		finding PageFinding
		want    bool
	}{
		{
			name:    "empty finding has no signal",
			finding: PageFinding{URL: "https://example.com/post"},
			want:    false,
		},
		{
			name: "violation is a signal",
			finding: PageFinding{
				Violations: []Violation{{Type: ViolationMisleading, Confidence: 0.95}},
			},
			want: true,
		},
		{
			name: "quality issue is a signal",
			finding: PageFinding{
				QualityIssues: []string{"content is too thin (120 words)"},
			},
			want: true,
		},
		{
			name:    "duplicate flag is a signal",
			finding: PageFinding{Duplicate: true},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.finding.HasSignal(); got != tt.want {
				t.Errorf("HasSignal() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestNeutralModerationResult verifies the degraded-capability verdict shape.
func TestNeutralModerationResult(t *testing.T) {
	t.Parallel()

	res := NeutralModerationResult("moderation unavailable: missing API key")
	if len(res.Violations) != 0 {
		t.Errorf("neutral verdict must carry no violations, got %d", len(res.Violations))
	}
	if res.Summary == "" {
		t.Error("neutral verdict must carry a diagnostic summary")
	}
}
