package analyzer

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Detector flags near-duplicate page text within a single scan.
//
// The comparison is position-aligned: two normalized texts are duplicates
// when the byte agreement over their overlapping prefix exceeds the
// threshold. This is intentionally cheap and order-sensitive; it catches
// boilerplate-heavy templates and republished posts, which share their
// opening structure, without paying for shingling or edit distance.
//
// Detector is safe for concurrent use. The corpus only grows; callers Add
// texts they want future checks to compare against.
type Detector struct {
	mu        sync.Mutex
	corpus    []string
	threshold float64
	minLength int
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithDuplicateThreshold overrides the positional-agreement ratio above
// which texts are declared duplicates.
func WithDuplicateThreshold(t float64) DetectorOption {
	return func(d *Detector) {
		if t > 0 && t < 1 {
			d.threshold = t
		}
	}
}

// WithDuplicateMinLength overrides the minimum comparison length.
func WithDuplicateMinLength(n int) DetectorOption {
	return func(d *Detector) {
		if n > 0 {
			d.minLength = n
		}
	}
}

// NewDetector creates a Detector with default thresholds.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		threshold: 0.8,
		minLength: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// normalize canonicalizes text for comparison: NFKC form, lowercased,
// with all whitespace runs collapsed to single spaces.
func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFKC.String(text))), " ")
}

// IsDuplicate reports whether text is a near-duplicate of a previously
// added text. Only prior texts at least as long as the candidate are
// considered, and overlaps at or below the minimum comparison length are
// ignored.
func (d *Detector) IsDuplicate(text string) bool {
	candidate := normalize(text)
	if len(candidate) <= d.minLength {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, prior := range d.corpus {
		if len(prior) < len(candidate) {
			continue
		}
		if agreement(prior, candidate) > d.threshold {
			return true
		}
	}
	return false
}

// Add appends text to the corpus for future comparisons.
func (d *Detector) Add(text string) {
	candidate := normalize(text)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.corpus = append(d.corpus, candidate)
}

// agreement returns the fraction of positions in the overlapping prefix
// at which both strings carry the same byte.
func agreement(a, b string) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	same := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same) / float64(n)
}
