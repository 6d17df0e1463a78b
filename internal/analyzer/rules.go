package analyzer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/adaudit/adaudit/internal/model"
)

// Fixed confidences for the deterministic rules. The excessive-ads rule
// is a direct element count and therefore certain; the text rules leave
// room for phrasing that matches innocently.
const (
	confidenceMisleading = 0.95
	confidenceCopyright  = 0.9
	confidenceAffiliate  = 0.85
	confidenceAds        = 1.0
)

// misleadingPhrases are scam and deceptive-claim phrases checked against
// the full page text.
var misleadingPhrases = []string{
	"100% guaranteed money",
	"get rich quick",
	"no risk investment",
	"double your money",
	"work from home millionaire",
	"miracle cure",
	"watch free full movie",
	"free robux generator",
}

// piracyKeywords and mediaKeywords must both match an anchor for the
// copyright rule to fire. Either alone is common on legitimate pages.
var (
	piracyKeywords = []string{"download free", "torrent", "crack", "rip"}
	mediaKeywords  = []string{"movie", "film", "episode", "album", "software", "game", "ebook"}
)

// disclosureKeywords are the wordings that satisfy the affiliate
// disclosure requirement when monetized links are present.
var disclosureKeywords = []string{
	"affiliate",
	"sponsored",
	"commission",
	"disclosure",
	"paid partnership",
}

// monetizedLinkSelector matches affiliate and sponsored link shapes.
const monetizedLinkSelector = `a[href*="amzn.to"], a[href*="amazon."][href*="tag="], a[rel="sponsored"], a[href*="affiliate"], a[href*="ref="]`

// adUnitSelector matches the DOM footprint of common ad-serving setups.
const adUnitSelector = `ins.adsbygoogle, [id^="div-gpt-ad"], iframe[src*="doubleclick"], [class*="ad-slot"], [data-ad-client]`

// excerptContext is how many characters around a matched phrase are kept
// in the violation excerpt.
const excerptContext = 60

// RuleDetector runs the deterministic policy checks against one parsed
// page. Its findings are additive with the moderation adapter's; the two
// sources are never deduplicated against each other.
type RuleDetector struct {
	// maxAdUnits is the ad-element count above which excessive-ads fires.
	maxAdUnits int
}

// RuleOption configures a RuleDetector.
type RuleOption func(*RuleDetector)

// WithMaxAdUnits overrides the excessive-ads threshold.
func WithMaxAdUnits(n int) RuleOption {
	return func(r *RuleDetector) {
		if n > 0 {
			r.maxAdUnits = n
		}
	}
}

// NewRuleDetector creates a RuleDetector with default thresholds.
func NewRuleDetector(opts ...RuleOption) *RuleDetector {
	r := &RuleDetector{
		maxAdUnits: 5,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Detect runs all rules against the parsed document and its visible text.
func (r *RuleDetector) Detect(doc *goquery.Document, text string) []model.Violation {
	violations := make([]model.Violation, 0)
	violations = append(violations, r.checkMisleading(text)...)
	violations = append(violations, r.checkCopyright(doc)...)
	violations = append(violations, r.checkAffiliateDisclosure(doc, text)...)
	violations = append(violations, r.checkExcessiveAds(doc)...)
	return violations
}

// checkMisleading flags scam phrasing anywhere in the page text.
func (r *RuleDetector) checkMisleading(text string) []model.Violation {
	var violations []model.Violation
	lower := strings.ToLower(text)
	for _, phrase := range misleadingPhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		violations = append(violations, model.Violation{
			Type:       model.ViolationMisleading,
			Excerpt:    excerptAround(text, idx, len(phrase)),
			Confidence: confidenceMisleading,
		})
	}
	return violations
}

// checkCopyright flags anchors that pair a piracy keyword with a
// copyrighted-media keyword in their text or href.
func (r *RuleDetector) checkCopyright(doc *goquery.Document) []model.Violation {
	var violations []model.Violation
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		combined := strings.ToLower(sel.Text() + " " + href)
		if !matchesAny(combined, piracyKeywords) || !matchesAny(combined, mediaKeywords) {
			return
		}
		excerpt := strings.TrimSpace(sel.Text())
		if excerpt == "" {
			excerpt = href
		}
		violations = append(violations, model.Violation{
			Type:       model.ViolationCopyright,
			Excerpt:    excerpt,
			Confidence: confidenceCopyright,
		})
	})
	return violations
}

// checkAffiliateDisclosure flags pages with monetized links but no
// disclosure wording anywhere in the text.
func (r *RuleDetector) checkAffiliateDisclosure(doc *goquery.Document, text string) []model.Violation {
	monetized := doc.Find(monetizedLinkSelector)
	if monetized.Length() == 0 {
		return nil
	}
	if matchesAny(strings.ToLower(text), disclosureKeywords) {
		return nil
	}
	href, _ := monetized.First().Attr("href")
	return []model.Violation{{
		Type:       model.ViolationAffiliateDisclosure,
		Excerpt:    href,
		Confidence: confidenceAffiliate,
	}}
}

// checkExcessiveAds counts ad-serving elements against the threshold.
func (r *RuleDetector) checkExcessiveAds(doc *goquery.Document) []model.Violation {
	count := doc.Find(adUnitSelector).Length()
	if count <= r.maxAdUnits {
		return nil
	}
	return []model.Violation{{
		Type:       model.ViolationExcessiveAds,
		Excerpt:    fmt.Sprintf("%d ad units (limit %d)", count, r.maxAdUnits),
		Confidence: confidenceAds,
	}}
}

// matchesAny reports whether any keyword occurs in s. Multi-word phrases
// are matched as substrings; single words must appear as whole tokens so
// that short keywords like "rip" do not match inside longer words.
func matchesAny(s string, keywords []string) bool {
	var tokens []string
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(s, kw) {
				return true
			}
			continue
		}
		if tokens == nil {
			tokens = tokenize(s)
		}
		for _, tok := range tokens {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

// tokenize splits s on everything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

// excerptAround returns the matched phrase with surrounding context,
// trimmed to whole bytes of the original text.
func excerptAround(text string, idx, length int) string {
	start := idx - excerptContext
	if start < 0 {
		start = 0
	}
	end := idx + length + excerptContext
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}
