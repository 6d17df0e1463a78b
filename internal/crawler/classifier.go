package crawler

import (
	"net/url"
	"regexp"
	"strings"
)

// verdict is the outcome of one classifier rule.
type verdict int

const (
	// verdictFallthrough means the rule has no opinion; evaluation continues.
	verdictFallthrough verdict = iota

	// verdictAccept classifies the URL as a content post.
	verdictAccept

	// verdictReject classifies the URL as structural noise.
	verdictReject
)

// toolKeywords unconditionally accept a URL when present in its path.
// Pages offering downloads, cracks, and similar tooling are
// disproportionately likely to carry policy violations, so they must not
// be filtered out by the generic category heuristics that follow.
var toolKeywords = []string{
	"download", "crack", "keygen", "serial", "torrent", "warez",
	"nulled", "activator", "license-key", "free-full", "patch", "mod-apk",
}

// structuralKeywords mark listing and infrastructure pages: pagination,
// taxonomy, feeds, admin and account flows. None of these are content.
var structuralKeywords = []string{
	"page", "category", "tag", "author", "feed", "wp-admin", "wp-login",
	"wp-content", "wp-includes", "wp-json", "login", "register", "signup",
	"signin", "account", "cart", "checkout", "search", "archive",
	"archives", "sitemap", "privacy-policy", "privacy", "terms", "about",
	"contact", "comments", "trackback", "cdn-cgi", "xmlrpc",
}

// reservedSegments are final path segments that never denote content,
// even when they pass the length check.
var reservedSegments = map[string]bool{
	"page": true, "category": true, "tag": true,
}

// paginationPattern matches /page/<number> anywhere in the path.
var paginationPattern = regexp.MustCompile(`/page/\d+`)

// numericPattern matches purely numeric segments.
var numericPattern = regexp.MustCompile(`^\d+$`)

// classifierRule is one step of the ordered decision list.
type classifierRule struct {
	name  string
	check func(u *url.URL, pathLower string) verdict
}

// Classifier decides from the URL path alone whether a URL denotes a
// content post worth analyzing. No fetch is required, so classification
// can run over the whole frontier before any further network I/O.
//
// Design decision: the heuristic is encoded as an explicit ordered rule
// list rather than independent boolean checks. The ordering is
// correctness-critical: the tool-keyword override must run before
// structural rejection, because download/tool paths are frequently also
// pagination- or category-shaped. Reordering the rules changes
// classification outcomes on the same input set.
type Classifier struct {
	rules []classifierRule
}

// NewClassifier creates a Classifier with the standard rule ordering.
func NewClassifier() *Classifier {
	return &Classifier{
		rules: []classifierRule{
			{name: "fragment_rejection", check: checkFragment},
			{name: "tool_override", check: checkToolKeywords},
			{name: "structural_rejection", check: checkStructural},
			{name: "content_acceptance", check: checkContentSegment},
		},
	}
}

// IsContentPost classifies a single URL. Malformed URLs are rejected.
func (c *Classifier) IsContentPost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	pathLower := strings.ToLower(u.Path)
	for _, rule := range c.rules {
		switch rule.check(u, pathLower) {
		case verdictAccept:
			return true
		case verdictReject:
			return false
		case verdictFallthrough:
			// next rule
		}
	}
	return false
}

// FilterPosts returns the subset of urls classified as content posts,
// preserving order and deduplicating by canonical URL.
func (c *Classifier) FilterPosts(urls []string) []string {
	posts := make([]string, 0)
	seen := make(map[string]bool)
	for _, u := range urls {
		if !c.IsContentPost(u) {
			continue
		}
		if canonical := stripFragment(u); !seen[canonical] {
			seen[canonical] = true
			posts = append(posts, canonical)
		}
	}
	return posts
}

// checkFragment rejects URLs carrying a fragment identifier. A fragment
// is a view of an already-considered page.
func checkFragment(u *url.URL, _ string) verdict {
	if u.Fragment != "" {
		return verdictReject
	}
	return verdictFallthrough
}

// checkToolKeywords accepts unconditionally when the path contains a
// download/crack/tool keyword. Evaluated before structural rejection;
// see the Classifier doc comment for why the ordering matters.
func checkToolKeywords(_ *url.URL, pathLower string) verdict {
	for _, kw := range toolKeywords {
		if strings.Contains(pathLower, kw) {
			return verdictAccept
		}
	}
	return verdictFallthrough
}

// checkStructural rejects listing and infrastructure pages.
func checkStructural(_ *url.URL, pathLower string) verdict {
	if paginationPattern.MatchString(pathLower) {
		return verdictReject
	}
	if strings.HasSuffix(strings.TrimSuffix(pathLower, "/"), "/feed") {
		return verdictReject
	}
	for _, segment := range splitSegments(pathLower) {
		for _, kw := range structuralKeywords {
			if segment == kw {
				return verdictReject
			}
		}
	}
	return verdictFallthrough
}

// checkContentSegment accepts paths whose final non-empty segment looks
// like a post slug: longer than 4 characters, not purely numeric, and
// not a reserved word. Directory-style paths (trailing separator) are
// judged by the same rule on their final segment.
func checkContentSegment(_ *url.URL, pathLower string) verdict {
	segments := splitSegments(pathLower)
	if len(segments) == 0 {
		return verdictReject
	}
	last := segments[len(segments)-1]
	if len(last) > 4 && !numericPattern.MatchString(last) && !reservedSegments[last] {
		return verdictAccept
	}
	return verdictReject
}

// splitSegments splits a path into its non-empty segments.
func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// stripFragment removes any fragment identifier from a raw URL.
func stripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}
