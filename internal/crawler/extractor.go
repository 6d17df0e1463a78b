package crawler

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/adaudit/adaudit/internal/model"
)

// assetExtensions are file extensions excluded from link extraction.
// These point at static assets, not pages worth auditing.
var assetExtensions = map[string]bool{
	".css": true, ".js": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".svg": true, ".ico": true, ".webp": true, ".woff": true,
	".woff2": true, ".ttf": true, ".pdf": true, ".zip": true, ".xml": true,
}

// spamQueryParams are query parameters whose presence marks a link as
// reply/comment spam infrastructure rather than content.
var spamQueryParams = []string{"replytocom"}

// Extractor pulls same-host links and head metadata out of raw HTML.
//
// Design decision: golang.org/x/net/html rather than regex, because it
// handles the malformed markup common on real sites and gives us a
// single DOM pass for links, title, and meta description together.
type Extractor struct {
	// baseURL resolves relative hrefs and anchors the same-host check.
	baseURL *url.URL
}

// ExtractResult holds everything one extraction pass produces.
type ExtractResult struct {
	// Links is the deduplicated set of same-host, fragment-free,
	// non-asset absolute URLs, in document order of first appearance.
	Links []string

	// Meta carries the page title and meta description.
	Meta model.PageMeta
}

// NewExtractor creates an Extractor anchored at the given origin URL.
func NewExtractor(originURL string) (*Extractor, error) {
	u, err := url.Parse(originURL)
	if err != nil {
		return nil, err
	}
	return &Extractor{baseURL: u}, nil
}

// Extract parses content and collects links and metadata.
// Malformed hrefs are silently dropped; this is never an error.
func (e *Extractor) Extract(content string) (*ExtractResult, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	result := &ExtractResult{Links: make([]string, 0)}
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if link := e.resolveLink(getAttr(n, "href")); link != "" && !seen[link] {
					seen[link] = true
					result.Links = append(result.Links, link)
				}
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Meta.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				if strings.EqualFold(getAttr(n, "name"), "description") {
					result.Meta.Description = strings.TrimSpace(getAttr(n, "content"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

// resolveLink resolves an href against the base URL and applies the
// exclusion rules. Returns "" for anything that should be dropped.
func (e *Extractor) resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := e.baseURL.ResolveReference(u)

	// Same host only. Host comparison is case-insensitive.
	if !strings.EqualFold(resolved.Host, e.baseURL.Host) {
		return ""
	}

	// Fragments denote views of an already-considered page.
	resolved.Fragment = ""

	if isAssetPath(resolved.Path) {
		return ""
	}
	if hasSpamQuery(resolved.Query()) {
		return ""
	}

	return resolved.String()
}

// isAssetPath checks the path's extension against the asset list.
func isAssetPath(path string) bool {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return false
	}
	return assetExtensions[strings.ToLower(path[idx:])]
}

// hasSpamQuery checks for known reply-spam query parameters.
func hasSpamQuery(values url.Values) bool {
	for _, param := range spamQueryParams {
		if values.Has(param) {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
