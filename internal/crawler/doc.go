// Package crawler discovers the set of pages to audit on one site.
//
// It contains four collaborating pieces:
//   - Fetcher: bounded single-page retrieval; failure is a value, not an error
//   - Extractor: same-host link and metadata extraction from raw HTML
//   - Classifier: the URL-path heuristic separating content posts from
//     navigation and category noise
//   - Spider: the two-phase bounded crawl that builds the frontier
//
// Only the homepage fetch is fatal; every other failure during crawling
// is absorbed and simply contributes nothing to the frontier.
package crawler
