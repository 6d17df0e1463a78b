// Package main provides the entry point for the adaudit CLI.
//
// adaudit audits websites for advertising policy compliance. It crawls a
// site, classifies content pages, checks them against ad policy rules and
// an LLM moderation backend, and produces a scored compliance report.
//
// Usage:
//
//	adaudit scan <site-url>
//	adaudit serve
//
// See --help for all available options.
package main

// main is the entry point for adaudit.
func main() {
	Execute()
}
