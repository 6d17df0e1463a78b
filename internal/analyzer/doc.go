// Package analyzer inspects fetched page content for quality and policy
// problems. It bundles three independent checks:
//
//   - quality analysis (word count and heading structure)
//   - duplicate detection across pages of one scan
//   - rule-based policy violation detection
//
// All checks are deterministic and run offline; the external moderation
// classifier lives in the moderation package.
package analyzer
