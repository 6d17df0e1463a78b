// Package moderation wraps the external content classifier behind a
// degradation-tolerant adapter. The adapter pre-filters pages with
// keyword heuristics to avoid unnecessary remote calls and converts
// every failure mode into a neutral verdict; a scan never aborts
// because the classifier is slow, unreachable, or unconfigured.
package moderation
