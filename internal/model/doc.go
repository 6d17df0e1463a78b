// Package model defines the data structures shared across the scan pipeline.
//
// The central type is ScanReport, which accumulates results as pipeline
// steps execute and is serialized as the public scan result. Supporting
// types (PageResult, QualityReport, Violation, PageFinding) are produced
// by individual components and consumed by the scoring engine.
//
// Design decision: All pipeline components depend on this package rather
// than on each other. This keeps the dependency graph flat: crawler,
// analyzer, moderation, and scoring only share these types.
package model
