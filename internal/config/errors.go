package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: package-level sentinel errors rather than fmt.Errorf
// in Validate(), so callers can use errors.Is() while the messages stay
// human-readable.
var (
	// ErrNoTarget is returned when no target URL is specified.
	ErrNoTarget = errors.New("no target specified: provide a site URL to audit")

	// ErrInvalidTarget is returned when the target is not an absolute
	// http(s) URL.
	ErrInvalidTarget = errors.New("invalid target: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidBatchSize is returned when the analysis batch size is not
	// positive. A batch size of zero would stop analysis entirely.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrUnknownProfile is returned when a profile file names a variant
	// that does not exist.
	ErrUnknownProfile = errors.New("unknown threshold profile: must be \"standard\" or \"lenient\"")
)
