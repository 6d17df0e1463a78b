package model

// PageResult is the outcome of fetching a single URL.
// It is created by the fetcher and discarded after link extraction and
// analysis; fetch failure is a value, never an error, so callers can
// treat unreachable pages as pages with nothing to report.
type PageResult struct {
	// URL is the fetched URL as requested (fragment-free).
	URL string

	// RawContent is the response body as text.
	// Empty when FetchSucceeded is false.
	RawContent string

	// StatusCode is the HTTP status code, 0 on transport failure.
	StatusCode int

	// FetchSucceeded is true only for 2xx responses read without error.
	FetchSucceeded bool
}

// PageMeta holds metadata extracted from a page's head section.
// It feeds the structural deductions in the scoring engine.
type PageMeta struct {
	// Title is the text of the <title> element, trimmed.
	Title string `json:"title,omitempty"`

	// Description is the content of <meta name="description">.
	Description string `json:"description,omitempty"`
}
