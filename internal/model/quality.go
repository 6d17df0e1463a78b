package model

// QualityReport describes the textual substance and markup structure of
// one analyzed page. It is derived per page and consumed only by the
// scoring engine and the report writers.
type QualityReport struct {
	// WordCount is the number of words in the page's main content region.
	WordCount int `json:"word_count"`

	// HasProperHeadingHierarchy is true when the page has at least one
	// top-level heading accompanied by a second- or third-level one.
	HasProperHeadingHierarchy bool `json:"has_proper_heading_hierarchy"`

	// Issues is an ordered, append-only list of human-readable problems.
	// Reporting consumes these strings verbatim.
	Issues []string `json:"issues,omitempty"`
}

// HasIssues reports whether the quality analysis found anything to flag.
func (q *QualityReport) HasIssues() bool {
	return len(q.Issues) > 0
}
