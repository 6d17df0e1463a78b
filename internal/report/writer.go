package report

import (
	"io"
	"os"
	"path/filepath"

	"github.com/adaudit/adaudit/internal/model"
)

// Writer defines the interface for report output.
// Implementations write scan results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScanReport) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ScanReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// nopWriteCloser wraps stdout so Open callers can Close unconditionally.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Open resolves an output destination. An empty path means stdout;
// otherwise the file is created, with parent directories as needed.
func Open(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// violationCounts tallies violations by type across the whole report.
func violationCounts(report *model.ScanReport) map[model.ViolationType]int {
	counts := make(map[model.ViolationType]int)
	if report.HomepageFinding != nil {
		for _, v := range report.HomepageFinding.Violations {
			counts[v.Type]++
		}
	}
	for i := range report.PageFindings {
		for _, v := range report.PageFindings[i].Violations {
			counts[v.Type]++
		}
	}
	return counts
}

// violationTypeOrder fixes the display order of violation categories.
var violationTypeOrder = []model.ViolationType{
	model.ViolationMisleading,
	model.ViolationCopyright,
	model.ViolationAffiliateDisclosure,
	model.ViolationExcessiveAds,
	model.ViolationProhibitedContent,
}

// violationTypeLabel maps a violation type to its display name.
func violationTypeLabel(t model.ViolationType) string {
	switch t {
	case model.ViolationMisleading:
		return "Misleading content"
	case model.ViolationCopyright:
		return "Copyright infringement"
	case model.ViolationAffiliateDisclosure:
		return "Missing affiliate disclosure"
	case model.ViolationExcessiveAds:
		return "Excessive ads"
	case model.ViolationProhibitedContent:
		return "Prohibited content"
	default:
		return string(t)
	}
}
