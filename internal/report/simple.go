package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/adaudit/adaudit/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeScore(&sb, report)
	w.writeStructure(&sb, report)
	w.writeHomepage(&sb, report)
	w.writePageFindings(&sb, report)
	w.writeSuggestions(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      AD POLICY AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:            %s\n", report.SiteURL))
	sb.WriteString(fmt.Sprintf("Scan Date:       %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Discovered: %d\n", report.PagesDiscovered))
	sb.WriteString(fmt.Sprintf("Content Posts:   %d\n", len(report.Posts)))

	if report.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:          ERROR - %s\n", report.ErrorMessage))
	} else {
		sb.WriteString("Status:          Complete\n")
	}

	sb.WriteString("\n")
}

// writeScore writes the compliance score section.
func (w *SimpleWriter) writeScore(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("COMPLIANCE SCORE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  SCORE:   %d / 100\n", report.Score))
	sb.WriteString(fmt.Sprintf("  VERDICT: %s\n", report.Summary))
	sb.WriteString("\n")

	counts := violationCounts(report)
	if len(counts) == 0 && !w.showEmpty {
		return
	}
	for _, t := range violationTypeOrder {
		if n, ok := counts[t]; ok || w.showEmpty {
			sb.WriteString(fmt.Sprintf("  %-30s %d\n", violationTypeLabel(t)+":", n))
		}
	}
	sb.WriteString("\n")
}

// writeStructure writes the site structure section.
func (w *SimpleWriter) writeStructure(sb *strings.Builder, report *model.ScanReport) {
	if len(report.MissingPages) == 0 && len(report.StructureWarnings) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SITE STRUCTURE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, missing := range report.MissingPages {
		sb.WriteString(fmt.Sprintf("  [!] missing page: %s\n", missing))
	}
	for _, warning := range report.StructureWarnings {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", warning))
	}
	sb.WriteString("\n")
}

// writeHomepage writes the homepage finding section.
func (w *SimpleWriter) writeHomepage(sb *strings.Builder, report *model.ScanReport) {
	finding := report.HomepageFinding
	if finding == nil || (!finding.HasSignal() && !w.showEmpty) {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("HOMEPAGE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	w.writeFinding(sb, finding)
}

// writePageFindings writes per-post findings.
func (w *SimpleWriter) writePageFindings(sb *strings.Builder, report *model.ScanReport) {
	if len(report.PageFindings) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGE FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.PageFindings) == 0 {
		sb.WriteString("  No page findings\n\n")
		return
	}

	for i := range report.PageFindings {
		w.writeFinding(sb, &report.PageFindings[i])
	}
}

// writeFinding writes one page finding.
func (w *SimpleWriter) writeFinding(sb *strings.Builder, finding *model.PageFinding) {
	sb.WriteString(fmt.Sprintf("  * %s\n", finding.URL))
	if finding.Duplicate {
		sb.WriteString("    [!] duplicate content\n")
	}
	for _, v := range finding.Violations {
		sb.WriteString(fmt.Sprintf("    [%s] confidence %.2f\n", violationTypeLabel(v.Type), v.Confidence))
		if w.verbose && v.Excerpt != "" {
			sb.WriteString(fmt.Sprintf("      excerpt: %s\n", v.Excerpt))
		}
	}
	for _, issue := range finding.QualityIssues {
		sb.WriteString(fmt.Sprintf("    [quality] %s\n", issue))
	}
	if w.verbose && finding.Summary != "" {
		sb.WriteString(fmt.Sprintf("    summary: %s\n", finding.Summary))
	}
	sb.WriteString("\n")
}

// writeSuggestions writes the aggregate suggestion list.
func (w *SimpleWriter) writeSuggestions(sb *strings.Builder, report *model.ScanReport) {
	if len(report.Suggestions) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUGGESTIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Suggestions) == 0 {
		sb.WriteString("  No suggestions\n")
	}
	for i, suggestion := range report.Suggestions {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by adaudit\n")
	sb.WriteString("https://github.com/adaudit/adaudit\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
