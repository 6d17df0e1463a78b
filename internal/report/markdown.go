package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/adaudit/adaudit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeScore(md, report)
	w.writeStructure(md, report)
	w.writeFindings(md, report)
	w.writeSuggestions(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Ad Policy Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.SiteURL + "`"},
			{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Pages Discovered", strconv.Itoa(report.PagesDiscovered)},
			{"Content Posts", strconv.Itoa(len(report.Posts))},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ScanReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeScore writes the compliance score section with an alert.
func (w *MarkdownWriter) writeScore(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Compliance Score")
	md.PlainText("")
	md.PlainTextf("**%d / 100**: %s", report.Score, report.Summary)
	md.PlainText("")

	counts := violationCounts(report)
	if len(counts) > 0 {
		rows := make([][]string, 0, len(counts))
		for _, t := range violationTypeOrder {
			if n, ok := counts[t]; ok {
				rows = append(rows, []string{violationTypeLabel(t), strconv.Itoa(n)})
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Violation", "Count"},
			Rows:   rows,
		})
		md.PlainText("")
		w.writePieChart(md, counts)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of violation categories.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts map[model.ViolationType]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Violations by Category"),
		piechart.WithShowData(true),
	)

	for _, t := range violationTypeOrder {
		if n, ok := counts[t]; ok {
			chart.LabelAndIntValue(violationTypeLabel(t), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the score.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScanReport) {
	violations := report.TotalViolations()
	switch {
	case violations > 0 && report.Score < 50:
		md.Cautionf(
			"This site is unlikely to be approved: %d violation(s) and a score of %d.",
			violations, report.Score,
		)
	case violations > 0:
		md.Warningf(
			"%d policy violation(s) should be addressed before applying.",
			violations,
		)
	case report.Score < 80:
		md.Importantf(
			"No violations, but the score of %d suggests content or structure gaps.",
			report.Score,
		)
	default:
		md.Tip("No policy violations detected.")
	}
	md.PlainText("")
}

// writeStructure writes missing pages and structure warnings.
func (w *MarkdownWriter) writeStructure(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.MissingPages) == 0 && len(report.StructureWarnings) == 0 {
		return
	}

	md.H2("Site Structure")
	md.PlainText("")

	items := make([]string, 0, len(report.MissingPages)+len(report.StructureWarnings))
	for _, missing := range report.MissingPages {
		items = append(items, "missing page: "+missing)
	}
	items = append(items, report.StructureWarnings...)
	md.BulletList(items...)
	md.PlainText("")
}

// writeFindings writes the homepage finding and per-post findings.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Findings")
	md.PlainText("")

	findings := make([]model.PageFinding, 0, len(report.PageFindings)+1)
	if report.HomepageFinding != nil && report.HomepageFinding.HasSignal() {
		findings = append(findings, *report.HomepageFinding)
	}
	findings = append(findings, report.PageFindings...)

	if len(findings) == 0 {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	w.writeFindingsTable(md, findings)
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.PageFinding) {
	headers := []string{"Page", "Violations", "Quality Issues", "Duplicate"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		violations := "-"
		if len(f.Violations) > 0 {
			labels := make([]string, len(f.Violations))
			for j, v := range f.Violations {
				labels[j] = fmt.Sprintf("%s (%.2f)", violationTypeLabel(v.Type), v.Confidence)
			}
			violations = joinTruncated(labels, 60)
		}
		quality := "-"
		if len(f.QualityIssues) > 0 {
			quality = joinTruncated(f.QualityIssues, 60)
		}
		duplicate := "-"
		if f.Duplicate {
			duplicate = "yes"
		}

		rows[i] = []string{
			truncateString(f.URL, 50),
			violations,
			quality,
			duplicate,
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")

	// Add excerpt details for violations that carry one
	for _, f := range findings {
		for _, v := range f.Violations {
			if v.Excerpt != "" {
				md.Details(violationTypeLabel(v.Type)+" on "+f.URL, v.Excerpt)
			}
		}
	}
	md.PlainText("")
}

// writeSuggestions writes the aggregate suggestion list.
func (w *MarkdownWriter) writeSuggestions(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.Suggestions) == 0 {
		return
	}

	md.H2("Suggestions")
	md.PlainText("")
	md.OrderedList(report.Suggestions...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [adaudit](https://github.com/adaudit/adaudit)*")
}

// joinTruncated joins items with "; " and truncates the result.
func joinTruncated(items []string, maxLen int) string {
	joined := items[0]
	for _, item := range items[1:] {
		joined += "; " + item
	}
	return truncateString(joined, maxLen)
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
