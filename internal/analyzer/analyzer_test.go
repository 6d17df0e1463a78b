package analyzer

import (
	"strings"
	"testing"
)

func TestAnalyzerAnalyzePage(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<article>
			<h1>Review</h1>
			<p>Get rich quick with our newsletter. ` + strings.Repeat("word ", 400) + `</p>
		</article>
	</body></html>`

	a := NewAnalyzer(nil, nil)
	analysis, err := a.AnalyzePage(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.Quality == nil {
		t.Fatal("nil quality report")
	}
	if analysis.Quality.WordCount < 400 {
		t.Errorf("WordCount = %d, want >= 400", analysis.Quality.WordCount)
	}
	if len(analysis.Violations) != 1 {
		t.Errorf("violations = %d, want 1 misleading", len(analysis.Violations))
	}
	if !strings.Contains(analysis.Text, "Get rich quick") {
		t.Error("extracted text missing page content")
	}
	if analysis.Quality.HasProperHeadingHierarchy {
		t.Error("h1 without subheadings reported as proper")
	}
}
