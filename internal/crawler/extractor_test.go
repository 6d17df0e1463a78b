package crawler

import (
	"slices"
	"testing"
)

// TestExtractorLinks tests link extraction and exclusion rules.
func TestExtractorLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links and keeps same host only", func(t *testing.T) {
		t.Parallel()

		content := `<html><body>
			<a href="/guides/setup-workbench">relative</a>
			<a href="https://example.com/reviews/block-plane">absolute same host</a>
			<a href="https://other.com/elsewhere">other host</a>
		</body></html>`

		ex, err := NewExtractor("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}
		result, err := ex.Extract(content)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		want := []string{
			"https://example.com/guides/setup-workbench",
			"https://example.com/reviews/block-plane",
		}
		if !slices.Equal(result.Links, want) {
			t.Errorf("Links = %v, want %v", result.Links, want)
		}
	})

	t.Run("drops fragments mail schemes assets and spam queries", func(t *testing.T) {
		t.Parallel()

		content := `<html><body>
			<a href="#section">fragment only</a>
			<a href="mailto:hi@example.com">mail</a>
			<a href="javascript:void(0)">script</a>
			<a href="/style.css">asset css</a>
			<a href="/logo.png">asset image</a>
			<a href="/post-about-planes#comments">fragment stripped</a>
			<a href="/some-post?replytocom=42">reply spam</a>
			<a href="/kept-article">kept</a>
		</body></html>`

		ex, err := NewExtractor("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}
		result, err := ex.Extract(content)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		want := []string{
			"https://example.com/post-about-planes",
			"https://example.com/kept-article",
		}
		if !slices.Equal(result.Links, want) {
			t.Errorf("Links = %v, want %v", result.Links, want)
		}
	})

	t.Run("deduplicates links", func(t *testing.T) {
		t.Parallel()

		content := `<html><body>
			<a href="/same-post">one</a>
			<a href="/same-post">two</a>
			<a href="/same-post#reviews">three, fragment stripped</a>
		</body></html>`

		ex, err := NewExtractor("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}
		result, err := ex.Extract(content)
		if err != nil {
			t.Fatalf("failed to extract: %v", err)
		}

		if len(result.Links) != 1 {
			t.Errorf("expected 1 deduplicated link, got %d: %v", len(result.Links), result.Links)
		}
	})

	t.Run("malformed hrefs silently dropped", func(t *testing.T) {
		t.Parallel()

		content := `<html><body>
			<a href="http://%zz%zz">broken</a>
			<a href="/fine-post">fine</a>
		</body></html>`

		ex, err := NewExtractor("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}
		result, err := ex.Extract(content)
		if err != nil {
			t.Fatalf("extraction must not fail on malformed hrefs: %v", err)
		}
		if len(result.Links) != 1 {
			t.Errorf("expected 1 link, got %v", result.Links)
		}
	})
}

// TestExtractorMeta tests title and meta description capture.
func TestExtractorMeta(t *testing.T) {
	t.Parallel()

	content := `<html><head>
		<title> The Sharpening Blog </title>
		<meta name="description" content="Hand tool guides and reviews">
	</head><body></body></html>`

	ex, err := NewExtractor("https://example.com/")
	if err != nil {
		t.Fatalf("failed to create extractor: %v", err)
	}
	result, err := ex.Extract(content)
	if err != nil {
		t.Fatalf("failed to extract: %v", err)
	}

	if result.Meta.Title != "The Sharpening Blog" {
		t.Errorf("Title = %q", result.Meta.Title)
	}
	if result.Meta.Description != "Hand tool guides and reviews" {
		t.Errorf("Description = %q", result.Meta.Description)
	}
}
