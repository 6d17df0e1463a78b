package crawler

import "testing"

// TestClassifierIsContentPost tests the ordered decision list.
func TestClassifierIsContentPost(t *testing.T) {
	t.Parallel()

	c := NewClassifier()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		// Rule 1: fragment rejection.
		{"fragment rejected", "https://example.com/best-laptops-2026#comments", false},
		{"fragment on tool path still rejected", "https://example.com/download-tool#top", false},

		// Rule 2: tool/download override.
		{"download keyword accepted", "https://example.com/download-photoshop-full", true},
		{"crack keyword accepted", "https://example.com/idm-crack-latest", true},
		{"keygen accepted", "https://example.com/office-keygen", true},
		{"torrent accepted", "https://example.com/game-torrent-site", true},

		// Override dominates structural rejection.
		{"download inside category path accepted", "https://example.com/category/software-download", true},
		{"crack on paginated path accepted", "https://example.com/crack-tools/page/3", true},
		{"download in feed path accepted", "https://example.com/downloads-weekly/feed", true},

		// Rule 3: structural rejection.
		{"category page rejected", "https://example.com/category/technology", false},
		{"tag page rejected", "https://example.com/tag/golang", false},
		{"author page rejected", "https://example.com/author/jsmith", false},
		{"pagination rejected", "https://example.com/page/2", false},
		{"deep pagination rejected", "https://example.com/blog/page/17", false},
		{"feed rejected", "https://example.com/feed", false},
		{"post feed rejected", "https://example.com/my-great-post/feed", false},
		{"trailing slash feed rejected", "https://example.com/my-great-post/feed/", false},
		{"wp-admin rejected", "https://example.com/wp-admin/options.php", false},
		{"login rejected", "https://example.com/login", false},
		{"privacy policy rejected", "https://example.com/privacy-policy", false},
		{"search rejected", "https://example.com/search", false},

		// Rule 4: content acceptance by final segment.
		{"long slug accepted", "https://example.com/how-to-sharpen-chisels", true},
		{"nested slug accepted", "https://example.com/2026/03/spring-garden-checklist", true},
		{"directory-style slug accepted", "https://example.com/woodworking-basics/", true},
		{"short segment rejected", "https://example.com/abc", false},
		{"four char segment rejected", "https://example.com/wiki", false},
		{"five char segment accepted", "https://example.com/piano", true},
		{"numeric segment rejected", "https://example.com/2026/03/12345", false},
		{"root rejected", "https://example.com/", false},
		{"empty path rejected", "https://example.com", false},

		// Malformed input.
		{"malformed URL rejected", "ht!tp://%zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := c.IsContentPost(tt.url); got != tt.want {
				t.Errorf("IsContentPost(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// TestClassifierOrdering verifies that the tool override is evaluated
// before structural rejection. This ordering is load-bearing: reordering
// changes classification on paths that match both rule sets.
func TestClassifierOrdering(t *testing.T) {
	t.Parallel()

	c := NewClassifier()

	// Matches both the structural list (category, page/N) and a tool keyword.
	both := []string{
		"https://example.com/category/free-download-zone",
		"https://example.com/tag/crack",
		"https://example.com/warez-archive/page/9",
	}
	for _, u := range both {
		if !c.IsContentPost(u) {
			t.Errorf("tool override must dominate structural rejection for %q", u)
		}
	}
}

// TestFilterPosts tests frontier filtering and canonical deduplication.
func TestFilterPosts(t *testing.T) {
	t.Parallel()

	c := NewClassifier()
	frontier := []string{
		"https://example.com/how-to-sharpen-chisels",
		"https://example.com/category/tools",
		"https://example.com/how-to-sharpen-chisels", // duplicate
		"https://example.com/best-router-bits",
		"https://example.com/page/2",
	}

	posts := c.FilterPosts(frontier)
	want := []string{
		"https://example.com/how-to-sharpen-chisels",
		"https://example.com/best-router-bits",
	}
	if len(posts) != len(want) {
		t.Fatalf("expected %d posts, got %d: %v", len(want), len(posts), posts)
	}
	for i := range want {
		if posts[i] != want[i] {
			t.Errorf("posts[%d] = %q, want %q", i, posts[i], want[i])
		}
	}
}
