package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// siteHandler serves a tiny fake site: a homepage linking to sections,
// and section pages linking to posts.
func siteHandler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head>
			<title>Workshop Weekly</title>
			<meta name="description" content="Woodworking notes">
		</head><body>
			<a href="/section-one">one</a>
			<a href="/section-two">two</a>
			<a href="/broken-link">broken</a>
		</body></html>`)
	})
	mux.HandleFunc("/section-one", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/posts/hand-plane-restoration">post</a>
			<a href="/posts/bench-vise-maintenance">post</a>
		</body></html>`)
	})
	mux.HandleFunc("/section-two", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/posts/sharpening-jig-build">post</a>
			<a href="/section-one">already seen</a>
		</body></html>`)
	})
	return mux
}

// TestSpiderCrawl tests the two-phase bounded crawl.
func TestSpiderCrawl(t *testing.T) {
	t.Parallel()

	t.Run("builds deduplicated frontier across both phases", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(siteHandler(t))
		defer srv.Close()

		spider := NewSpider(NewFetcher(srv.Client()))
		result, err := spider.Crawl(context.Background(), srv.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.HomepageMeta.Title != "Workshop Weekly" {
			t.Errorf("homepage title = %q", result.HomepageMeta.Title)
		}
		if result.HomepageMeta.Description != "Woodworking notes" {
			t.Errorf("homepage description = %q", result.HomepageMeta.Description)
		}

		// Seeds plus the three post links, each exactly once.
		wantMembers := []string{
			"/section-one", "/section-two", "/broken-link",
			"/posts/hand-plane-restoration",
			"/posts/bench-vise-maintenance",
			"/posts/sharpening-jig-build",
		}
		if len(result.Frontier) != len(wantMembers) {
			t.Fatalf("frontier size = %d, want %d: %v", len(result.Frontier), len(wantMembers), result.Frontier)
		}
		for _, suffix := range wantMembers {
			found := false
			for _, u := range result.Frontier {
				if strings.HasSuffix(u, suffix) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("frontier missing %q", suffix)
			}
		}
	})

	t.Run("homepage failure is fatal", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		spider := NewSpider(NewFetcher(srv.Client()))
		_, err := spider.Crawl(context.Background(), srv.URL+"/")
		if err == nil {
			t.Fatal("expected fatal error for unreachable homepage")
		}
		if !errors.Is(err, ErrHomepageUnreachable) {
			t.Errorf("expected ErrHomepageUnreachable, got %v", err)
		}
	})

	t.Run("expansion fetch failures absorbed", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(siteHandler(t))
		defer srv.Close()

		// /broken-link 404s; the crawl still succeeds with the rest.
		spider := NewSpider(NewFetcher(srv.Client()))
		result, err := spider.Crawl(context.Background(), srv.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PagesFetched != 4 { // homepage + 3 seed links
			t.Errorf("PagesFetched = %d, want 4", result.PagesFetched)
		}
	})

	t.Run("frontier bounded by page budget", func(t *testing.T) {
		t.Parallel()

		// Homepage with many links; budget of 5.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			var sb strings.Builder
			sb.WriteString("<html><body>")
			for i := 0; i < 50; i++ {
				fmt.Fprintf(&sb, `<a href="/post-number-%02d">p</a>`, i)
			}
			sb.WriteString("</body></html>")
			fmt.Fprint(w, sb.String())
		}))
		defer srv.Close()

		spider := NewSpider(NewFetcher(srv.Client()), WithMaxPages(5))
		result, err := spider.Crawl(context.Background(), srv.URL+"/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Frontier) != 5 {
			t.Errorf("frontier size = %d, want budget of 5", len(result.Frontier))
		}
	})

	t.Run("seed expansion capped", func(t *testing.T) {
		t.Parallel()

		var mu struct {
			count int
		}
		countCh := make(chan string, 100)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				var sb strings.Builder
				sb.WriteString("<html><body>")
				for i := 0; i < 20; i++ {
					fmt.Fprintf(&sb, `<a href="/seed-link-%02d">s</a>`, i)
				}
				sb.WriteString("</body></html>")
				fmt.Fprint(w, sb.String())
				return
			}
			countCh <- r.URL.Path
			fmt.Fprint(w, "<html><body></body></html>")
		}))
		defer srv.Close()

		spider := NewSpider(NewFetcher(srv.Client()), WithSeedExpansion(3))
		if _, err := spider.Crawl(context.Background(), srv.URL+"/"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(countCh)
		for range countCh {
			mu.count++
		}
		if mu.count != 3 {
			t.Errorf("expanded %d seed links, want 3", mu.count)
		}
	})
}
