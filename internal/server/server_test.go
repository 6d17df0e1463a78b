package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaudit/adaudit/internal/moderation"
	"github.com/adaudit/adaudit/internal/pipeline"
)

// targetSite serves a small deterministic site for scan endpoint tests.
func targetSite(t *testing.T) http.Handler {
	t.Helper()

	homeWords := strings.Repeat("maple birch cherry oak pine ", 70)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<html><head>
			<title>Workshop Weekly</title>
			<meta name="description" content="Woodworking notes">
		</head><body>
			<h1>Workshop Weekly</h1>
			<h2>Latest</h2>
			<p>%s</p>
			<a href="/about/">about</a>
			<a href="/contact/">contact</a>
			<a href="/privacy-policy/">privacy</a>
		</body></html>`, homeWords)
	})
	for _, path := range []string{"/about/", "/contact/", "/privacy-policy/"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<html><body><p>structural page</p></body></html>`)
		})
	}
	return mux
}

func newTestServer(client *http.Client) *Server {
	factory := func() *pipeline.Pipeline {
		return pipeline.NewDefault(client, moderation.NewAdapter(nil), nil, nil)
	}
	return New(factory, moderation.NewAdapter(nil))
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(http.DefaultClient)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.ModerationAvailable)
}

func TestHandleScanSuccess(t *testing.T) {
	t.Parallel()

	site := httptest.NewServer(targetSite(t))
	defer site.Close()

	s := newTestServer(site.Client())

	payload := fmt.Sprintf(`{"url": %q}`, site.URL+"/")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewBufferString(payload))
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body scanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.ScanID)
	require.NotNil(t, body.Report)
	assert.Equal(t, site.URL+"/", body.Report.SiteURL)
	assert.NotZero(t, body.Report.Score)
	assert.NotEmpty(t, body.Report.Summary)
}

func TestHandleScanInvalidBody(t *testing.T) {
	t.Parallel()

	s := newTestServer(http.DefaultClient)

	for name, payload := range map[string]string{
		"malformed json": `{"url": `,
		"empty url":      `{"url": ""}`,
		"bad scheme":     `{"url": "ftp://example.com"}`,
		"no host":        `{"url": "https://"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewBufferString(payload))
			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHandleScanUnreachable(t *testing.T) {
	t.Parallel()

	site := httptest.NewServer(targetSite(t))
	siteURL := site.URL
	site.Close()

	s := newTestServer(http.DefaultClient)

	payload := fmt.Sprintf(`{"url": %q}`, siteURL+"/")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scan", bytes.NewBufferString(payload))
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "homepage unreachable")
}

func TestValidateSiteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "https url", raw: "https://example.com/", wantErr: false},
		{name: "http url", raw: "http://example.com", wantErr: false},
		{name: "empty", raw: "", wantErr: true},
		{name: "relative", raw: "/just/a/path", wantErr: true},
		{name: "ftp", raw: "ftp://example.com", wantErr: true},
		{name: "scheme only", raw: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateSiteURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStartShutdown(t *testing.T) {
	t.Parallel()

	s := New(func() *pipeline.Pipeline {
		return pipeline.NewDefault(http.DefaultClient, moderation.NewAdapter(nil), nil, nil)
	}, moderation.NewAdapter(nil), WithAddr("127.0.0.1:0"))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
