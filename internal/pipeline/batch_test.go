package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/adaudit/adaudit/internal/model"
)

// markStep stamps the report so tests can tell the pipeline ran.
type markStep struct {
	err error
}

func (s *markStep) Name() string { return "mark" }

func (s *markStep) Do(_ context.Context, report *model.ScanReport) error {
	if s.err != nil {
		return s.err
	}
	report.Score = 100
	return nil
}

func markedPipelineFactory(err error) func() *Pipeline {
	return func() *Pipeline {
		p := New()
		p.AddStep(&markStep{err: err})
		return p
	}
}

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("all sites scanned in input order", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(markedPipelineFactory(nil), WithBatchConcurrency(2))
		sites := []string{
			"https://one.example.com/",
			"https://two.example.com/",
			"https://three.example.com/",
		}

		reports, err := bp.ProcessBatch(context.Background(), sites)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != len(sites) {
			t.Fatalf("reports = %d, want %d", len(reports), len(sites))
		}
		for i, report := range reports {
			if report == nil {
				t.Fatalf("report %d is nil", i)
			}
			if report.SiteURL != sites[i] {
				t.Errorf("report %d site = %q, want %q", i, report.SiteURL, sites[i])
			}
			if report.Score != 100 {
				t.Errorf("report %d not processed", i)
			}
		}
	})

	t.Run("individual scan failures do not abort the batch", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(markedPipelineFactory(errors.New("homepage unreachable")))
		reports, err := bp.ProcessBatch(context.Background(), []string{
			"https://one.example.com/",
			"https://two.example.com/",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, report := range reports {
			if report == nil {
				t.Fatalf("report %d is nil", i)
			}
			if report.ErrorMessage == "" {
				t.Errorf("report %d missing recorded error", i)
			}
		}
	})
}

func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	bp := NewBatchProcessor(markedPipelineFactory(nil))
	sites := []string{"https://one.example.com/", "https://two.example.com/"}

	var mu sync.Mutex
	seen := make(map[int]string)
	err := bp.ProcessBatchWithCallback(context.Background(), sites, func(report *model.ScanReport, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = report.SiteURL
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("callbacks = %d, want 2", len(seen))
	}
	for i, site := range sites {
		if seen[i] != site {
			t.Errorf("callback %d = %q, want %q", i, seen[i], site)
		}
	}
}
