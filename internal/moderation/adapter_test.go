package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaudit/adaudit/internal/model"
)

// fakeClassifier records calls and returns a scripted verdict.
type fakeClassifier struct {
	verdict *Verdict
	err     error
	calls   int
	lastTxt string
}

func (f *fakeClassifier) Moderate(_ context.Context, text string) (*Verdict, error) {
	f.calls++
	f.lastTxt = text
	if f.err != nil {
		return nil, f.err
	}
	return f.verdict, nil
}

func TestAdapterModerate(t *testing.T) {
	t.Parallel()

	t.Run("nil classifier degrades to neutral", func(t *testing.T) {
		t.Parallel()

		a := NewAdapter(nil)
		assert.False(t, a.Available())

		result := a.Moderate(context.Background(), "any text at all", "https://example.com/p")
		require.NotNil(t, result)
		assert.Empty(t, result.Violations)
		assert.Contains(t, result.Summary, "not configured")
	})

	t.Run("safe keyword short-circuits without remote call", func(t *testing.T) {
		t.Parallel()

		fake := &fakeClassifier{verdict: &Verdict{Summary: "should not be called"}}
		a := NewAdapter(fake)

		result := a.Moderate(context.Background(), "A step by step tutorial on sourdough.", "https://example.com/p")
		assert.Equal(t, 0, fake.calls)
		assert.Empty(t, result.Violations)
		assert.Contains(t, result.Summary, "safe keywords")
	})

	t.Run("danger keyword overrides safe keyword", func(t *testing.T) {
		t.Parallel()

		fake := &fakeClassifier{verdict: &Verdict{Summary: "reviewed"}}
		a := NewAdapter(fake)

		a.Moderate(context.Background(), "An online casino tutorial for beginners.", "https://example.com/p")
		assert.Equal(t, 1, fake.calls, "danger keyword must force the remote call")
	})

	t.Run("neutral text goes to the classifier", func(t *testing.T) {
		t.Parallel()

		fake := &fakeClassifier{verdict: &Verdict{Summary: "compliant"}}
		a := NewAdapter(fake)

		result := a.Moderate(context.Background(), "Quarterly notes on garden soil drainage.", "https://example.com/p")
		assert.Equal(t, 1, fake.calls)
		assert.Equal(t, "compliant", result.Summary)
	})

	t.Run("classifier failure yields neutral verdict", func(t *testing.T) {
		t.Parallel()

		fake := &fakeClassifier{err: errors.New("rate limited")}
		a := NewAdapter(fake)

		result := a.Moderate(context.Background(), "Quarterly notes on garden soil drainage.", "https://example.com/p")
		require.NotNil(t, result)
		assert.Empty(t, result.Violations)
		assert.Contains(t, result.Summary, "rate limited")
	})

	t.Run("confidence cutoff filters verdict violations", func(t *testing.T) {
		t.Parallel()

		fake := &fakeClassifier{verdict: &Verdict{
			Summary: "violations found",
			Violations: []VerdictViolation{
				{Type: "prohibited_content", Excerpt: "high", Confidence: 0.95},
				{Type: "prohibited_content", Excerpt: "at cutoff", Confidence: 0.8},
				{Type: "misleading_content", Excerpt: "low", Confidence: 0.4},
			},
		}}
		a := NewAdapter(fake)

		result := a.Moderate(context.Background(), "Quarterly notes on garden soil drainage.", "https://example.com/p")
		require.Len(t, result.Violations, 1)
		assert.Equal(t, "high", result.Violations[0].Excerpt)
		assert.Equal(t, model.ViolationProhibitedContent, result.Violations[0].Type)
	})

	t.Run("unknown violation type collapses to prohibited content", func(t *testing.T) {
		t.Parallel()

		fake := &fakeClassifier{verdict: &Verdict{
			Summary: "violations found",
			Violations: []VerdictViolation{
				{Type: "something_the_model_invented", Excerpt: "x", Confidence: 0.99},
			},
		}}
		a := NewAdapter(fake)

		result := a.Moderate(context.Background(), "Quarterly notes on garden soil drainage.", "https://example.com/p")
		require.Len(t, result.Violations, 1)
		assert.Equal(t, model.ViolationProhibitedContent, result.Violations[0].Type)
	})

	t.Run("long text truncated to prompt budget", func(t *testing.T) {
		t.Parallel()

		fake := &fakeClassifier{verdict: &Verdict{Summary: "compliant"}}
		a := NewAdapter(fake)

		long := strings.Repeat("drainage ", 2000)
		a.Moderate(context.Background(), long, "https://example.com/p")
		require.Equal(t, 1, fake.calls)
		assert.LessOrEqual(t, len(fake.lastTxt), promptBudget)
	})

	t.Run("custom cutoff", func(t *testing.T) {
		t.Parallel()

		fake := &fakeClassifier{verdict: &Verdict{
			Summary: "violations found",
			Violations: []VerdictViolation{
				{Type: "prohibited_content", Excerpt: "mid", Confidence: 0.6},
			},
		}}
		a := NewAdapter(fake, WithCutoff(0.5))

		result := a.Moderate(context.Background(), "Quarterly notes on garden soil drainage.", "https://example.com/p")
		assert.Len(t, result.Violations, 1)
	})
}

func TestCleanJSONBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cleanJSONBlock(tt.input))
		})
	}
}
