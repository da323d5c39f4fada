package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nonthasen/campusdesk/internal/observability"
)

var testMetricsSeq int

func newTestMetrics() *observability.Metrics {
	testMetricsSeq++
	return observability.NewMetrics(fmt.Sprintf("test_llm_%d_%d", time.Now().UnixNano(), testMetricsSeq))
}

func newTestSelector(gen Generator, candidates ...string) *Selector {
	return NewSelector(gen, candidates, time.Second, newTestMetrics(), zap.NewNop())
}

func TestSelectPicksFirstLiveCandidate(t *testing.T) {
	gen := NewMockGenerator()
	gen.Respond("gemini-2.0-flash", "2")

	s := newTestSelector(gen, "gemini-2.0-flash", "gemini-pro")
	model, ok := s.Select(context.Background())
	if !ok {
		t.Fatalf("Select() found no model, want gemini-2.0-flash")
	}
	if model != "gemini-2.0-flash" {
		t.Fatalf("Select() = %q, want %q", model, "gemini-2.0-flash")
	}
}

func TestSelectSkipsFailedCandidates(t *testing.T) {
	gen := NewMockGenerator()
	gen.Fail("gemini-2.0-flash", errors.New("model not supported"))
	gen.Respond("gemini-1.5-flash", "2")

	s := newTestSelector(gen, "gemini-2.0-flash", "gemini-1.5-flash")
	model, ok := s.Select(context.Background())
	if !ok || model != "gemini-1.5-flash" {
		t.Fatalf("Select() = (%q, %v), want (gemini-1.5-flash, true)", model, ok)
	}
}

func TestSelectReturnsFalseWhenAllFail(t *testing.T) {
	gen := NewMockGenerator()
	gen.Fail("a", errors.New("timeout"))
	gen.Fail("b", errors.New("auth"))

	s := newTestSelector(gen, "a", "b")
	if model, ok := s.Select(context.Background()); ok {
		t.Fatalf("Select() = (%q, true), want not found", model)
	}
}

func TestSelectCachesLastGoodCandidate(t *testing.T) {
	gen := NewMockGenerator()
	gen.Respond("gemini-pro", "2")

	s := newTestSelector(gen, "gemini-pro")
	if _, ok := s.Select(context.Background()); !ok {
		t.Fatalf("first Select() failed")
	}
	if _, ok := s.Select(context.Background()); !ok {
		t.Fatalf("second Select() failed")
	}

	// Only the initial probe hits the model; the cached pick is free.
	if calls := gen.Calls(); len(calls) != 1 {
		t.Fatalf("model called %d times, want 1 (cached selection)", len(calls))
	}
}

func TestInvalidateForcesReprobe(t *testing.T) {
	gen := NewMockGenerator()
	gen.Respond("gemini-pro", "2", "2")

	s := newTestSelector(gen, "gemini-pro")
	model, _ := s.Select(context.Background())
	s.Invalidate(model)

	if _, ok := s.Select(context.Background()); !ok {
		t.Fatalf("Select() after Invalidate() failed")
	}
	if calls := gen.Calls(); len(calls) != 2 {
		t.Fatalf("model called %d times, want 2 (re-probed)", len(calls))
	}
}

func TestInvalidateIgnoresStaleModel(t *testing.T) {
	gen := NewMockGenerator()
	gen.Respond("gemini-pro", "2")

	s := newTestSelector(gen, "gemini-pro")
	s.Select(context.Background())
	s.Invalidate("some-other-model")

	s.Select(context.Background())
	if calls := gen.Calls(); len(calls) != 1 {
		t.Fatalf("model called %d times, want 1 (cache kept)", len(calls))
	}
}

func TestSelectRejectsEmptyProbeResponse(t *testing.T) {
	gen := NewMockGenerator()
	gen.Respond("a", "   ")
	gen.Respond("b", "2")

	s := newTestSelector(gen, "a", "b")
	model, ok := s.Select(context.Background())
	if !ok || model != "b" {
		t.Fatalf("Select() = (%q, %v), want (b, true)", model, ok)
	}
}
