package llm

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nonthasen/campusdesk/internal/observability"
)

// Liveness probe kept trivial so any reachable model answers it.
const probePrompt = "ตอบสั้นๆ: 1+1=?"

// Selector finds a live model from a priority-ordered candidate list. The
// first candidate that answers a trivial probe is memoized for the process
// lifetime and re-probed only after an observed failure.
type Selector struct {
	gen        Generator
	candidates []string
	timeout    time.Duration
	metrics    *observability.Metrics
	logger     *zap.Logger

	mu       sync.Mutex
	lastGood string
}

func NewSelector(gen Generator, candidates []string, timeout time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Selector {
	return &Selector{
		gen:        gen,
		candidates: candidates,
		timeout:    timeout,
		metrics:    metrics,
		logger:     logger,
	}
}

// Select returns a live model name, probing candidates in priority order
// when no cached candidate is available. The second return value is false
// when every candidate failed its probe.
func (s *Selector) Select(ctx context.Context) (string, bool) {
	s.mu.Lock()
	cached := s.lastGood
	s.mu.Unlock()
	if cached != "" {
		return cached, true
	}

	for _, model := range s.candidates {
		if err := s.probe(ctx, model); err != nil {
			s.metrics.ModelProbeFailures.WithLabelValues(model).Inc()
			s.logger.Warn("model probe failed, trying next candidate",
				zap.String("model", model), zap.Error(err))
			continue
		}

		s.mu.Lock()
		s.lastGood = model
		s.mu.Unlock()
		s.logger.Info("selected model", zap.String("model", model))
		return model, true
	}

	return "", false
}

// Invalidate drops the cached candidate after an observed failure so the
// next request probes the full list again.
func (s *Selector) Invalidate(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastGood == model {
		s.lastGood = ""
	}
}

func (s *Selector) probe(ctx context.Context, model string) error {
	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(probeCtx, model, probePrompt)
	if err != nil {
		s.metrics.ModelCalls.WithLabelValues("probe", "error").Inc()
		return err
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.ModelCalls.WithLabelValues("probe", "error").Inc()
		return errEmptyProbe
	}
	s.metrics.ModelCalls.WithLabelValues("probe", "ok").Inc()
	return nil
}
