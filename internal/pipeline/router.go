package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nonthasen/campusdesk/internal/intent"
	"github.com/nonthasen/campusdesk/internal/llm"
	"github.com/nonthasen/campusdesk/internal/observability"
	"github.com/nonthasen/campusdesk/internal/reliability"
	"github.com/nonthasen/campusdesk/internal/store"
)

// Router answers one question at a time by walking a fixed chain: the
// deterministic matcher, then model selection, query synthesis, the
// read-only gate, bounded execution, and summarization. Every stage that
// fails resolves to a fixed Thai sentence, so a question can never surface a
// raw error or a synthesized statement to the caller.
type Router struct {
	store    store.Store
	matcher  *intent.Matcher
	selector *llm.Selector
	gen      llm.Generator
	metrics  *observability.Metrics
	logger   *zap.Logger

	modelTimeout time.Duration
	queryTimeout time.Duration
	maxRows      int
}

// RouterParams collects the router's dependencies. Selector and Generator
// may be nil when no API key is configured; the router then answers only
// through the deterministic matcher.
type RouterParams struct {
	Store    store.Store
	Matcher  *intent.Matcher
	Selector *llm.Selector
	Gen      llm.Generator
	Metrics  *observability.Metrics
	Logger   *zap.Logger

	ModelTimeout time.Duration
	QueryTimeout time.Duration
	MaxRows      int
}

func NewRouter(p RouterParams) *Router {
	return &Router{
		store:        p.Store,
		matcher:      p.Matcher,
		selector:     p.Selector,
		gen:          p.Gen,
		metrics:      p.Metrics,
		logger:       p.Logger,
		modelTimeout: p.ModelTimeout,
		queryTimeout: p.QueryTimeout,
		maxRows:      p.MaxRows,
	}
}

// Answer resolves a question to a Thai answer string. It never returns an
// error; failures map to the fixed fallback messages.
func (r *Router) Answer(ctx context.Context, question string) string {
	started := time.Now()
	rid := uuid.NewString()
	logger := r.logger.With(zap.String("request_id", rid))

	answer, stage := r.answer(ctx, logger, question)

	r.metrics.AnswersTotal.WithLabelValues(stage).Inc()
	r.metrics.ObserveAnswerLatency(time.Since(started))
	logger.Info("question answered",
		zap.String("stage", stage),
		zap.Duration("elapsed", time.Since(started)))
	return answer
}

func (r *Router) answer(ctx context.Context, logger *zap.Logger, question string) (string, string) {
	question = strings.TrimSpace(question)
	if question == "" {
		return MsgAskQuestion, "empty"
	}

	if answer, ok := r.matcher.Match(ctx, question); ok {
		return answer, "intent"
	}

	if r.gen == nil || r.selector == nil {
		return msgNoModelHelp, "no_model"
	}

	model, ok := r.selector.Select(ctx)
	if !ok {
		logger.Warn("no live model among candidates")
		return msgNoLiveModel, "no_live_model"
	}
	logger = logger.With(zap.String("model", model))

	raw, err := r.generate(ctx, model, "synthesize", synthesisPrompt(question))
	if err != nil {
		return r.modelFailure(logger, model, "synthesis failed", err)
	}

	syn := parseSynthesis(raw)
	if !syn.OK {
		logger.Warn("unparsable synthesis, retrying as direct answer")
		direct, err := r.generate(ctx, model, "fallback", fallbackPrompt(question))
		if err != nil || strings.TrimSpace(direct) == "" {
			logger.Warn("direct answer fallback failed", zap.Error(err))
			return msgSynthesisDown, "synthesis_down"
		}
		return strings.TrimSpace(direct), "fallback"
	}

	// A populated query always wins; the message is only an answer when the
	// model proposed no SQL.
	if syn.Query == "" {
		if syn.Message != "" {
			return syn.Message, "direct"
		}
		return msgAmbiguous, "ambiguous"
	}

	if err := AuthorizeQuery(syn.Query); err != nil {
		logger.Warn("rejected non-select statement", zap.String("sql", syn.Query))
		return msgReadOnly, "read_only"
	}

	rs, err := r.execute(ctx, syn.Query)
	if err != nil {
		logger.Warn("query execution failed", zap.String("sql", syn.Query), zap.Error(err))
		return msgQueryError, "query_error"
	}
	if len(rs.Rows) > r.maxRows {
		rs.Rows = rs.Rows[:r.maxRows]
	}
	if len(rs.Rows) == 0 {
		return msgNoData, "no_data"
	}

	rowsJSON, err := json.Marshal(rs.Rows)
	if err != nil {
		logger.Error("result serialization failed", zap.Error(err))
		return msgGenericError, "summary_error"
	}

	summary, err := r.generate(ctx, model, "summarize", summarizePrompt(question, string(rowsJSON)))
	if err != nil {
		return r.modelFailure(logger, model, "summarization failed", err)
	}
	if strings.TrimSpace(summary) == "" {
		logger.Warn("summarizer returned empty output")
		return msgGenericError, "summary_error"
	}
	return strings.TrimSpace(summary), "summary"
}

// generate runs one model call under the model timeout and records it.
func (r *Router) generate(ctx context.Context, model, kind, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.modelTimeout)
	defer cancel()

	out, err := r.gen.Generate(callCtx, model, prompt)
	if err != nil {
		r.metrics.ModelCalls.WithLabelValues(kind, "error").Inc()
		return "", err
	}
	r.metrics.ModelCalls.WithLabelValues(kind, "ok").Inc()
	return out, nil
}

// modelFailure invalidates the cached model and maps the error to either the
// busy or the generic message.
func (r *Router) modelFailure(logger *zap.Logger, model, msg string, err error) (string, string) {
	logger.Warn(msg, zap.Error(err))
	r.selector.Invalidate(model)
	if reliability.IsQuotaExhausted(err) {
		return msgServiceBusy, "busy"
	}
	return msgGenericError, "model_error"
}

func (r *Router) execute(ctx context.Context, query string) (store.ResultSet, error) {
	execCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()
	return r.store.Select(execCtx, query)
}
