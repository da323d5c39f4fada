package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nonthasen/campusdesk/internal/config"
	"github.com/nonthasen/campusdesk/internal/httpapi"
	"github.com/nonthasen/campusdesk/internal/intent"
	"github.com/nonthasen/campusdesk/internal/llm"
	"github.com/nonthasen/campusdesk/internal/observability"
	"github.com/nonthasen/campusdesk/internal/pipeline"
	"github.com/nonthasen/campusdesk/internal/ratelimit"
	"github.com/nonthasen/campusdesk/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer st.Close()
	if cfg.DatabaseURL != "" {
		logger.Info("store backend: postgres")
	} else {
		logger.Info("store backend: sqlite", zap.String("path", cfg.SQLitePath))
	}

	var (
		gen      llm.Generator
		selector *llm.Selector
	)
	if cfg.GeminiAPIKey != "" {
		g, err := llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("gemini client init failed: %v", err)
		}
		gen = g
		selector = llm.NewSelector(g, cfg.ModelCandidates, cfg.ModelTimeout, metrics, logger)
		logger.Info("model pipeline enabled", zap.Strings("candidates", cfg.ModelCandidates))
	} else {
		logger.Warn("GEMINI_API_KEY not set, answering from rules only")
	}

	router := pipeline.NewRouter(pipeline.RouterParams{
		Store:        st,
		Matcher:      intent.NewMatcher(st, logger),
		Selector:     selector,
		Gen:          gen,
		Metrics:      metrics,
		Logger:       logger,
		ModelTimeout: cfg.ModelTimeout,
		QueryTimeout: cfg.QueryTimeout,
		MaxRows:      cfg.MaxResultRows,
	})

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow, cfg.RateRetention)

	api := httpapi.New(cfg, router, limiter, metrics, logger)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	limiter.StartJanitor(runCtx, cfg.RateSweepInterval)

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed, closing", zap.Error(err))
		_ = httpServer.Close()
	}

	logger.Info("shutdown complete")
}
