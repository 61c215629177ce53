package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/aevumlab/aevum/internal/api/handlers"
	mw "github.com/aevumlab/aevum/internal/api/middleware"
	"github.com/aevumlab/aevum/internal/config"
	"github.com/aevumlab/aevum/internal/domain"
	"github.com/aevumlab/aevum/internal/embedding"
	"github.com/aevumlab/aevum/internal/handler"
	"github.com/aevumlab/aevum/internal/index"
	"github.com/aevumlab/aevum/internal/llm"
	"github.com/aevumlab/aevum/internal/scoring"
	"github.com/aevumlab/aevum/internal/service"
	"github.com/aevumlab/aevum/internal/store"
)

// exampleIndex is an embedding index that can be (re)built from handler
// domain examples at startup.
type exampleIndex interface {
	domain.EmbeddingIndex
	Build(ctx context.Context, examples []index.Example) error
}

// App holds the router and shared state for lifecycle management.
type App struct {
	Router       *chi.Mux
	Coach        *service.CoachService
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the engine together. db may be nil, in which case the
// embedding index and the decision log stay in memory.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	embeddingClient, err := embedding.NewClient(config.EmbeddingProvider(), config.OpenAIAPIKey())
	if err != nil {
		logger.Warn("embedding client initialization failed, using mock",
			zap.String("provider", config.EmbeddingProvider()), zap.Error(err))
		embeddingClient = embedding.NewMockClient()
	}

	completionClient, err := llm.NewClient(config.LLMProvider(), config.OpenAIAPIKey())
	if err != nil {
		logger.Warn("completion client initialization failed, using mock",
			zap.String("provider", config.LLMProvider()), zap.Error(err))
		completionClient = llm.NewMockClient()
	}

	var scoringClient domain.ScoringClient
	if url := config.ScoringURL(); url != "" {
		scoringClient = scoring.NewHTTPClient(url)
	} else {
		scoringClient = scoring.NewMockClient()
	}

	// The general handler is registered first: it is the deterministic
	// fallback when no routing signal clears its threshold.
	registry, err := handler.NewRegistry(
		handler.NewGeneralHandler(completionClient),
		handler.NewBioAgeHandler(scoringClient),
		handler.NewHealthDataHandler(),
		handler.NewResearchHandler(completionClient),
	)
	if err != nil {
		return nil, err
	}

	var idx exampleIndex
	if db != nil {
		idx = index.NewPGIndex(db, embeddingClient)
	} else {
		idx = index.NewMemoryIndex(embeddingClient)
	}
	if err := idx.Build(context.Background(), registry.Examples()); err != nil {
		// An empty index degrades to the neutral fallback; it never blocks
		// startup.
		logger.Warn("embedding index build failed, semantic routing degraded", zap.Error(err))
	} else {
		logger.Info("embedding index built", zap.Int("examples", idx.Size()))
	}

	var decisions domain.DecisionLog
	if db != nil {
		decisions = store.NewPGDecisionStore(db)
	} else {
		decisions = store.NewDecisionLog()
	}
	contexts := store.NewContextStore()

	matcher := service.NewSemanticMatcher(idx, registry.All(), logger)
	arbitrator := service.NewConfidenceArbitrator(registry.All(), logger)
	router := service.NewRouter(matcher, arbitrator)
	coachSvc := service.NewCoachService(registry, router, contexts, decisions, logger)

	coachHandler := handlers.NewCoachHandler(coachSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Coach:     coachSvc,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1/coach", func(r chi.Router) {
		r.Post("/query", coachHandler.Query)
		r.Post("/upload", coachHandler.Upload)
		r.Route("/context/{userID}", func(r chi.Router) {
			r.Get("/", coachHandler.GetContexts)
			r.Delete("/", coachHandler.ClearContext)
		})
		r.Get("/decisions/{userID}", coachHandler.ListDecisions)
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure clients, stores and handlers satisfy their interfaces at compile time.
var (
	_ domain.EmbeddingClient  = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient  = (*embedding.MockClient)(nil)
	_ domain.CompletionClient = (*llm.OpenAIClient)(nil)
	_ domain.CompletionClient = (*llm.MockClient)(nil)
	_ domain.ScoringClient    = (*scoring.HTTPClient)(nil)
	_ domain.ScoringClient    = (*scoring.MockClient)(nil)
	_ domain.EmbeddingIndex   = (*index.MemoryIndex)(nil)
	_ domain.EmbeddingIndex   = (*index.PGIndex)(nil)
	_ domain.Handler          = (*handler.BioAgeHandler)(nil)
	_ domain.Handler          = (*handler.HealthDataHandler)(nil)
	_ domain.Handler          = (*handler.ResearchHandler)(nil)
	_ domain.Handler          = (*handler.GeneralHandler)(nil)
)
