package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/draftwise/draft-api/internal/artifacts"
	"github.com/draftwise/draft-api/internal/cache"
	"github.com/draftwise/draft-api/internal/config"
	"github.com/draftwise/draft-api/internal/genai"
	"github.com/draftwise/draft-api/internal/handlers"
	"github.com/draftwise/draft-api/internal/logic"
	"github.com/draftwise/draft-api/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()
	sugar := logger.Sugar()

	store := artifacts.NewStore(logger)
	registry, err := artifacts.NewRegistry(cfg.ArtifactsDir, store, logger)
	if err != nil {
		sugar.Fatalw("Failed to initialize registry", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		DataDir:       cfg.DataDir,
		Logger:        logger,
	})
	pool.Start(ctx)

	var explainer logic.Explainer
	if client, err := genai.NewClient(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.GenAITimeout, logger); err != nil {
		sugar.Warnw("Explanation backend disabled, using deterministic fallback", "reason", err)
	} else {
		explainer = client
	}

	var respCache handlers.ResponseCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalw("Invalid REDIS_URL", "error", err)
		}
		respCache = cache.New(redis.NewClient(opt), cfg.CacheTTL, logger)
	}

	h := handlers.New(handlers.Config{
		WorkerPool: pool,
		Registry:   registry,
		Cache:      respCache,
		Logger:     logger,
		Recommend:  logic.NewRecommendService(registry, explainer, cfg.ScoringConfig(), logger),
		Training:   logic.NewTrainingService(cfg.DataDir, store, registry, cfg.SmoothingConfig(), logger),
	})

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      corsMiddleware(h.Routes()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("Server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
	pool.Stop()
	sugar.Info("Shutdown complete")
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}
