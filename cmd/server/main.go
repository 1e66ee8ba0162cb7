package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/blueprint"
	"github.com/certprep/dva-practice-backend/internal/cache"
	"github.com/certprep/dva-practice-backend/internal/composer"
	"github.com/certprep/dva-practice-backend/internal/config"
	"github.com/certprep/dva-practice-backend/internal/database"
	"github.com/certprep/dva-practice-backend/internal/generator"
	"github.com/certprep/dva-practice-backend/internal/handler"
	"github.com/certprep/dva-practice-backend/internal/logger"
	"github.com/certprep/dva-practice-backend/internal/repository"
	"github.com/certprep/dva-practice-backend/internal/router"
	"github.com/certprep/dva-practice-backend/internal/service"
	"github.com/certprep/dva-practice-backend/internal/validator"
	"github.com/certprep/dva-practice-backend/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting DVA Practice Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty, question generation will fail")
	}

	bp := blueprint.Default()

	// Repositories.
	setRepo := repository.NewPracticeSetRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	responseRepo := repository.NewResponseRepository(pool)

	// Redis-backed coordination.
	sessionCache := cache.NewSessionCache(rdb)
	generationQueue := cache.NewGenerationQueue(rdb)
	generationStatus := cache.NewGenerationStatusStore(rdb)

	// Content provider and set composer.
	gemini := generator.NewGeminiClient(cfg.GeminiEndpoint, cfg.GeminiModel, cfg.GeminiAPIKey, log)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	setComposer := composer.New(gemini, rng, log)

	// Services.
	sessionService := service.NewSessionService(bp, setRepo, sessionRepo, responseRepo, sessionCache, log)
	setService := service.NewPracticeSetService(setRepo, responseRepo, log)
	generationService := service.NewGenerationService(setRepo, generationQueue, generationStatus, log)
	explanationService := service.NewExplanationService(setRepo, gemini, gemini.Model(), log)

	// Handlers.
	handlers := &router.Handlers{
		PracticeSet: handler.NewPracticeSetHandler(setService),
		Session:     handler.NewSessionHandler(sessionService),
		Generation:  handler.NewGenerationHandler(generationService),
		Explanation: handler.NewExplanationHandler(explanationService),
	}

	// Background generation worker.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	generationWorker := worker.NewGenerationWorker(bp, setComposer, setRepo, generationQueue, generationStatus, log)
	go generationWorker.Start(workerCtx)

	r := router.SetupRouter(handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the generation worker. In-flight provider calls are
	// abandoned; queued set numbers stay in Redis for the next start.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
