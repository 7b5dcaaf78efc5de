package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mockmate/backend/internal/api"
	"github.com/mockmate/backend/internal/extract"
	"github.com/mockmate/backend/internal/generator"
	"github.com/mockmate/backend/internal/infrastructure/config"
	"github.com/mockmate/backend/internal/keypool"
	"github.com/mockmate/backend/internal/llm"
	"github.com/mockmate/backend/internal/service"
	"github.com/mockmate/backend/internal/session"
	"github.com/mockmate/backend/internal/store"
	"github.com/mockmate/backend/internal/transcribe"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	archive, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer archive.Close()

	keys, err := keypool.New(cfg.GeminiAPIKeys, cfg.RateLimit, cfg.RateLimitWindow, cfg.RateLimitBackoff)
	if err != nil {
		logger.Error("invalid key pool configuration", "error", err)
		os.Exit(1)
	}

	invoker := llm.NewGemini(cfg.GeminiModel)
	defer invoker.Close()

	sessions := session.NewStore()
	evaluation := service.NewEvaluationService(sessions, keys, invoker, archive, logger)
	match := service.NewMatchService(keys, invoker, logger)
	gen := generator.New(keys, invoker, logger)
	transcriber := transcribe.NewClient(cfg.STTURL)
	extractor := extract.NewFetcher()

	handler := api.NewHandler(sessions, evaluation, match, gen, archive, transcriber, extractor, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	// Write timeout must outlast the longest request we serve, which is a
	// full evaluation run.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      service.EvaluationBudget + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "keys", len(cfg.GeminiAPIKeys))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
