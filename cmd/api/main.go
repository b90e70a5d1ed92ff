package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/audiocorpus/speechapi/internal/api"
	"github.com/audiocorpus/speechapi/internal/config"
	"github.com/audiocorpus/speechapi/internal/inference"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Redis connection (optional — the transcript cache is skipped without it)
	var rdb *redis.Client
	if cfg.Cache.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, running without transcript cache", "error", err)
			client.Close()
		} else {
			rdb = client
			defer rdb.Close()
		}
	}

	// The inference provider is built once and shared by all requests.
	var provider inference.Provider
	switch cfg.Inference.Backend {
	case "openai":
		provider = inference.NewOpenAIProvider(inference.OpenAIConfig{
			APIKey:  cfg.Inference.OpenAIKey,
			BaseURL: cfg.Inference.OpenAIBaseURL,
			Model:   cfg.Inference.OpenAIModel,
		})
	default:
		provider = inference.NewCTCClient(inference.CTCConfig{
			BaseURL: cfg.Inference.CTCBaseURL,
			Model:   cfg.Inference.CTCModel,
		})
	}
	slog.Info("inference backend selected", "provider", provider.Name())

	// Setup router
	router := api.NewRouter(rdb, provider, cfg)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
