package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/config"
	"github.com/Dosada05/bracket-system/handlers"
	api "github.com/Dosada05/bracket-system/routes"
	"github.com/Dosada05/bracket-system/services"
	"github.com/Dosada05/bracket-system/storage"
	"github.com/go-chi/chi/v5"
)

const reaperInterval = 10 * time.Minute // how often idle tournaments are pruned

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Snapshot uploads are optional; without the R2 block the endpoint
	// reports snapshots as disabled.
	var uploader storage.FileUploader
	if cfg.R2 != nil {
		uploader, err = storage.NewR2Uploader(storage.R2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 snapshot uploader initialized")
	} else {
		logger.Info("snapshot storage not configured, publishing disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	tournamentService := services.NewTournamentService(wsHub, []byte(cfg.TokenSecretKey), logger)
	snapshotService := services.NewSnapshotService(tournamentService, uploader, logger)
	logger.Info("services initialized")

	// Tournaments live in memory only; prune sessions nobody has touched
	// within the TTL.
	go func() {
		ticker := time.NewTicker(reaperInterval)
		defer ticker.Stop()
		logger.Info("idle tournament reaper started",
			slog.Duration("interval", reaperInterval),
			slog.Duration("ttl", cfg.SessionTTL))
		for range ticker.C {
			tournamentService.PruneIdle(cfg.SessionTTL)
		}
	}()

	tournamentHandler := handlers.NewTournamentHandler(tournamentService, snapshotService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		tournamentHandler,
		webSocketHandler,
		[]byte(cfg.TokenSecretKey),
		cfg.CORSAllowedOrigins,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
