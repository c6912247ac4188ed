package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"todolist/internal/config"
	"todolist/internal/migrate"
	"todolist/internal/server"
	"todolist/internal/storage"
)

const (
	pingAttempts = 5
	pingDelay    = 2 * time.Second
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found; using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Driver, cfg.DSN, cfg.PoolLimit, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// Probe the database with a bounded retry. When it stays
	// unreachable the server still starts: orchestrators keep probing
	// /health, which reports the degraded state, instead of the
	// container crash-looping.
	dbConnected := true
	ctx := context.Background()
	if err := store.PingRetry(ctx, pingAttempts, pingDelay); err != nil {
		logger.Error("starting in degraded mode", slog.String("error", err.Error()))
		dbConnected = false
	}

	if dbConnected {
		runner := migrate.NewRunner(store.DB(), cfg.Driver, logger)
		if _, err := runner.Up(ctx); err != nil {
			logger.Error("migration failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	srv := server.New(store, logger, cfg.StaticDir, dbConnected)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("driver", cfg.Driver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
