// Package main runs the infacat API server: extraction runs over PowerMart
// exports, persisted in a SQLite metastore and served over HTTP.
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

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"infacat/internal/api"
	"infacat/internal/app"
	"infacat/internal/config"
	"infacat/internal/middleware"
	"infacat/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments configure through the environment.
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("could not load .env", "error", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	metaDB, err := store.Open(cfg.MetaDBPath)
	if err != nil {
		return err
	}
	defer metaDB.Close()

	a := app.New(app.Deps{Cfg: cfg, MetaDB: metaDB, Logger: logger})

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	})
	defer limiter.Close()

	handler := api.NewHandler(a.Store, a.Extraction, cfg.InputPath, logger)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(handler, cfg, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.ExtractSchedule != "" {
		if err := a.Scheduler.Start(cfg.ExtractSchedule); err != nil {
			return err
		}
		defer a.Scheduler.Stop()
	}

	g.Go(func() error {
		logger.Info("http api listening", "addr", cfg.ListenAddr, "input", cfg.InputPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
