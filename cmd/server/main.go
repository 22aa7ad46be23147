package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openfoods/openfoods/config"
	httpDelivery "github.com/openfoods/openfoods/internal/delivery/http"
	"github.com/openfoods/openfoods/internal/infrastructure/store"
	"github.com/openfoods/openfoods/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer log.Sync()

	log.Infow("starting OpenFoods fixture server",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"base_path", cfg.Server.BasePath,
		"store", cfg.Store.Type,
	)

	// Initialize infrastructure dependencies
	repo, err := store.NewStore(cfg.Store.Type, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer repo.Close()

	seed, err := store.LoadSeedFile(cfg.Store.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeded, err := store.Seed(ctx, repo, seed)
	if err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	log.Infow("store ready", "seeded", seeded)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(repo, log)
	router := httpDelivery.SetupRouter(cfg, handler, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Infow("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
