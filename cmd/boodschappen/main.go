package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"boodschappen/internal/cache"
	"boodschappen/internal/cli"
	"boodschappen/internal/core"
	apphttp "boodschappen/internal/http"
	applog "boodschappen/internal/log"
	"boodschappen/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)

	session, err := services.NewSession(context.Background(), store, core.Settings{
		CurrencyCode: cfg.CurrencyCode,
		Theme:        cfg.Theme,
		ShowPrice:    cfg.ShowPrice,
	})
	if err != nil {
		logger.Error("Failed to initialize session", "error", err)
		os.Exit(1)
	}

	// Apply a pending month rollover before serving.
	if err := session.Refresh(context.Background()); err != nil {
		logger.Warn("Startup refresh failed", "error", err)
	}

	caches := cache.NewManager(logger.WithComponent(applog.ComponentCache).Logger)

	srv := apphttp.NewServer(":"+cfg.Port, session, caches)
	caches.StartSweep(10 * time.Minute)
	srv.Handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(srv.Handler)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		logger.Info("Starting boodschappen server",
			"port", cfg.Port,
			applog.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Periodic refresh keeps the month rollover persisted even when no
	// requests come in around month boundaries.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := session.Refresh(ctx); err != nil {
					logger.Warn("Periodic refresh failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
	}

	caches.Stop()
	if err := session.Close(); err != nil {
		logger.Error("Failed to close data backend", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
