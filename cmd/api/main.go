package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"communityhub/internal/app"
	"communityhub/internal/infrastructure/ratelimit"
	"communityhub/internal/infrastructure/realtime"
	"communityhub/pkg/config"
	"communityhub/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Init(os.Stdout, cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize backends: %v", err)
		os.Exit(1)
	}
	defer backends.Store.Close()

	authLimiter := ratelimit.NewRateLimiter(cfg.AuthRatePerMinute)
	go authLimiter.Cleanup(ctx, time.Minute)

	var hub *realtime.Hub
	if cfg.RealtimeEnabled {
		hub = realtime.NewHub()
		hub.Start(ctx)
	}

	e := app.NewServer(app.Deps{
		Config:        cfg,
		Store:         backends.Store,
		Credentials:   backends.Credentials,
		Verifier:      backends.Credentials,
		TokenVerifier: backends.TokenVerifier,
		Hub:           hub,
		AuthLimiter:   authLimiter,
	})

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
