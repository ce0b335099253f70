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

	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/adapters/httpapi"
	"github.com/ecgf-team/roster-api/internal/platform/bootstrap"
	"github.com/ecgf-team/roster-api/internal/platform/config"
	"github.com/ecgf-team/roster-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "roster-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "roster-api")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, policy, log)
	if err != nil {
		return err
	}
	defer app.Close()

	api := httpapi.NewServer(app.Members, app.Evaluations, app.Growth)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		Logger:         log,
		Idempotency:    app.Idempotency,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})
	go httpapi.PurgeIdempotency(ctx, app.Idempotency, cfg.IdempotencyTTL, time.Hour, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", zap.String("addr", cfg.Addr()), zap.String("backend", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
