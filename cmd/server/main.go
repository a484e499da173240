// Command server loads the carbon-intensity dataset and serves it to the
// map UI over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/carbon-intensity-service/internal/adapter/http"
	"github.com/couchcryptid/carbon-intensity-service/internal/config"
	"github.com/couchcryptid/carbon-intensity-service/internal/loader"
	"github.com/couchcryptid/carbon-intensity-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var source loader.Source
	if cfg.DatasetURL != "" {
		source = loader.NewHTTPSource(cfg.DatasetURL, cfg.FetchTimeout, logger)
		logger.Info("dataset source: remote", "url", cfg.DatasetURL, "timeout", cfg.FetchTimeout)
	} else {
		source = loader.NewFileSource(cfg.DatasetPath)
		logger.Info("dataset source: local file", "path", cfg.DatasetPath)
	}

	store := loader.NewStore()
	svc := loader.NewService(loader.New(source, logger, metrics, cfg.ChunkSize), store)

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, store, svc, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial load runs in the background; /readyz gates traffic until a
	// snapshot is published. The fallback guarantee means this always
	// produces a servable dataset.
	go func() {
		snap := svc.Reload(ctx)
		logger.Info("initial dataset published",
			"records", len(snap.Records),
			"days", len(snap.Index.Days),
			"used_fallback", snap.UsedFallback,
		)
	}()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
