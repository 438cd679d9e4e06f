package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/meteor-watch/internal/adapter/ams"
	"github.com/couchcryptid/meteor-watch/internal/adapter/httpserver"
	mediaadapter "github.com/couchcryptid/meteor-watch/internal/adapter/media"
	"github.com/couchcryptid/meteor-watch/internal/adapter/nasa"
	"github.com/couchcryptid/meteor-watch/internal/config"
	"github.com/couchcryptid/meteor-watch/internal/domain"
	"github.com/couchcryptid/meteor-watch/internal/fetch"
	"github.com/couchcryptid/meteor-watch/internal/observability"
	"github.com/couchcryptid/meteor-watch/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := fetch.NewClient(cfg, logger, metrics)

	sources := []pipeline.Source{
		nasa.NewClient(cfg, fetcher, logger, metrics),
	}
	if cfg.AMSEnabled {
		sources = append(sources, ams.NewClient(cfg, fetcher, logger, metrics))
		logger.Info("ams source enabled", "url", cfg.AMSBaseURL, "limit", cfg.AMSLimit)
	}

	// Media enrichment is feature-flagged; video search additionally needs a
	// YouTube credential.
	var images domain.ImageSearcher
	var videos domain.VideoSearcher
	if cfg.MediaEnabled {
		images = mediaadapter.NewImageClient(cfg.ImagesBaseURL, cfg.MediaTimeout, logger, metrics)
		if cfg.YouTubeAPIKey != "" {
			videos = mediaadapter.NewVideoClient(cfg.YouTubeBaseURL, cfg.YouTubeAPIKey, cfg.MediaTimeout, logger, metrics)
		}
		metrics.MediaEnabled.Set(1)
		logger.Info("media enrichment enabled", "video_search", cfg.YouTubeAPIKey != "")
	} else {
		logger.Info("media enrichment disabled")
	}

	aggregator := pipeline.New(sources, images, videos, logger, metrics)
	srv := httpserver.NewServer(cfg.HTTPAddr, aggregator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
