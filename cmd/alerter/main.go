package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/couchcryptid/quake-alert-etl/internal/adapter/dynamo"
	"github.com/couchcryptid/quake-alert-etl/internal/adapter/hface"
	httpadapter "github.com/couchcryptid/quake-alert-etl/internal/adapter/http"
	"github.com/couchcryptid/quake-alert-etl/internal/adapter/openrouter"
	"github.com/couchcryptid/quake-alert-etl/internal/adapter/s3bucket"
	"github.com/couchcryptid/quake-alert-etl/internal/adapter/usgs"
	"github.com/couchcryptid/quake-alert-etl/internal/config"
	"github.com/couchcryptid/quake-alert-etl/internal/observability"
	"github.com/couchcryptid/quake-alert-etl/internal/pipeline"
	"github.com/couchcryptid/quake-alert-etl/internal/summarize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	fetcher := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)
	store := dynamo.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName, logger)
	publisher := s3bucket.NewPublisher(s3.NewFromConfig(awsCfg), cfg.WebsiteBucket, logger)

	// Summarization providers are feature-flagged by credential presence.
	var providers []summarize.Provider
	if cfg.OpenRouterAPIKey != "" {
		providers = append(providers, openrouter.NewClient(
			cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterTimeout, logger))
		logger.Info("openrouter summarization enabled", "model", cfg.OpenRouterModel)
	}
	if cfg.HFToken != "" {
		providers = append(providers, hface.NewClient(cfg.HFToken, cfg.HFTimeout, logger))
		logger.Info("huggingface summarization enabled")
	}
	if len(providers) == 0 {
		logger.Info("no summarization provider configured, alerts get placeholder summaries")
	}
	chain := summarize.NewChain(logger, metrics, providers...)

	p := pipeline.New(fetcher, chain, store, publisher, logger, metrics,
		cfg.MaxItems, cfg.SummariesToKeep, cfg.RunInterval)

	// One-shot mode for cron-style deployments: a single invocation, exit
	// code reflecting the result.
	if cfg.RunOnce {
		result := p.RunOnce(ctx)
		if result.Error != "" {
			logger.Error("invocation failed", "error", result.Error)
			os.Exit(1)
		}
		logger.Info("invocation complete", "count", *result.Count)
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start scheduled pipeline runner.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
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
