package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	chartadapter "github.com/couchcryptid/covid-metrics-etl/internal/adapter/chart"
	exceladapter "github.com/couchcryptid/covid-metrics-etl/internal/adapter/excel"
	httpadapter "github.com/couchcryptid/covid-metrics-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/covid-metrics-etl/internal/adapter/kafka"
	"github.com/couchcryptid/covid-metrics-etl/internal/adapter/owid"
	"github.com/couchcryptid/covid-metrics-etl/internal/config"
	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
	"github.com/couchcryptid/covid-metrics-etl/internal/observability"
	"github.com/couchcryptid/covid-metrics-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	aliases, err := cfg.Aliases()
	if err != nil {
		logger.Error("failed to load alias table", "error", err)
		os.Exit(1)
	}

	fetcher := owid.NewClient(cfg.SourceURL, cfg.FetchTimeout, logger)
	renderers := []pipeline.Renderer{
		exceladapter.NewRenderer(cfg.OutputDir, logger),
		chartadapter.NewRenderer(cfg.OutputDir, logger),
	}

	// Run-report publishing is feature-flagged via KAFKA_REPORT_TOPIC /
	// REPORT_ENABLED.
	var reporter pipeline.Reporter
	var closeReporter func() error
	if cfg.ReportEnabled {
		kr := kafkaadapter.NewReporter(cfg, logger)
		reporter = kr
		closeReporter = kr.Close
		logger.Info("kafka run reports enabled", "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("kafka run reports disabled")
	}

	p := pipeline.New(fetcher, renderers, reporter, aliases, cfg.Countries(), logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.CronSchedule == "" {
		os.Exit(runOnce(ctx, p, closeReporter, logger))
	}

	runScheduled(ctx, cfg, p, closeReporter, logger)
}

// runOnce executes a single batch run and maps the result to an exit code:
// 0 for a completed run, 1 for a failed one, 2 when the quality gate blocked.
func runOnce(ctx context.Context, p *pipeline.Pipeline, closeReporter func() error, logger *slog.Logger) int {
	report, err := p.RunOnce(ctx)
	if closeReporter != nil {
		if cerr := closeReporter(); cerr != nil {
			logger.Error("kafka reporter close error", "error", cerr)
		}
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	if report.Status == domain.StatusBlocked {
		return 2
	}
	return 0
}

// runScheduled keeps the service alive, triggering runs from the cron
// schedule and serving health/metrics/status over HTTP until a signal.
func runScheduled(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, closeReporter func() error, logger *slog.Logger) {
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	c := cron.New()
	if _, err := c.AddFunc(cfg.CronSchedule, func() {
		if _, err := p.RunOnce(ctx); err != nil {
			logger.Error("scheduled run failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid CRON_SCHEDULE", "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("scheduler started", "schedule", cfg.CronSchedule)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	select {
	case <-c.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("run still in flight at shutdown deadline")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closeReporter != nil {
		if err := closeReporter(); err != nil {
			logger.Error("kafka reporter close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
