// Package main is the entrypoint for the cycle item expiry notifier.
//
// Without SCHEDULE it performs one run and exits, for use under an external
// scheduler. With SCHEDULE it stays up, runs on the cron expression and
// serves /healthz, /readyz, /status and /metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gimago/cyclenotify/internal/config"
	"github.com/gimago/cyclenotify/internal/handler"
	"github.com/gimago/cyclenotify/internal/job"
	"github.com/gimago/cyclenotify/internal/logging"
	"github.com/gimago/cyclenotify/internal/scheduler"
	"github.com/gimago/cyclenotify/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := wire(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", logging.SanitizeError(err, cfg.DatabaseURL, cfg.RedisURL))
		os.Exit(1)
	}
	defer deps.Close()

	if !cfg.IsDaemon() {
		runOnce(ctx, cfg, deps, logger)
		return
	}

	if err := runDaemon(ctx, cfg, deps, logger); err != nil {
		logger.Error("daemon stopped with error", "error", err)
		os.Exit(1)
	}
}

// runOnce performs a single pass. Fetch failures are logged by the job and
// do not change the exit status.
func runOnce(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) {
	report, err := deps.job.Run(ctx)
	logRunOutcome(logger, report, err)

	if cfg.PushgatewayURL == "" {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := deps.metrics.Push(pctx, cfg.PushgatewayURL, "cyclenotify"); err != nil {
		logger.Warn("failed to push metrics", "error", err)
	}
}

func runDaemon(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) error {
	status := handler.NewStatusHandler()

	sched, err := scheduler.New(cfg.Schedule, deps.loc, func(ctx context.Context) {
		report, err := deps.job.Run(ctx)
		logRunOutcome(logger, report, err)
		status.Record(report, err, time.Now())
	}, logger)
	if err != nil {
		return err
	}

	router := handler.NewRouter(
		handler.NewHealthHandler(deps.healthChecks),
		status,
		deps.metrics.Handler(),
		logger,
	)
	srv := server.New(router, cfg.AppPort, cfg.ReadTimeout, cfg.WriteTimeout, cfg.ShutdownTimeout, logger)

	// Waits for an in-flight run after the HTTP server has stopped.
	srv.OnShutdown("scheduler", sched.Stop)

	sched.Start(ctx)
	return srv.Run(ctx)
}

// logRunOutcome records which stage stopped a failed run. The job itself
// logs the underlying error.
func logRunOutcome(logger *slog.Logger, report *job.Report, err error) {
	if err == nil {
		return
	}

	stage := "lock"
	var dirErr *job.DirectoryFetchError
	var itemErr *job.ItemFetchError
	switch {
	case errors.As(err, &dirErr):
		stage = "directory"
	case errors.As(err, &itemErr):
		stage = "items"
	}

	attrs := []any{"stage", stage}
	if report != nil {
		attrs = append(attrs, "run_id", report.RunID, "state", report.State)
	}
	logger.Error("run aborted", attrs...)
}
