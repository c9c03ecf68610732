package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gimago/cyclenotify/internal/cache"
	"github.com/gimago/cyclenotify/internal/config"
	"github.com/gimago/cyclenotify/internal/handler"
	"github.com/gimago/cyclenotify/internal/job"
	"github.com/gimago/cyclenotify/internal/logging"
	"github.com/gimago/cyclenotify/internal/mail"
	"github.com/gimago/cyclenotify/internal/metrics"
	"github.com/gimago/cyclenotify/internal/notifier"
	"github.com/gimago/cyclenotify/internal/repository"
	"github.com/gimago/cyclenotify/internal/supabase"
)

// dependencies holds the collaborators of one process. Every client is
// built from configuration here; nothing is held in package globals.
type dependencies struct {
	job          *job.Job
	metrics      *metrics.PrometheusRecorder
	loc          *time.Location
	healthChecks map[string]handler.HealthChecker
	closers      []func()
}

// Close releases connections in reverse order of creation.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

type source interface {
	job.UserSource
	job.ItemSource
	handler.HealthChecker
}

func wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	deps := &dependencies{
		metrics:      metrics.NewPrometheus(),
		loc:          loc,
		healthChecks: map[string]handler.HealthChecker{},
	}

	src, err := newSource(ctx, cfg, loc, deps)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.healthChecks[cfg.DataSource] = src

	sender, err := newSender(cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}

	jobCfg := job.Config{
		Users:   src,
		Items:   src,
		Logger:  logger,
		Metrics: deps.metrics,
		Notifier: notifier.New(sender, notifier.Options{
			From:       cfg.MailFrom,
			DetailsURL: cfg.DetailsURL,
			DateLayout: cfg.DateLayout,
			Location:   loc,
		}, logger, deps.metrics),
	}

	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("connect redis %s: %w", logging.RedactURL(cfg.RedisURL), err)
		}
		deps.closers = append(deps.closers, func() { _ = c.Close() })
		deps.healthChecks["redis"] = c

		jobCfg.Locker = c
		jobCfg.LockTTL = cfg.LockTTL
		jobCfg.IsLockHeld = func(err error) bool { return errors.Is(err, cache.ErrLockHeld) }
		logger.Info("run lock enabled", "ttl", cfg.LockTTL)
	}

	deps.job, err = job.New(jobCfg)
	if err != nil {
		deps.Close()
		return nil, err
	}
	logger.Info("notifier configured",
		"env", cfg.AppEnv,
		"data_source", cfg.DataSource,
		"mail_provider", sender.Name(),
		"timezone", loc.String(),
	)
	return deps, nil
}

func newSource(ctx context.Context, cfg *config.Config, loc *time.Location, deps *dependencies) (source, error) {
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres data source")
		}
		repo, err := repository.New(ctx, cfg.DatabaseURL, cfg.ItemsTable, loc)
		if err != nil {
			return nil, fmt.Errorf("connect database %s: %w", logging.RedactURL(cfg.DatabaseURL), err)
		}
		deps.closers = append(deps.closers, repo.Close)
		return repo, nil
	default:
		client, err := supabase.New(supabase.Options{
			URL:           cfg.SupabaseURL,
			ServiceKey:    cfg.SupabaseServiceKey,
			ItemsTable:    cfg.ItemsTable,
			UsersPageSize: cfg.UsersPageSize,
			ItemsPageSize: cfg.ItemsPageSize,
			Location:      loc,
			HTTPClient:    supabase.NewHTTPClient(cfg.HTTPTimeout),
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func newSender(cfg *config.Config) (mail.Sender, error) {
	switch cfg.MailProvider {
	case config.MailProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, errors.New("SMTP_HOST is required for the smtp mail provider")
		}
		return mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}), nil
	case config.MailProviderResend:
		return mail.NewResend(cfg.ResendAPIKey, cfg.ResendBaseURL, supabase.NewHTTPClient(cfg.HTTPTimeout)), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}
