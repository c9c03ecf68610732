// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Data sources.
const (
	DataSourceSupabase = "supabase"
	DataSourcePostgres = "postgres"
)

// Mail providers.
const (
	MailProviderResend = "resend"
	MailProviderSMTP   = "smtp"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"production"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Where users and items are read from: "supabase" (REST) or "postgres" (direct).
	DataSource string `env:"DATA_SOURCE" envDefault:"supabase"`

	// Supabase REST endpoints. The service role key is required to list
	// users across tenants.
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_KEY"`

	// Direct database access (DATA_SOURCE=postgres)
	DatabaseURL string `env:"DATABASE_URL"`

	ItemsTable    string        `env:"ITEMS_TABLE" envDefault:"cycle_items"`
	UsersPageSize int           `env:"USERS_PAGE_SIZE" envDefault:"200"`
	ItemsPageSize int           `env:"ITEMS_PAGE_SIZE" envDefault:"1000"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Mail delivery
	MailProvider  string `env:"MAIL_PROVIDER" envDefault:"resend"`
	MailFrom      string `env:"MAIL_FROM" envDefault:"Cycle <notify@gimago.cn>"`
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	ResendBaseURL string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser      string `env:"SMTP_USER"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`

	// Message content
	DetailsURL string `env:"DETAILS_URL" envDefault:"https://tools.gimago.cn/cycle"`
	DateLayout string `env:"DATE_LAYOUT" envDefault:"2006/1/2"`
	Timezone   string `env:"TIMEZONE" envDefault:"UTC"`

	// Daemon mode. Empty SCHEDULE means run once and exit.
	Schedule string `env:"SCHEDULE"`

	// Optional Redis lease preventing overlapping runs.
	RedisURL string        `env:"REDIS_URL"`
	LockTTL  time.Duration `env:"LOCK_TTL" envDefault:"10m"`

	// Optional Prometheus Pushgateway for single-shot runs.
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`

	// Ops server timeouts (daemon mode)
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDaemon returns true if the job runs on an internal schedule.
func (c *Config) IsDaemon() bool {
	return strings.TrimSpace(c.Schedule) != ""
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks enum values and sizes. Credentials are not checked here;
// a missing key surfaces as an authentication failure on first use.
func (c *Config) Validate() error {
	var errs []error

	switch c.DataSource {
	case DataSourceSupabase, DataSourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource))
	}

	switch c.MailProvider {
	case MailProviderResend, MailProviderSMTP:
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_PROVIDER %q", c.MailProvider))
	}

	if c.UsersPageSize <= 0 {
		errs = append(errs, errors.New("USERS_PAGE_SIZE must be positive"))
	}
	if c.ItemsPageSize <= 0 {
		errs = append(errs, errors.New("ITEMS_PAGE_SIZE must be positive"))
	}
	if strings.TrimSpace(c.ItemsTable) == "" {
		errs = append(errs, errors.New("ITEMS_TABLE must not be empty"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
