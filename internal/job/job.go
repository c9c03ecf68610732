// Package job runs one notification pass: load the user directory and the
// items, evaluate expiry, group per user and send the summaries.
package job

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gimago/cyclenotify/internal/alert"
	"github.com/gimago/cyclenotify/internal/metrics"
	"github.com/gimago/cyclenotify/internal/model"
	"github.com/gimago/cyclenotify/internal/notifier"
)

// UserSource lists every user with their notification email.
type UserSource interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

// ItemSource lists every cycle item.
type ItemSource interface {
	ListItems(ctx context.Context) ([]model.Item, error)
}

// Locker grants an exclusive lease for one run.
type Locker interface {
	AcquireRunLock(ctx context.Context, token string, ttl time.Duration) (func(context.Context) error, error)
}

// ErrLockHeld must be returned by a Locker when another run is active.
// Lockers may wrap their own sentinel; see IsLockHeld.
var ErrLockHeld = errors.New("another run is in progress")

// State is a step of the run.
type State string

const (
	StateStart          State = "start"
	StateDirectoryReady State = "directory-loaded"
	StateItemsReady     State = "items-loaded"
	StateGrouped        State = "grouped"
	StateNotifying      State = "notifying"
	StateDone           State = "done"
	StateSkipped        State = "skipped"
)

// Report describes a finished run.
type Report struct {
	RunID        string
	State        State
	Users        int
	WithEmail    int
	Items        int
	InvalidUsers int
	InvalidItems int
	Grouping     *alert.Grouping
	Notify       *notifier.Report
}

// Config wires a Job.
type Config struct {
	Users    UserSource
	Items    ItemSource
	Notifier *notifier.Notifier
	Logger   *slog.Logger
	Metrics  metrics.Recorder

	// Optional. When set, each run holds a lease for LockTTL.
	Locker     Locker
	LockTTL    time.Duration
	IsLockHeld func(error) bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// Job executes notification runs.
type Job struct {
	cfg Config
}

// New creates a Job. Users, Items and Notifier are required; the other
// fields have defaults.
func New(cfg Config) (*Job, error) {
	var missing []error
	if cfg.Users == nil {
		missing = append(missing, errors.New("job: Users is required"))
	}
	if cfg.Items == nil {
		missing = append(missing, errors.New("job: Items is required"))
	}
	if cfg.Notifier == nil {
		missing = append(missing, errors.New("job: Notifier is required"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	if cfg.IsLockHeld == nil {
		cfg.IsLockHeld = func(err error) bool { return errors.Is(err, ErrLockHeld) }
	}
	cfg.Logger = cfg.Logger.With("component", "job")
	return &Job{cfg: cfg}, nil
}

// Run executes one pass. Fetch failures end the run and are returned as
// *DirectoryFetchError or *ItemFetchError; send failures are reported in
// Report.Notify and do not produce an error.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{RunID: newRunID(), State: StateStart}
	logger := j.cfg.Logger.With("run_id", report.RunID)

	logger.InfoContext(ctx, "starting daily check")
	j.cfg.Metrics.IncRunStarted()

	status := "failed"
	defer func() {
		j.cfg.Metrics.IncRunFinished(status)
		j.cfg.Metrics.ObserveRunDuration(time.Since(started))
	}()

	if j.cfg.Locker != nil {
		release, err := j.cfg.Locker.AcquireRunLock(ctx, report.RunID, j.cfg.LockTTL)
		if err != nil {
			if j.cfg.IsLockHeld(err) {
				logger.InfoContext(ctx, "run already in progress, skipping")
				report.State = StateSkipped
				status = "skipped"
				return report, nil
			}
			logger.ErrorContext(ctx, "failed to acquire run lock", "error", err)
			return report, fmt.Errorf("acquire run lock: %w", err)
		}
		defer func() {
			// The run context may already be done; release on a fresh one.
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := release(rctx); err != nil {
				logger.WarnContext(ctx, "failed to release run lock", "error", err)
			}
		}()
	}

	dir, err := j.loadDirectory(ctx, logger, report)
	if err != nil {
		return report, err
	}
	report.State = StateDirectoryReady

	items, err := j.loadItems(ctx, logger, report)
	if err != nil {
		return report, err
	}
	report.State = StateItemsReady

	grouping := alert.Group(items, dir, j.cfg.Now())
	report.Grouping = grouping
	report.State = StateGrouped

	j.cfg.Metrics.AddItemsSkipped("no_email", grouping.SkippedNoEmail)
	j.cfg.Metrics.SetAlertGroups(len(grouping.Groups))
	j.cfg.Metrics.AddAlertItems(grouping.InWindow)

	logger.InfoContext(ctx, "items grouped",
		"evaluated", grouping.Evaluated,
		"skipped_no_email", grouping.SkippedNoEmail,
		"in_window", grouping.InWindow,
		"users", len(grouping.Groups),
	)

	report.State = StateNotifying
	report.Notify = j.cfg.Notifier.Notify(ctx, grouping.Groups)
	report.State = StateDone

	status = "success"
	logger.InfoContext(ctx, "daily check finished",
		"sent", report.Notify.Sent,
		"failed", report.Notify.Failed,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return report, nil
}

func (j *Job) loadDirectory(ctx context.Context, logger *slog.Logger, report *Report) (model.Directory, error) {
	start := time.Now()
	users, err := j.cfg.Users.ListUsers(ctx)
	j.cfg.Metrics.ObserveFetchDuration("users", time.Since(start))
	if err != nil {
		logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, &DirectoryFetchError{Err: err}
	}
	j.cfg.Metrics.AddRecordsFetched("users", len(users))

	valid := users[:0:0]
	for _, u := range users {
		if err := u.Validate(); err != nil {
			report.InvalidUsers++
			j.cfg.Metrics.IncRecordsInvalid("users")
			logger.WarnContext(ctx, "skipping invalid user", "error", err)
			continue
		}
		valid = append(valid, u)
	}

	dir := alert.BuildDirectory(valid)
	report.Users = len(users)
	report.WithEmail = len(dir)

	logger.InfoContext(ctx, "user directory loaded", "users", len(users), "with_email", len(dir))
	return dir, nil
}

func (j *Job) loadItems(ctx context.Context, logger *slog.Logger, report *Report) ([]model.Item, error) {
	start := time.Now()
	items, err := j.cfg.Items.ListItems(ctx)
	j.cfg.Metrics.ObserveFetchDuration("items", time.Since(start))
	if err != nil {
		logger.ErrorContext(ctx, "failed to list items", "error", err)
		return nil, &ItemFetchError{Err: err}
	}
	j.cfg.Metrics.AddRecordsFetched("items", len(items))

	valid := items[:0:0]
	for _, item := range items {
		if err := item.Validate(); err != nil {
			report.InvalidItems++
			j.cfg.Metrics.IncRecordsInvalid("items")
			logger.WarnContext(ctx, "skipping invalid item", "error", err)
			continue
		}
		valid = append(valid, item)
	}

	report.Items = len(items)
	logger.InfoContext(ctx, "items loaded", "items", len(items), "invalid", report.InvalidItems)
	return valid, nil
}

func newRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
