// Package scheduler fires the notification job on a cron schedule when the
// process runs as a daemon.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// parser accepts standard five-field expressions and descriptors such as
// "@daily".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// RunFunc executes one pass.
type RunFunc func(ctx context.Context)

// Scheduler wraps a cron runner with a single entry.
type Scheduler struct {
	spec   string
	loc    *time.Location
	run    RunFunc
	log    *slog.Logger
	parsed cron.Schedule

	mu     sync.Mutex
	c      *cron.Cron
	cancel context.CancelFunc
}

// New validates spec and returns a stopped Scheduler.
func New(spec string, loc *time.Location, run RunFunc, log *slog.Logger) (*Scheduler, error) {
	parsed, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		spec:   spec,
		loc:    loc,
		run:    run,
		log:    log.With("component", "scheduler"),
		parsed: parsed,
	}, nil
}

// Next returns the next activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.parsed.Next(t.In(s.loc))
}

// Start begins firing. Runs that are still going when the next tick
// arrives cause that tick to be skipped.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	logger := cronLogger{log: s.log}
	s.c = cron.New(
		cron.WithParser(parser),
		cron.WithLocation(s.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	s.c.Schedule(s.parsed, cron.FuncJob(func() { s.run(runCtx) }))
	s.c.Start()

	s.log.Info("scheduler started",
		"schedule", s.spec,
		"tz", s.loc.String(),
		"next_run", s.Next(time.Now()),
	)
}

// Stop halts the schedule and waits for a running pass to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c, cancel := s.c, s.cancel
	s.c, s.cancel = nil, nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}

	done := c.Stop().Done()
	select {
	case <-done:
		cancel()
		return nil
	case <-ctx.Done():
		cancel()
		return fmt.Errorf("wait for running job: %w", ctx.Err())
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
