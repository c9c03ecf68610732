// Package notifier sends one alert summary per user group.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gimago/cyclenotify/internal/mail"
	"github.com/gimago/cyclenotify/internal/metrics"
	"github.com/gimago/cyclenotify/internal/model"
)

// SendError records a failed delivery to one recipient.
type SendError struct {
	UserID string
	Email  string
	Err    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send to %s: %v", e.Email, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Report summarises a notification pass.
type Report struct {
	Groups   int
	Sent     int
	Failed   int
	Failures []*SendError
}

// Options configures message content.
type Options struct {
	From       string
	DetailsURL string
	DateLayout string
	Location   *time.Location
}

// Notifier renders and dispatches alert emails.
type Notifier struct {
	sender  mail.Sender
	opts    Options
	logger  *slog.Logger
	metrics metrics.Recorder
}

// New creates a Notifier.
func New(sender mail.Sender, opts Options, logger *slog.Logger, recorder metrics.Recorder) *Notifier {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		sender:  sender,
		opts:    opts,
		logger:  logger.With("component", "notifier"),
		metrics: recorder,
	}
}

// Compose builds the message for one group.
func (n *Notifier) Compose(group model.AlertGroup) (mail.Message, error) {
	body, err := mail.RenderAlert(mail.NewAlertParams(group, n.opts.DetailsURL, n.opts.DateLayout, n.opts.Location))
	if err != nil {
		return mail.Message{}, fmt.Errorf("render alert: %w", err)
	}
	return mail.Message{
		From:    n.opts.From,
		To:      []string{group.Email},
		Subject: mail.AlertSubject(len(group.Items)),
		HTML:    body,
	}, nil
}

// Notify sends each group in order, one at a time. A failed recipient is
// logged and recorded in the report; the remaining groups are still sent.
func (n *Notifier) Notify(ctx context.Context, groups []model.AlertGroup) *Report {
	report := &Report{Groups: len(groups)}

	if len(groups) == 0 {
		n.logger.InfoContext(ctx, "no users to notify")
		return report
	}

	n.logger.InfoContext(ctx, "sending alerts", "users", len(groups), "provider", n.sender.Name())

	for _, group := range groups {
		if err := n.send(ctx, group); err != nil {
			sendErr := &SendError{UserID: group.UserID, Email: group.Email, Err: err}
			report.Failed++
			report.Failures = append(report.Failures, sendErr)
			n.metrics.IncEmailSent("failed")
			n.logger.ErrorContext(ctx, "alert send failed",
				"user_id", group.UserID,
				"email", group.Email,
				"error", err,
			)
			continue
		}

		report.Sent++
		n.metrics.IncEmailSent("success")
		n.logger.InfoContext(ctx, "alert sent",
			"user_id", group.UserID,
			"email", group.Email,
			"items", len(group.Items),
		)
	}

	return report
}

func (n *Notifier) send(ctx context.Context, group model.AlertGroup) error {
	msg, err := n.Compose(group)
	if err != nil {
		return err
	}

	start := time.Now()
	err = n.sender.Send(ctx, msg)
	n.metrics.ObserveSendDuration(time.Since(start))
	return err
}
