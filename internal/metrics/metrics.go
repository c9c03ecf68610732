// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for a notification run.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Run lifecycle
	IncRunStarted()
	IncRunFinished(status string) // status: "success", "failed", "skipped"
	ObserveRunDuration(duration time.Duration)

	// Upstream fetches
	ObserveFetchDuration(source string, duration time.Duration) // source: "users", "items"
	AddRecordsFetched(source string, n int)
	IncRecordsInvalid(source string)

	// Alerting
	AddItemsSkipped(reason string, n int) // reason: "no_email"
	SetAlertGroups(n int)
	AddAlertItems(n int)

	// Delivery
	IncEmailSent(status string) // status: "success", "failed"
	ObserveSendDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
