package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncRunStarted()                                             {}
func (n *NoopRecorder) IncRunFinished(status string)                               {}
func (n *NoopRecorder) ObserveRunDuration(duration time.Duration)                  {}
func (n *NoopRecorder) ObserveFetchDuration(source string, duration time.Duration) {}
func (n *NoopRecorder) AddRecordsFetched(source string, count int)                 {}
func (n *NoopRecorder) IncRecordsInvalid(source string)                            {}
func (n *NoopRecorder) AddItemsSkipped(reason string, count int)                   {}
func (n *NoopRecorder) SetAlertGroups(count int)                                   {}
func (n *NoopRecorder) AddAlertItems(count int)                                    {}
func (n *NoopRecorder) IncEmailSent(status string)                                 {}
func (n *NoopRecorder) ObserveSendDuration(duration time.Duration)                 {}
