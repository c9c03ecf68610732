package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RunsStarted    uint64
	RunsFinished   map[string]uint64
	RecordsFetched map[string]uint64
	RecordsInvalid map[string]uint64
	ItemsSkipped   map[string]uint64
	AlertGroups    int64
	AlertItems     uint64
	EmailsSent     uint64
	EmailsFailed   uint64
	SendCount      uint64
	FetchCount     map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{snap: Snapshot{
		RunsFinished:   make(map[string]uint64),
		RecordsFetched: make(map[string]uint64),
		RecordsInvalid: make(map[string]uint64),
		ItemsSkipped:   make(map[string]uint64),
		FetchCount:     make(map[string]uint64),
	}}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.snap
	out.RunsFinished = copyMap(m.snap.RunsFinished)
	out.RecordsFetched = copyMap(m.snap.RecordsFetched)
	out.RecordsInvalid = copyMap(m.snap.RecordsInvalid)
	out.ItemsSkipped = copyMap(m.snap.ItemsSkipped)
	out.FetchCount = copyMap(m.snap.FetchCount)
	return out
}

func copyMap(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *InMemoryRecorder) IncRunStarted() {
	m.mu.Lock()
	m.snap.RunsStarted++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncRunFinished(status string) {
	m.mu.Lock()
	m.snap.RunsFinished[status]++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) ObserveRunDuration(time.Duration) {}

func (m *InMemoryRecorder) ObserveFetchDuration(source string, _ time.Duration) {
	m.mu.Lock()
	m.snap.FetchCount[source]++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) AddRecordsFetched(source string, n int) {
	m.mu.Lock()
	m.snap.RecordsFetched[source] += uint64(n)
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncRecordsInvalid(source string) {
	m.mu.Lock()
	m.snap.RecordsInvalid[source]++
	m.mu.Unlock()
}

func (m *InMemoryRecorder) AddItemsSkipped(reason string, n int) {
	m.mu.Lock()
	m.snap.ItemsSkipped[reason] += uint64(n)
	m.mu.Unlock()
}

func (m *InMemoryRecorder) SetAlertGroups(n int) {
	m.mu.Lock()
	m.snap.AlertGroups = int64(n)
	m.mu.Unlock()
}

func (m *InMemoryRecorder) AddAlertItems(n int) {
	m.mu.Lock()
	m.snap.AlertItems += uint64(n)
	m.mu.Unlock()
}

func (m *InMemoryRecorder) IncEmailSent(status string) {
	m.mu.Lock()
	if status == "success" {
		m.snap.EmailsSent++
	} else {
		m.snap.EmailsFailed++
	}
	m.mu.Unlock()
}

func (m *InMemoryRecorder) ObserveSendDuration(time.Duration) {
	m.mu.Lock()
	m.snap.SendCount++
	m.mu.Unlock()
}
