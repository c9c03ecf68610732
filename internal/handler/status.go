package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gimago/cyclenotify/internal/job"
)

// RunSummary is the JSON view of the last finished run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	State      string    `json:"state"`
	FinishedAt time.Time `json:"finished_at"`
	Users      int       `json:"users"`
	Items      int       `json:"items"`
	Groups     int       `json:"groups"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
}

// StatusHandler remembers the outcome of the most recent run.
type StatusHandler struct {
	mu   sync.RWMutex
	last *RunSummary
}

// NewStatusHandler creates an empty StatusHandler.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// Record stores the outcome of a run.
func (h *StatusHandler) Record(report *job.Report, err error, finished time.Time) {
	s := &RunSummary{FinishedAt: finished}
	if report != nil {
		s.RunID = report.RunID
		s.State = string(report.State)
		s.Users = report.Users
		s.Items = report.Items
		if report.Notify != nil {
			s.Groups = report.Notify.Groups
			s.Sent = report.Notify.Sent
			s.Failed = report.Notify.Failed
		}
	}
	if err != nil {
		s.Error = err.Error()
	}

	h.mu.Lock()
	h.last = s
	h.mu.Unlock()
}

// Status returns the last run summary, or 204 before the first run.
//
// GET /status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	last := h.last
	h.mu.RUnlock()

	if last == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, last)
}
