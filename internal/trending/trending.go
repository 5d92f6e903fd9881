package trending

import (
	"errors"
	"time"
)

// ErrRefreshFailed is returned when the procedure reports failure without an error.
var ErrRefreshFailed = errors.New("trend refresh reported failure")

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Trigger sources recorded on each run.
const (
	SourceCron     = "cron"
	SourceAdmin    = "admin"
	SourceSchedule = "schedule"
	SourceCLI      = "cli"
)

// State is the trigger state machine: Idle -> Requesting -> Idle.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
)

// Result is what the remote procedure reports.
type Result struct {
	Success       bool `json:"success"`
	AffectedCount *int `json:"affected_count,omitempty"`
}

// Run is one recorded refresh.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	AffectedCount *int       `json:"affected_count,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// Outcome is returned to every caller of Trigger.
type Outcome struct {
	RunID  string `json:"run_id"`
	Result Result `json:"result"`
	// Coalesced is true when the caller joined a refresh started by someone else.
	Coalesced bool `json:"coalesced"`
}

// Status is a point-in-time view of the trigger.
type Status struct {
	State   State `json:"state"`
	Waiting int   `json:"waiting"`
	LastRun *Run  `json:"last_run,omitempty"`
}
