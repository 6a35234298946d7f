package model

import "time"

// Run is one completed simulation together with its event stream.
type Run struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Mode      Mode      `json:"mode"`
	Quantum   int       `json:"quantum,omitempty"`
	Jobs      []JobSpec `json:"jobs"`
	Events    []Event   `json:"events,omitempty"`
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary holds statistics derived from a run's event stream. Every job
// arrives at time zero.
type Summary struct {
	TotalTime         int        `json:"total_time"`
	Preemptions       int        `json:"preemptions"`
	ContextSwitches   int        `json:"context_switches"`
	AvgWaitingTime    float64    `json:"avg_waiting_time"`
	AvgTurnaroundTime float64    `json:"avg_turnaround_time"`
	AvgResponseTime   float64    `json:"avg_response_time"`
	Jobs              []JobStats `json:"jobs"`
}

// JobStats holds per-job timing for a run.
type JobStats struct {
	JobID      int    `json:"job_id"`
	Name       string `json:"name"`
	Duration   int    `json:"duration"`
	FirstRun   int    `json:"first_run"`
	Completion int    `json:"completion"`
	Turnaround int    `json:"turnaround"`
	Waiting    int    `json:"waiting"`
	Slices     int    `json:"slices"`
}
