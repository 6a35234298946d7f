package model

import "fmt"

// EventKind identifies the lifecycle step an Event reports.
type EventKind string

const (
	EventStarted   EventKind = "STARTED"
	EventPreempted EventKind = "PREEMPTED"
	EventCompleted EventKind = "COMPLETED"
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	return string(k)
}

// Event is one unit of scheduling progress.
type Event struct {
	Seq   int       `json:"seq"`
	Kind  EventKind `json:"kind"`
	JobID int       `json:"job_id"`
	Job   string    `json:"job"`

	// Time is the time consumed for STARTED and COMPLETED, and the time
	// still remaining after the slice for PREEMPTED.
	Time int `json:"time"`

	// Slice is the number of time units this step consumed: the full
	// remaining time for STARTED, the quantum for PREEMPTED, zero for
	// COMPLETED.
	Slice int `json:"slice"`

	// Clock is the simulated time of the event. STARTED is stamped at the
	// beginning of its slice, PREEMPTED and COMPLETED at the end.
	Clock int `json:"clock"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s,%d)", e.Kind, e.Job, e.Time)
}
