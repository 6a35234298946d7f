package model

// JobState represents the lifecycle state of a Job inside one run.
type JobState string

const (
	JobStateWaiting   JobState = "WAITING"
	JobStateRunning   JobState = "RUNNING"
	JobStateCompleted JobState = "COMPLETED"
)

// String returns the string representation of the job state.
func (s JobState) String() string {
	return string(s)
}

// IsTerminal returns true if the job is in a final state.
func (s JobState) IsTerminal() bool {
	return s == JobStateCompleted
}

// ValidJobTransitions defines the allowed state transitions for Jobs.
// RUNNING → WAITING is a round-robin preemption.
var ValidJobTransitions = map[JobState][]JobState{
	JobStateWaiting: {JobStateRunning},
	JobStateRunning: {JobStateCompleted, JobStateWaiting},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s JobState) CanTransitionTo(next JobState) bool {
	for _, allowed := range ValidJobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
