package model

import "strconv"

// JobSpec is one (name, duration) input pair supplied before scheduling.
type JobSpec struct {
	Name     string `json:"name" yaml:"name"`
	Duration int    `json:"duration" yaml:"duration"`
}

// Job is a schedulable unit of simulated work.
type Job struct {
	// ID is the zero-based arrival position. Names may repeat; IDs do not.
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Duration  int      `json:"duration"`
	Remaining int      `json:"remaining"`
	State     JobState `json:"state"`
}

// NewJob creates a waiting job from its spec.
func NewJob(id int, spec JobSpec) *Job {
	return &Job{
		ID:        id,
		Name:      spec.Name,
		Duration:  spec.Duration,
		Remaining: spec.Duration,
		State:     JobStateWaiting,
	}
}

// Transition moves the job to next, rejecting moves the state machine forbids.
func (j *Job) Transition(next JobState) error {
	if !j.State.CanTransitionTo(next) {
		return &InvalidTransitionError{
			Entity: "Job",
			ID:     strconv.Itoa(j.ID),
			From:   j.State.String(),
			To:     next.String(),
		}
	}
	j.State = next
	return nil
}
