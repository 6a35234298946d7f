package model

import (
	"errors"
	"testing"
)

func TestNewJob(t *testing.T) {
	j := NewJob(2, JobSpec{Name: "vanilla", Duration: 4})
	if j.ID != 2 || j.Name != "vanilla" || j.Duration != 4 || j.Remaining != 4 {
		t.Errorf("NewJob = %+v", j)
	}
	if j.State != JobStateWaiting {
		t.Errorf("State = %q, want WAITING", j.State)
	}
}

func TestJob_Transition(t *testing.T) {
	j := NewJob(0, JobSpec{Name: "mint", Duration: 1})
	for _, next := range []JobState{JobStateRunning, JobStateWaiting, JobStateRunning, JobStateCompleted} {
		if err := j.Transition(next); err != nil {
			t.Fatalf("Transition(%s): %v", next, err)
		}
	}

	err := j.Transition(JobStateWaiting)
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("Transition from COMPLETED: error = %v, want InvalidTransitionError", err)
	}
	if ite.From != "COMPLETED" || ite.To != "WAITING" || ite.ID != "0" {
		t.Errorf("InvalidTransitionError = %+v", ite)
	}
	if j.State != JobStateCompleted {
		t.Errorf("State = %q after rejected transition, want COMPLETED", j.State)
	}
}
