package scheduler

import (
	"testing"

	"github.com/me/scoop/pkg/model"
)

func TestSummarize_RoundRobin(t *testing.T) {
	specs := []model.JobSpec{{Name: "vanilla", Duration: 4}, {Name: "chocolate", Duration: 3}}
	events := mustSimulate(t, specs, model.ModeRoundRobin, 2)
	sum := Summarize(specs, events)

	if sum.TotalTime != 7 {
		t.Errorf("TotalTime = %d, want 7", sum.TotalTime)
	}
	if sum.Preemptions != 2 {
		t.Errorf("Preemptions = %d, want 2", sum.Preemptions)
	}
	if sum.ContextSwitches != 3 {
		t.Errorf("ContextSwitches = %d, want 3", sum.ContextSwitches)
	}

	want := []model.JobStats{
		{JobID: 0, Name: "vanilla", Duration: 4, FirstRun: 0, Completion: 6, Turnaround: 6, Waiting: 2, Slices: 2},
		{JobID: 1, Name: "chocolate", Duration: 3, FirstRun: 2, Completion: 7, Turnaround: 7, Waiting: 4, Slices: 2},
	}
	for i, w := range want {
		if sum.Jobs[i] != w {
			t.Errorf("Jobs[%d] = %+v, want %+v", i, sum.Jobs[i], w)
		}
	}
	if sum.AvgWaitingTime != 3 || sum.AvgTurnaroundTime != 6.5 || sum.AvgResponseTime != 1 {
		t.Errorf("averages = %v/%v/%v, want 3/6.5/1", sum.AvgWaitingTime, sum.AvgTurnaroundTime, sum.AvgResponseTime)
	}
}

func TestSummarize_FCFS(t *testing.T) {
	specs := []model.JobSpec{{Name: "vanilla", Duration: 4}, {Name: "chocolate", Duration: 2}}
	sum := Summarize(specs, mustSimulate(t, specs, model.ModeFCFS, 0))

	if sum.TotalTime != 6 || sum.Preemptions != 0 || sum.ContextSwitches != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Jobs[1].FirstRun != 4 || sum.Jobs[1].Waiting != 4 {
		t.Errorf("chocolate stats = %+v", sum.Jobs[1])
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil, nil)
	if sum.TotalTime != 0 || len(sum.Jobs) != 0 || sum.AvgWaitingTime != 0 {
		t.Errorf("summary = %+v, want zero", sum)
	}
}
