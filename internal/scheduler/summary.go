package scheduler

import "github.com/me/scoop/pkg/model"

// Summarize derives run statistics from an event stream produced for specs.
// All jobs are taken to arrive at time zero.
func Summarize(specs []model.JobSpec, events []model.Event) model.Summary {
	stats := make([]model.JobStats, len(specs))
	seen := make([]bool, len(specs))
	for i, spec := range specs {
		stats[i] = model.JobStats{JobID: i, Name: spec.Name, Duration: spec.Duration}
	}

	var sum model.Summary
	lastJob := -1
	for _, ev := range events {
		if ev.Clock > sum.TotalTime {
			sum.TotalTime = ev.Clock
		}
		if ev.JobID < 0 || ev.JobID >= len(stats) {
			continue
		}
		st := &stats[ev.JobID]

		switch ev.Kind {
		case model.EventStarted, model.EventPreempted:
			start := ev.Clock
			if ev.Kind == model.EventPreempted {
				start -= ev.Slice
				sum.Preemptions++
			}
			if !seen[ev.JobID] {
				st.FirstRun = start
				seen[ev.JobID] = true
			}
			st.Slices++
			if lastJob >= 0 && lastJob != ev.JobID {
				sum.ContextSwitches++
			}
			lastJob = ev.JobID
		case model.EventCompleted:
			st.Completion = ev.Clock
			st.Turnaround = ev.Clock
			st.Waiting = st.Turnaround - st.Duration
		}
	}

	if n := len(stats); n > 0 {
		// Summed as floats: per-job clocks fit in an int, their sum may not.
		var wait, turn, resp float64
		for _, st := range stats {
			wait += float64(st.Waiting)
			turn += float64(st.Turnaround)
			resp += float64(st.FirstRun)
		}
		sum.AvgWaitingTime = wait / float64(n)
		sum.AvgTurnaroundTime = turn / float64(n)
		sum.AvgResponseTime = resp / float64(n)
	}
	sum.Jobs = stats
	return sum
}
