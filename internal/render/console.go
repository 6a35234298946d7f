package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/me/scoop/pkg/model"
)

// Console prints production banners. With a non-zero unit it paces output,
// sleeping unit per simulated time unit consumed.
type Console struct {
	w     io.Writer
	unit  time.Duration
	sleep Sleeper
}

// NewConsole creates a console renderer writing to w.
func NewConsole(w io.Writer, unit time.Duration) *Console {
	return &Console{w: w, unit: unit, sleep: Sleep}
}

// WithSleeper replaces the wall-clock sleeper (tests use a recorder).
func (c *Console) WithSleeper(s Sleeper) *Console {
	c.sleep = s
	return c
}

func (c *Console) Begin(mode model.Mode, quantum int) error {
	if mode.NeedsQuantum() {
		_, err := fmt.Fprintf(c.w, "Starting ice cream production simulation with %s scheduling (quantum %d):\n\n", mode.DisplayName(), quantum)
		return err
	}
	_, err := fmt.Fprintf(c.w, "Starting ice cream production simulation with %s scheduling:\n\n", mode.DisplayName())
	return err
}

// Event prints ev. A STARTED banner is shown before its slice elapses; a
// PREEMPTED banner after, so the time left it reports is already true.
func (c *Console) Event(ctx context.Context, ev model.Event) error {
	switch ev.Kind {
	case model.EventStarted:
		if _, err := fmt.Fprintf(c.w, "  Producing %s ice cream... (%d %s)\n", ev.Job, ev.Time, units(ev.Time)); err != nil {
			return err
		}
		return c.pace(ctx, ev.Slice)
	case model.EventPreempted:
		if err := c.pace(ctx, ev.Slice); err != nil {
			return err
		}
		_, err := fmt.Fprintf(c.w, "  Producing %s ice cream (time left: %d %s)\n", ev.Job, ev.Time, units(ev.Time))
		return err
	case model.EventCompleted:
		_, err := fmt.Fprintf(c.w, "  %s ice cream production complete!\n", ev.Job)
		return err
	}
	return fmt.Errorf("unknown event kind %q", ev.Kind)
}

func (c *Console) End(summary *model.Summary) error {
	if _, err := fmt.Fprintln(c.w, "\nProduction simulation completed."); err != nil {
		return err
	}
	if summary == nil {
		return nil
	}
	return WriteSummary(c.w, summary)
}

func (c *Console) pace(ctx context.Context, slice int) error {
	if c.unit <= 0 || slice <= 0 {
		return nil
	}
	return c.sleep(ctx, time.Duration(slice)*c.unit)
}

// WriteSummary prints per-job timing and run averages as a fixed-width table.
func WriteSummary(w io.Writer, s *model.Summary) error {
	if _, err := fmt.Fprintf(w, "\n%-4s  %-20s  %8s  %9s  %10s  %10s  %7s  %6s\n",
		"ID", "FLAVOR", "DURATION", "FIRST RUN", "COMPLETION", "TURNAROUND", "WAITING", "SLICES"); err != nil {
		return err
	}
	for _, j := range s.Jobs {
		if _, err := fmt.Fprintf(w, "%-4d  %-20s  %8d  %9d  %10d  %10d  %7d  %6d\n",
			j.JobID, j.Name, j.Duration, j.FirstRun, j.Completion, j.Turnaround, j.Waiting, j.Slices); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal time: %d  Preemptions: %d  Context switches: %d\nAvg waiting: %.2f  Avg turnaround: %.2f  Avg response: %.2f\n",
		s.TotalTime, s.Preemptions, s.ContextSwitches, s.AvgWaitingTime, s.AvgTurnaroundTime, s.AvgResponseTime)
	return err
}

func units(n int) string {
	if n == 1 {
		return "second"
	}
	return "seconds"
}
