// Package render turns a scheduling event stream into output for people or
// programs. Pacing lives here, never in the scheduler.
package render

import (
	"context"
	"time"

	"github.com/me/scoop/pkg/model"
)

// Renderer consumes one run's event stream.
type Renderer interface {
	Begin(mode model.Mode, quantum int) error
	Event(ctx context.Context, ev model.Event) error
	End(summary *model.Summary) error
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the wall-clock Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Sink adapts a Renderer to the scheduler's emit callback. The first render
// error is kept and later events are dropped.
type Sink struct {
	ctx context.Context
	r   Renderer
	err error
}

// NewSink creates a Sink rendering to r.
func NewSink(ctx context.Context, r Renderer) *Sink {
	return &Sink{ctx: ctx, r: r}
}

// Emit renders ev unless an earlier event failed.
func (s *Sink) Emit(ev model.Event) {
	if s.err != nil {
		return
	}
	s.err = s.r.Event(s.ctx, ev)
}

// Err returns the first render error, if any.
func (s *Sink) Err() error {
	return s.err
}

// Replay renders a recorded run from start to finish.
func Replay(ctx context.Context, r Renderer, run *model.Run, withSummary bool) error {
	if err := r.Begin(run.Mode, run.Quantum); err != nil {
		return err
	}
	for _, ev := range run.Events {
		if err := r.Event(ctx, ev); err != nil {
			return err
		}
	}
	var sum *model.Summary
	if withSummary {
		sum = &run.Summary
	}
	return r.End(sum)
}
