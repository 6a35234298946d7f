package scheduler

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/me/scoop/pkg/model"
)

// Emit receives scheduling events in stream order.
type Emit func(model.Event)

// Engine owns the job queue for one simulation run and drives it to empty
// under FCFS or Round Robin. It never renders or sleeps; callers consume the
// event stream through an Emit callback.
type Engine struct {
	queue  *Queue
	logger *slog.Logger
	clock  int
	seq    int
}

// New validates specs and enqueues one waiting job per spec in input order.
// A negative duration is rejected before any job enters the queue. A nil
// logger falls back to slog.Default.
func New(specs []model.JobSpec, logger *slog.Logger) (*Engine, error) {
	if err := ValidateJobs(specs); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	q := NewQueue(len(specs))
	for i, spec := range specs {
		q.Push(model.NewJob(i, spec))
	}
	return &Engine{
		queue:  q,
		logger: logger.With("component", "scheduler"),
	}, nil
}

// ValidateJobs checks that every duration is non-negative and that the
// durations sum to at most math.MaxInt, the range of the simulated clock.
func ValidateJobs(specs []model.JobSpec) error {
	total := 0
	for i, spec := range specs {
		if spec.Duration < 0 {
			return &model.ConfigError{
				Kind:    model.ErrInvalidDuration,
				Field:   fmt.Sprintf("jobs[%d].duration", i),
				Value:   strconv.Itoa(spec.Duration),
				Message: "must be non-negative",
			}
		}
		if total > math.MaxInt-spec.Duration {
			return &model.ConfigError{
				Kind:    model.ErrInvalidDuration,
				Field:   fmt.Sprintf("jobs[%d].duration", i),
				Value:   strconv.Itoa(spec.Duration),
				Message: "total duration exceeds the simulated clock range",
			}
		}
		total += spec.Duration
	}
	return nil
}

// ValidateQuantum checks that a round-robin quantum is positive.
func ValidateQuantum(quantum int) error {
	if quantum <= 0 {
		return &model.ConfigError{
			Kind:    model.ErrInvalidQuantum,
			Field:   "quantum",
			Value:   strconv.Itoa(quantum),
			Message: "must be positive",
		}
	}
	return nil
}

// Pending returns the jobs still queued, head first.
func (e *Engine) Pending() []model.Job {
	return e.queue.Snapshot()
}

// Clock returns the simulated time consumed so far.
func (e *Engine) Clock() int {
	return e.clock
}

// Run schedules every queued job under mode. quantum is only read for
// Round Robin. Configuration errors are returned before any event is emitted.
func (e *Engine) Run(mode model.Mode, quantum int, emit Emit) error {
	switch mode {
	case model.ModeFCFS:
		return e.RunFCFS(emit)
	case model.ModeRoundRobin:
		return e.RunRoundRobin(quantum, emit)
	}
	return &model.ConfigError{Kind: model.ErrInvalidMode, Field: "mode", Value: mode.String()}
}

// RunFCFS completes jobs strictly in arrival order. It is Round Robin with
// an unbounded quantum: every job fits its first slice.
func (e *Engine) RunFCFS(emit Emit) error {
	return e.run(model.ModeFCFS, math.MaxInt, emit)
}

// RunRoundRobin grants each job at most quantum units per turn. Unfinished
// jobs rejoin the tail of the queue behind every job already waiting.
func (e *Engine) RunRoundRobin(quantum int, emit Emit) error {
	if err := ValidateQuantum(quantum); err != nil {
		return err
	}
	return e.run(model.ModeRoundRobin, quantum, emit)
}

func (e *Engine) run(mode model.Mode, quantum int, emit Emit) error {
	if emit == nil {
		emit = func(model.Event) {}
	}
	log := e.logger.With("mode", mode)
	if mode.NeedsQuantum() {
		log = log.With("quantum", quantum)
	}
	log.Debug("run started", "jobs", e.queue.Len())

	for !e.queue.Empty() {
		j := e.queue.Pop()
		if err := j.Transition(model.JobStateRunning); err != nil {
			return err
		}

		if j.Remaining <= quantum {
			consumed := j.Remaining
			e.emit(emit, model.EventStarted, j, consumed, consumed)
			e.clock += consumed
			j.Remaining = 0
			if err := j.Transition(model.JobStateCompleted); err != nil {
				return err
			}
			e.emit(emit, model.EventCompleted, j, consumed, 0)
			log.Debug("job completed", "job", j.Name, "job_id", j.ID, "clock", e.clock)
			continue
		}

		j.Remaining -= quantum
		e.clock += quantum
		if err := j.Transition(model.JobStateWaiting); err != nil {
			return err
		}
		e.emit(emit, model.EventPreempted, j, j.Remaining, quantum)
		e.queue.Push(j)
	}

	log.Debug("run finished", "events", e.seq, "clock", e.clock)
	return nil
}

func (e *Engine) emit(emit Emit, kind model.EventKind, j *model.Job, t, slice int) {
	e.seq++
	emit(model.Event{
		Seq:   e.seq,
		Kind:  kind,
		JobID: j.ID,
		Job:   j.Name,
		Time:  t,
		Slice: slice,
		Clock: e.clock,
	})
}

// Simulate runs specs under mode and collects the full event stream.
func Simulate(specs []model.JobSpec, mode model.Mode, quantum int, logger *slog.Logger) ([]model.Event, error) {
	eng, err := New(specs, logger)
	if err != nil {
		return nil, err
	}
	var events []model.Event
	if err := eng.Run(mode, quantum, func(ev model.Event) {
		events = append(events, ev)
	}); err != nil {
		return nil, err
	}
	return events, nil
}

// EstimateSlices returns how many processing slices (STARTED or PREEMPTED
// events) a run would produce, saturating at math.MaxInt.
func EstimateSlices(specs []model.JobSpec, mode model.Mode, quantum int) (int, error) {
	if err := ValidateJobs(specs); err != nil {
		return 0, err
	}
	switch mode {
	case model.ModeFCFS:
		return len(specs), nil
	case model.ModeRoundRobin:
		if err := ValidateQuantum(quantum); err != nil {
			return 0, err
		}
	default:
		return 0, &model.ConfigError{Kind: model.ErrInvalidMode, Field: "mode", Value: mode.String()}
	}

	total := 0
	for _, spec := range specs {
		n := 1
		if spec.Duration > quantum {
			n = spec.Duration / quantum
			if spec.Duration%quantum != 0 {
				n++
			}
		}
		if total > math.MaxInt-n {
			return math.MaxInt, nil
		}
		total += n
	}
	return total, nil
}
