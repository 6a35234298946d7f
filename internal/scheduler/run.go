package scheduler

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/me/scoop/pkg/model"
)

// Execute runs a simulation and records it as a Run. Each event is also
// forwarded to emit, which may be nil.
func Execute(specs []model.JobSpec, mode model.Mode, quantum int, logger *slog.Logger, emit Emit) (*model.Run, error) {
	eng, err := New(specs, logger)
	if err != nil {
		return nil, err
	}
	if !mode.NeedsQuantum() {
		quantum = 0
	}

	var events []model.Event
	err = eng.Run(mode, quantum, func(ev model.Event) {
		events = append(events, ev)
		if emit != nil {
			emit(ev)
		}
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]model.JobSpec, len(specs))
	copy(jobs, specs)
	return &model.Run{
		ID:        "run_" + uuid.New().String(),
		Mode:      mode,
		Quantum:   quantum,
		Jobs:      jobs,
		Events:    events,
		Summary:   Summarize(jobs, events),
		CreatedAt: time.Now().UTC(),
	}, nil
}
