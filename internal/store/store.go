package store

import (
	"context"
	"time"

	"github.com/me/scoop/pkg/model"
)

// Store defines the persistence layer for simulation runs.
type Store interface {
	// Run operations
	CreateRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.Run, int, error)
	DeleteRun(ctx context.Context, id string) error
	PruneRuns(ctx context.Context, cutoff time.Time) (int, error)
	TrimRuns(ctx context.Context, keep int) (int, error)

	// Event operations
	ListEvents(ctx context.Context, runID string) ([]model.Event, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
