// Package retention bounds the size of the run history by periodically
// deleting old runs.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store is the subset of the run store the pruner needs.
type Store interface {
	PruneRuns(ctx context.Context, cutoff time.Time) (int, error)
	TrimRuns(ctx context.Context, keep int) (int, error)
}

// Config holds retention configuration. A zero MaxAge or MaxRuns disables
// that rule.
type Config struct {
	Interval time.Duration
	MaxAge   time.Duration
	MaxRuns  int
}

// DefaultConfig returns sensible defaults: check hourly, keep everything.
func DefaultConfig() Config {
	return Config{Interval: time.Hour}
}

// Enabled reports whether any retention rule is set.
func (c Config) Enabled() bool {
	return c.MaxAge > 0 || c.MaxRuns > 0
}

// Pruner deletes runs that fall outside the retention rules on a fixed interval.
type Pruner struct {
	store  Store
	config Config
	logger *slog.Logger
	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a new Pruner.
func New(st Store, cfg Config, logger *slog.Logger) *Pruner {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Pruner{
		store:  st,
		config: cfg,
		logger: logger.With("component", "retention"),
		now:    time.Now,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start runs a tick immediately and then once per interval. Blocks until ctx
// is cancelled or Stop is called.
func (p *Pruner) Start(ctx context.Context) error {
	p.logger.Info("retention started",
		"interval", p.config.Interval, "max_age", p.config.MaxAge, "max_runs", p.config.MaxRuns)
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		if err := p.Tick(ctx); err != nil {
			p.logger.Error("tick error", "error", err)
		}
		select {
		case <-ctx.Done():
			p.logger.Info("retention stopping (context cancelled)")
			return ctx.Err()
		case <-p.stopCh:
			p.logger.Info("retention stopping (stop called)")
			return nil
		case <-ticker.C:
		}
	}
}

// Stop shuts down the pruner and waits for the current tick to finish.
// It must only be called after Start.
func (p *Pruner) Stop() error {
	close(p.stopCh)
	<-p.doneCh
	return nil
}

// Tick applies the retention rules once.
func (p *Pruner) Tick(ctx context.Context) error {
	if p.config.MaxAge > 0 {
		cutoff := p.now().Add(-p.config.MaxAge)
		n, err := p.store.PruneRuns(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune by age: %w", err)
		}
		if n > 0 {
			p.logger.Info("pruned runs", "count", n, "before", cutoff.UTC())
		}
	}

	if p.config.MaxRuns > 0 {
		n, err := p.store.TrimRuns(ctx, p.config.MaxRuns)
		if err != nil {
			return fmt.Errorf("trim by count: %w", err)
		}
		if n > 0 {
			p.logger.Info("trimmed runs", "count", n, "keep", p.config.MaxRuns)
		}
	}
	return nil
}
