package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/me/scoop/internal/config"
	"github.com/me/scoop/internal/render"
	"github.com/me/scoop/internal/scheduler"
	"github.com/me/scoop/internal/store"
	"github.com/me/scoop/pkg/model"
	"github.com/spf13/cobra"
)

// simFlags holds the job, mode and pacing flags shared by run and submit.
type simFlags struct {
	configPath string
	flavors    string
	times      string
	mode       string
	quantum    int
	pace       time.Duration
}

func (f *simFlags) register(cmd *cobra.Command, withPace bool) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML simulation file")
	cmd.Flags().StringVar(&f.flavors, "flavors", "", "Comma-separated flavor names, in arrival order")
	cmd.Flags().StringVar(&f.times, "times", "", "Comma-separated production times, one per flavor")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "fcfs", "Scheduling mode: fcfs or rr (round-robin)")
	cmd.Flags().IntVarP(&f.quantum, "quantum", "q", 0, "Round Robin time quantum")
	if withPace {
		cmd.Flags().DurationVar(&f.pace, "pace", 0, "Wall-clock delay per simulated time unit, e.g. 1s (0 prints immediately)")
	}
}

// plan merges the simulation file (if any) with explicitly set flags. Flags win.
func (f *simFlags) plan(cmd *cobra.Command) (*config.Plan, error) {
	sim := &config.Simulation{}
	if f.configPath != "" {
		loaded, err := config.LoadSimulation(f.configPath)
		if err != nil {
			return nil, err
		}
		sim = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("flavors") || flags.Changed("times") {
		sim.Jobs = nil
		sim.Flavors = config.SplitList(f.flavors)
		sim.Times = config.SplitList(f.times)
	}
	if flags.Changed("mode") || sim.Mode == "" {
		sim.Mode = f.mode
	}
	if flags.Changed("quantum") {
		sim.Quantum = f.quantum
	}
	if flags.Lookup("pace") != nil && flags.Changed("pace") {
		sim.Pace = f.pace
	}
	return sim.Plan()
}

func newRenderer(w io.Writer, output string, pace time.Duration) (render.Renderer, error) {
	switch output {
	case "", "text":
		return render.NewConsole(w, pace), nil
	case "json":
		return render.NewJSONLines(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text or json)", output)
}

// simulate runs plan locally, rendering each event as it is produced.
// Every configuration error is returned before anything is rendered.
func simulate(ctx context.Context, plan *config.Plan, r render.Renderer, withSummary bool) (*model.Run, error) {
	if err := scheduler.ValidateJobs(plan.Jobs); err != nil {
		return nil, err
	}
	quantum := plan.Quantum
	if !plan.Mode.NeedsQuantum() {
		quantum = 0
	}

	if err := r.Begin(plan.Mode, quantum); err != nil {
		return nil, err
	}
	sink := render.NewSink(ctx, r)
	run, err := scheduler.Execute(plan.Jobs, plan.Mode, quantum, logger, sink.Emit)
	if err != nil {
		return nil, err
	}
	if err := sink.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, errors.New("simulation interrupted")
		}
		return nil, fmt.Errorf("render: %w", err)
	}

	var sum *model.Summary
	if withSummary {
		sum = &run.Summary
	}
	if err := r.End(sum); err != nil {
		return nil, err
	}
	return run, nil
}

// openStore opens and migrates the local run history database.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	if flagDB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(flagDB), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(flagDB), err)
		}
	}
	st, err := store.NewSQLiteStore(flagDB, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate %s: %w", flagDB, err)
	}
	return st, nil
}

// saveRun records run in the local history database.
func saveRun(cmd *cobra.Command, run *model.Run) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.CreateRun(cmd.Context(), run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Debug("run saved", "id", run.ID, "db", flagDB)
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s\n", run.ID)
	return nil
}

// writeRunTable prints one line per run.
func writeRunTable(w io.Writer, runs []*model.Run, pg *model.Pagination) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return
	}

	fmt.Fprintf(w, "%-40s  %-11s  %7s  %4s  %5s  %-20s  %s\n", "ID", "MODE", "QUANTUM", "JOBS", "TOTAL", "CREATED", "LABEL")
	fmt.Fprintf(w, "%-40s  %-11s  %7s  %4s  %5s  %-20s  %s\n", "--", "----", "-------", "----", "-----", "-------", "-----")
	for _, run := range runs {
		quantum := "-"
		if run.Mode.NeedsQuantum() {
			quantum = fmt.Sprint(run.Quantum)
		}
		fmt.Fprintf(w, "%-40s  %-11s  %7s  %4d  %5d  %-20s  %s\n",
			run.ID, run.Mode, quantum, len(run.Jobs), run.Summary.TotalTime,
			run.CreatedAt.Format(time.DateTime), run.Label)
	}

	if pg != nil && pg.HasMore {
		fmt.Fprintf(w, "\n(%d of %d shown)\n", len(runs), pg.Total)
	}
}
