package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var sf simFlags
	var output string
	var summary bool
	var save bool
	var label string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate ice cream production locally",
		Long: `Simulate production of the given flavors under FCFS or Round Robin
scheduling and print each production step.

Jobs come from --flavors/--times or from a YAML file given with --config;
flags override values from the file.`,
		Example: `  scoop run --flavors vanilla,chocolate --times 4,3
  scoop run --flavors vanilla,chocolate --times 4,3 --mode rr --quantum 2 --summary
  scoop run --config sim.yaml --pace 1s --save --label "morning batch"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := sf.plan(cmd)
			if err != nil {
				return err
			}
			r, err := newRenderer(cmd.OutOrStdout(), output, plan.Pace)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			run, err := simulate(ctx, plan, r, summary)
			if err != nil {
				return err
			}

			if save {
				run.Label = label
				return saveRun(cmd, run)
			}
			return nil
		},
	}

	sf.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json (one JSON object per line)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print per-flavor timing and averages after the run")
	cmd.Flags().BoolVar(&save, "save", false, "Record the run in the history database (--db)")
	cmd.Flags().StringVar(&label, "label", "", "Label stored with a saved run")

	return cmd
}
