package cli

import (
	"encoding/json"
	"fmt"

	"github.com/me/scoop/pkg/model"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var sf simFlags
	var label string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Run a simulation on the scoop server",
		Long:  "Send jobs and a scheduling mode to the scoop server, which runs and stores the simulation.",
		Example: `  scoop submit --flavors vanilla,chocolate --times 4,3 --mode rr --quantum 2
  scoop --server http://factory:8080 submit --config sim.yaml --label nightly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := sf.plan(cmd)
			if err != nil {
				return err
			}

			body := map[string]any{
				"label":   label,
				"mode":    string(plan.Mode),
				"quantum": plan.Quantum,
				"jobs":    plan.Jobs,
			}
			if plan.Jobs == nil {
				body["jobs"] = []model.JobSpec{}
			}

			logger.Debug("submitting simulation", "mode", plan.Mode, "jobs", len(plan.Jobs))
			resp, err := client.Post("/api/v1/simulations/", body)
			if err != nil {
				return fmt.Errorf("submit simulation: %w", err)
			}

			var run model.Run
			if err := json.Unmarshal(resp.Data, &run); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if quiet {
				fmt.Fprintln(cmd.OutOrStdout(), run.ID)
				return nil
			}
			r, err := newRenderer(cmd.OutOrStdout(), "text", 0)
			if err != nil {
				return err
			}
			return showRun(cmd, r, &run, true)
		},
	}

	sf.register(cmd, false)
	cmd.Flags().StringVar(&label, "label", "", "Label stored with the run")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Print only the run ID")
	return cmd
}
