package cli

import (
	"encoding/json"
	"fmt"

	"github.com/me/scoop/pkg/model"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var output string
	var summary bool

	cmd := &cobra.Command{
		Use:   "status <run_id>",
		Short: "Show a run stored on the scoop server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			r, err := newRenderer(cmd.OutOrStdout(), output, 0)
			if err != nil {
				return err
			}

			resp, err := client.Get("/api/v1/simulations/" + id)
			if err != nil {
				return fmt.Errorf("get simulation: %w", err)
			}

			var run model.Run
			if err := json.Unmarshal(resp.Data, &run); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			return showRun(cmd, r, &run, summary)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&summary, "summary", true, "Print per-flavor timing and averages")
	return cmd
}
