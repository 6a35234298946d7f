package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/me/scoop/pkg/model"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var limit, offset int
	var mode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs stored on the scoop server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			if mode != "" {
				q.Set("mode", mode)
			}

			resp, err := client.Get("/api/v1/simulations/?" + q.Encode())
			if err != nil {
				return fmt.Errorf("list simulations: %w", err)
			}

			var runs []*model.Run
			if err := json.Unmarshal(resp.Data, &runs); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			writeRunTable(cmd.OutOrStdout(), runs, resp.Pagination)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show (max 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Runs to skip")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Only show runs of this mode")
	return cmd
}
