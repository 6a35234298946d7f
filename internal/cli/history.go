package cli

import (
	"fmt"

	"github.com/me/scoop/internal/render"
	"github.com/me/scoop/pkg/model"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect runs saved in the local history database",
	}
	cmd.AddCommand(
		newHistoryListCmd(),
		newHistoryShowCmd(),
		newHistoryDeleteCmd(),
	)
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit, offset int
	var mode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := model.ListOptions{Limit: limit, Offset: offset}
			if mode != "" {
				m, err := model.ParseMode(mode)
				if err != nil {
					return err
				}
				opts.Mode = m
			}
			opts.Clamp()

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			runs, total, err := st.ListRuns(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			writeRunTable(cmd.OutOrStdout(), runs, model.NewPagination(opts, len(runs), total))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show (max 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Runs to skip")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Only show runs of this mode")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var output string
	var summary bool

	cmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Replay a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd.OutOrStdout(), output, 0)
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get run: %w", err)
			}
			if run == nil {
				return fmt.Errorf("run %s not found", args[0])
			}
			return showRun(cmd, r, run, summary)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&summary, "summary", true, "Print per-flavor timing and averages")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run_id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteRun(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete run: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}

// showRun prints a run header followed by its replayed event stream.
func showRun(cmd *cobra.Command, r render.Renderer, run *model.Run, summary bool) error {
	if _, ok := r.(*render.Console); ok {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Run:     %s\n", run.ID)
		if run.Label != "" {
			fmt.Fprintf(w, "Label:   %s\n", run.Label)
		}
		fmt.Fprintf(w, "Created: %s\n\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return render.Replay(cmd.Context(), r, run, summary)
}
