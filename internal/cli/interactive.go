package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/me/scoop/internal/config"
	"github.com/me/scoop/pkg/model"
	"github.com/spf13/cobra"
)

func newInteractiveCmd() *cobra.Command {
	var pace time.Duration
	var summary bool
	var save bool

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Enter flavors, times and scheduling mode at prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: out}

			plan, err := p.collect()
			if err != nil {
				return err
			}
			plan.Pace = pace
			if err := plan.Validate(); err != nil {
				return err
			}

			r, err := newRenderer(out, "text", plan.Pace)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Fprintln(out)
			run, err := simulate(ctx, plan, r, summary)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Thank you for choosing us. Have a great day :)")

			if save {
				return saveRun(cmd, run)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&pace, "pace", time.Second, "Wall-clock delay per simulated time unit (0 prints immediately)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print per-flavor timing and averages after the run")
	cmd.Flags().BoolVar(&save, "save", false, "Record the run in the history database (--db)")

	return cmd
}

// prompter asks for one line at a time.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errors.New("unexpected end of input")
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// collect runs the prompt sequence: flavors, times, scheduling menu and,
// for Round Robin, the quantum.
func (p *prompter) collect() (*config.Plan, error) {
	line, err := p.ask("Enter ice cream flavors (comma-separated): ")
	if err != nil {
		return nil, fmt.Errorf("read flavors: %w", err)
	}
	flavors := config.SplitList(line)

	line, err = p.ask("Enter production times (comma-separated in seconds): ")
	if err != nil {
		return nil, fmt.Errorf("read production times: %w", err)
	}
	durations, err := config.ParseDurations(config.SplitList(line))
	if err != nil {
		return nil, err
	}
	jobs, err := config.ZipJobs(flavors, durations)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(p.out, "OKAY!!")

	fmt.Fprint(p.out, "\nHow do you want to schedule it?\n\n")
	fmt.Fprintln(p.out, "  1. Round Robin")
	fmt.Fprintln(p.out, "  2. First-Come, First-Served (FCFS)")
	line, err = p.ask("\nEnter the number: ")
	if err != nil {
		return nil, fmt.Errorf("read scheduling choice: %w", err)
	}
	mode, err := model.ParseMode(line)
	if err != nil {
		return nil, err
	}

	plan := &config.Plan{Jobs: jobs, Mode: mode}
	if mode.NeedsQuantum() {
		line, err = p.ask("Enter time quantum for Round Robin scheduling (in seconds): ")
		if err != nil {
			return nil, fmt.Errorf("read quantum: %w", err)
		}
		q, err := strconv.Atoi(line)
		if err != nil {
			return nil, &model.ConfigError{
				Kind:    model.ErrInvalidQuantum,
				Field:   "quantum",
				Value:   line,
				Message: "not an integer",
			}
		}
		plan.Quantum = q
	}
	return plan, nil
}
