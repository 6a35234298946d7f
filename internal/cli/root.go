package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/me/scoop/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDB        string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking SCOOP_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("SCOOP_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// defaultDB returns the run history database path, checking SCOOP_DB env var first.
func defaultDB() string {
	if p := os.Getenv("SCOOP_DB"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "scoop.db"
	}
	return filepath.Join(home, ".scoop", "scoop.db")
}

// NewRootCmd creates the root cobra command for the scoop CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scoop",
		Short: "scoop: ice cream production scheduling simulator",
		Long: `scoop simulates an ice cream factory producing flavors under
First-Come-First-Served or Round Robin scheduling.

Runs can be simulated locally (run, interactive), kept in a local history
database (history), or submitted to a scoop server (submit, status, list).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			l, err := logging.New(flagLogLevel, flagLogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger = l
			client = NewClient(flagServer, logger)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "scoop server URL (or SCOOP_SERVER env)")
	root.PersistentFlags().StringVar(&flagDB, "db", defaultDB(), "Run history database (or SCOOP_DB env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newInteractiveCmd(),
		newHistoryCmd(),
		newSubmitCmd(),
		newStatusCmd(),
		newListCmd(),
	)

	return root
}
