package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath    string
	daemonAddress string
	verbose       bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "goaltracker",
		Short: "Goal tracker CLI - see what is still missing for a goal",
		Long: `Goal tracker CLI reports the raw materials still missing for a goal.

Local commands read the registry and world snapshot named by the config file.
Live commands talk to a running goaltracker-daemon over gRPC.

Examples:
  goaltracker presets
  goaltracker deficit ship-map
  goaltracker deficit --live
  goaltracker tree reactor
  goaltracker goal switch ship-all
  goaltracker goal show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/goaltracker)")
	rootCmd.PersistentFlags().StringVar(&daemonAddress, "daemon", "",
		"Daemon address, host:port or unix:///path (default: user config, then config file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log tracker activity to stderr")

	rootCmd.AddCommand(NewPresetsCommand())
	rootCmd.AddCommand(NewDeficitCommand())
	rootCmd.AddCommand(NewTreeCommand())
	rootCmd.AddCommand(NewGoalCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
