package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGoalCommand creates the goal command with subcommands
func NewGoalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Select and inspect the daemon's active goal",
		Long: `Select and inspect the goal tracked by the running daemon.

Examples:
  goaltracker goal switch ship-map
  goaltracker goal show`,
	}

	cmd.AddCommand(newGoalSwitchCommand())
	cmd.AddCommand(newGoalShowCommand())

	return cmd
}

func newGoalSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <preset>",
		Short: "Make a preset the daemon's active goal",
		Long: `Make a preset the daemon's active goal.

The deficit is recomputed before the switch returns, so the next read
already reflects the new goal.

Example:
  goaltracker goal switch ship-all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := daemonContext()
			defer cancel()

			result, err := client.SwitchGoal(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Active goal: %s (%s)\n", result.Label, result.GoalID)
			fmt.Fprintf(out, "  Outstanding items: %s\n", formatCount(result.Outstanding))
			return nil
		},
	}
}

func newGoalShowCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the daemon's active goal and its deficit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialDaemon()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := daemonContext()
			defer cancel()

			result, err := client.GetDeficit(ctx, all)
			if err != nil {
				return err
			}
			renderDeficit(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include items that are already satisfied")

	return cmd
}
