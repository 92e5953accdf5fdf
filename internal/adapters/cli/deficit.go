package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
)

// NewDeficitCommand creates the deficit command
func NewDeficitCommand() *cobra.Command {
	var (
		all  bool
		live bool
	)

	cmd := &cobra.Command{
		Use:   "deficit [preset]",
		Short: "Show the raw materials still missing for a goal",
		Long: `Show what is still missing to complete a goal.

By default the deficit is computed locally from the registry and world
snapshot files. With --live the daemon's last computed deficit for its
active goal is shown instead.

Examples:
  goaltracker deficit
  goaltracker deficit ship-map --all
  goaltracker deficit --live`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if live {
				if len(args) > 0 {
					return fmt.Errorf("--live shows the daemon's active goal; use 'goaltracker goal switch %s' first", args[0])
				}
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
				renderDeficit(out, result)
				return nil
			}

			ctx := commandContext()
			tr, err := buildLocalTracker(ctx, resolvePreset(args))
			if err != nil {
				return err
			}

			resp, err := tr.Mediator.Send(ctx, &queries.GetDeficitQuery{IncludeSatisfied: all})
			if err != nil {
				return err
			}
			renderDeficit(out, resp.(*queries.GetDeficitResponse))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include items that are already satisfied")
	cmd.Flags().BoolVar(&live, "live", false, "Read the deficit from the running daemon")

	return cmd
}

func renderDeficit(out io.Writer, result *queries.GetDeficitResponse) {
	fmt.Fprintf(out, "Goal:     %s (%s)\n", result.GoalLabel, result.GoalID)
	fmt.Fprintf(out, "Mode:     %s\n", result.Mode)
	fmt.Fprintf(out, "Computed: %s\n\n", formatComputedAt(result.ComputedAt))

	if len(result.Items) == 0 {
		fmt.Fprintln(out, "Nothing missing.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tLABEL\tMISSING")
	fmt.Fprintln(w, "----\t-----\t-------")
	for _, item := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.Item, item.Label, formatCount(item.Missing))
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal missing: %s\n", formatCount(result.Total))
}
