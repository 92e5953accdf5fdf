package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
)

// NewTreeCommand creates the tree command
func NewTreeCommand() *cobra.Command {
	var (
		summary bool
		compact bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "tree [preset]",
		Short: "Show the material breakdown of a goal",
		Long: `Show how each part of a goal breaks down into craftable and raw inputs.

Each line shows the acquisition kind (BUILD, CRAFT or RAW), the stock on
hand against the quantity needed, and the recipe used for crafted items.
The tree is computed locally from the registry and world snapshot files.

Examples:
  goaltracker tree
  goaltracker tree ship-map --summary
  goaltracker tree reactor --compact`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext()
			tr, err := buildLocalTracker(ctx, "")
			if err != nil {
				return err
			}

			resp, err := tr.Mediator.Send(ctx, &queries.GetBreakdownQuery{PresetID: resolvePreset(args)})
			if err != nil {
				return err
			}
			result := resp.(*queries.GetBreakdownResponse)

			out := cmd.OutOrStdout()
			formatter := NewTreeFormatter(!noColor && useColor(out))

			fmt.Fprintf(out, "Breakdown for %s\n\n", result.GoalID)
			for _, root := range result.Roots {
				switch {
				case compact:
					fmt.Fprintln(out, formatter.FormatCompactTree(root))
				case summary:
					fmt.Fprintln(out, formatter.FormatTreeSummary(root))
				default:
					fmt.Fprint(out, formatter.FormatTree(root))
				}
			}

			for _, problem := range result.Problems {
				fmt.Fprintf(out, "warning: %v\n", problem)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Print one summary line per part")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print each part on a single line")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")

	return cmd
}
