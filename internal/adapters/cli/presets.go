package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
)

// NewPresetsCommand creates the presets command
func NewPresetsCommand() *cobra.Command {
	var (
		all  bool
		live bool
	)

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the selectable goals",
		Long: `List the goal presets in menu order.

Presets scaled by colonist count are hidden from the menu when they would
duplicate another preset; --all lists them anyway.

Examples:
  goaltracker presets
  goaltracker presets --all --live`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if live {
				client, err := dialDaemon()
				if err != nil {
					return err
				}
				defer client.Close()

				ctx, cancel := daemonContext()
				defer cancel()

				result, err := client.ListPresets(ctx, all)
				if err != nil {
					return err
				}
				renderPresets(out, result)
				return nil
			}

			ctx := commandContext()
			tr, err := buildLocalTracker(ctx, resolvePreset(nil))
			if err != nil {
				return err
			}

			resp, err := tr.Mediator.Send(ctx, &queries.ListPresetsQuery{All: all})
			if err != nil {
				return err
			}
			renderPresets(out, resp.(*queries.ListPresetsResponse))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include presets hidden from the menu")
	cmd.Flags().BoolVar(&live, "live", false, "List the running daemon's presets")

	return cmd
}

func renderPresets(out io.Writer, result *queries.ListPresetsResponse) {
	if len(result.Presets) == 0 {
		fmt.Fprintln(out, "No presets.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tLABEL\tTARGETS")
	fmt.Fprintln(w, "\t--\t-----\t-------")
	for _, p := range result.Presets {
		marker := " "
		if p.Selected {
			marker = "*"
		}

		targets := make([]string, 0, len(p.Targets))
		for _, t := range p.Targets {
			targets = append(targets, fmt.Sprintf("%s x%s", t.Item, formatCount(t.Count)))
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, p.ID, p.Label, strings.Join(targets, ", "))
	}
	w.Flush()
}
