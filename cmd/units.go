package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the learning path with lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("UNIT", "NODE", "TITLE", "KIND", "STATUS")
		for _, ns := range rt.engine.Path() {
			status := "open"
			switch {
			case ns.Completed:
				status = "completed"
			case ns.Locked:
				status = "locked"
			}
			t.Row(ns.UnitID, ns.Node.ID, ns.Node.Title, string(ns.Node.Kind), status)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())

		if next, ok := rt.engine.Next(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Next: %s (%s)\n", next.Title, next.ID)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Course complete.")
		}
		return nil
	},
}
