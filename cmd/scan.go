package cmd

import (
	"fmt"
	"strings"

	"github.com/agrovision/academy/internal/scans"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:       "scan <step>",
	Short:     "Record a crop-scan form step",
	Long:      "Record a crop-scan form step. Steps: " + stepNames() + ".",
	Args:      cobra.ExactArgs(1),
	ValidArgs: strings.Split(stepNames(), ", "),
	RunE: func(cmd *cobra.Command, args []string) error {
		step, err := scans.ParseStep(args[0])
		if err != nil {
			return err
		}
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if _, err := rt.engine.ApplyScan(cmd.Context(), step); err != nil {
			return err
		}
		printEvents(cmd, rt)
		return nil
	},
}

func stepNames() string {
	steps := scans.Steps()
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// printEvents writes the reward events raised by the command.
func printEvents(cmd *cobra.Command, rt *runtime) {
	for _, ev := range rt.engine.Drain() {
		if ev.Delta != 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %+d\n", ev.Message, ev.Delta)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), ev.Message)
	}
}
