package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List daily missions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		for _, m := range rt.engine.Missions() {
			check := " "
			if m.Completed {
				check = "x"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s  +%d XP\n", check, m.ID, m.Title, m.XP)
		}
		return nil
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim <id>",
	Short: "Claim a daily mission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if _, err := rt.engine.ClaimMission(cmd.Context(), args[0]); err != nil {
			return err
		}
		printEvents(cmd, rt)
		return nil
	},
}

func init() {
	missionsCmd.AddCommand(claimCmd)
}
