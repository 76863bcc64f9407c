package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the village leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "", "FARMER", "VILLAGE", "XP")
		for _, e := range rt.engine.Leaderboard() {
			t.Row(strconv.Itoa(e.Rank), e.Badge, e.Name, e.Village, strconv.Itoa(e.XP))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}
