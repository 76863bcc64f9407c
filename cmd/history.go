package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/agrovision/academy/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent reward events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		recs, err := rt.engine.History(cmd.Context(), store.QueryOpts{Limit: limit, Kind: kind})
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reward events yet.")
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "TIME", "KIND", "MESSAGE", "DELTA", "POINTS", "LEVEL")
		for _, r := range recs {
			delta := ""
			if r.Delta != 0 {
				delta = fmt.Sprintf("%+d", r.Delta)
			}
			t.Row(
				strconv.FormatInt(r.Sequence, 10),
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				r.Kind,
				r.Message,
				delta,
				strconv.Itoa(r.Points),
				strconv.Itoa(r.Level),
			)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum events to show")
	historyCmd.Flags().String("kind", "", "Only show events of this kind (points, level_up, badge, reward)")
}
