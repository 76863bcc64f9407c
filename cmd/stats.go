package cmd

import (
	"fmt"
	"strings"

	"github.com/agrovision/academy/internal/rewards"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		st := rt.engine.State()
		fmt.Fprintf(out, "Points:    %d\n", st.Points)
		fmt.Fprintf(out, "Level:     %d (next at %d)\n", st.Level, st.Level*rewards.PointsPerLevel)
		fmt.Fprintf(out, "Lessons:   %d/%d\n", len(st.CompletedNodes), rt.engine.Catalog().Len())
		fmt.Fprintf(out, "Scans:     %d\n", st.TotalScans)
		fmt.Fprintf(out, "Streak:    %d\n", st.Streak)

		names := make([]string, len(st.Badges))
		for i, id := range st.Badges {
			names[i] = rewards.BadgeName(id)
		}
		if len(names) == 0 {
			names = []string{"none"}
		}
		fmt.Fprintf(out, "Badges:    %s\n", strings.Join(names, ", "))

		for _, tier := range rt.engine.Tiers() {
			state := "locked"
			if tier.Reached(st.CompletedNodes) {
				state = "unlocked"
			}
			fmt.Fprintf(out, "Reward:    %s %d%% discount (%s)\n", tier.Name, tier.Discount, state)
		}

		counts, err := rt.engine.EventCounts(cmd.Context())
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		fmt.Fprintf(out, "Events:    %d points, %d level-ups, %d badges, %d rewards\n",
			counts[string(rewards.KindPoints)],
			counts[string(rewards.KindLevelUp)],
			counts[string(rewards.KindBadge)],
			counts[string(rewards.KindReward)],
		)
		return nil
	},
}
