package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agrovision/academy/internal/calibration"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Describe your farm to personalize the learning path",
	Long: `Records the farm profile used to pick focus units.

Without flags, prints the questions and the saved profile.
The first calibration earns a bonus.`,
	Example: "  agrovision calibrate --soil low --pests frequent --irrigation okay",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		flags := map[calibration.Field]string{
			calibration.FieldSoil:       "soil",
			calibration.FieldPests:      "pests",
			calibration.FieldIrrigation: "irrigation",
		}

		var answers calibration.Answers
		given := 0
		for field, name := range flags {
			v, _ := cmd.Flags().GetString(name)
			if v == "" {
				continue
			}
			given++
			if err := answers.Set(field, v); err != nil {
				return fmt.Errorf("--%s: %w", name, err)
			}
		}

		if given == 0 {
			for _, q := range rt.engine.CalibrationQuestions() {
				values := make([]string, len(q.Choices))
				for i, c := range q.Choices {
					values[i] = fmt.Sprintf("%s (%s)", c.Value, c.Label)
				}
				fmt.Fprintf(out, "--%s  %s\n      %s\n", flags[q.Field], q.Prompt, strings.Join(values, " | "))
			}
			if p, ok := rt.engine.Calibration(); ok {
				fmt.Fprintf(out, "\nSaved profile: soil=%s pests=%s irrigation=%s\n",
					p.SoilFertility, p.PestAttacks, p.IrrigationCost)
				printFocus(cmd, rt, p.FocusUnits)
			}
			return nil
		}

		res, err := rt.engine.Calibrate(cmd.Context(), answers)
		if err != nil {
			return err
		}
		printEvents(cmd, rt)
		if !res.Awarded {
			fmt.Fprintln(out, "Profile updated.")
		}
		printFocus(cmd, rt, res.Profile.FocusUnits)
		return nil
	},
}

func printFocus(cmd *cobra.Command, rt *runtime, units []string) {
	if len(units) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Focus: the full course")
		return
	}
	titles := make([]string, 0, len(units))
	for _, id := range units {
		if u, ok := rt.engine.Catalog().Unit(id); ok {
			titles = append(titles, u.Title)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Focus: %s\n", strings.Join(titles, "; "))
}

func init() {
	calibrateCmd.Flags().String("soil", "", "soil fertility: low or good")
	calibrateCmd.Flags().String("pests", "", "pest attacks: frequent or rare")
	calibrateCmd.Flags().String("irrigation", "", "irrigation cost: expensive or okay")
}
