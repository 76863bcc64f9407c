package cmd

import (
	"github.com/agrovision/academy/internal/app"
	"github.com/agrovision/academy/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "agrovision",
	Short:         "Sustainable farming academy for smallholder farmers",
	Long:          "AgroVision Academy: short farming lessons and quizzes with points, badges and rewards.",
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		return app.Run(rt.engine)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./agrovision.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AGROVISION_STORE_DB_PATH)")
	rootCmd.PersistentFlags().String("backend", "", "Progress store: sqlite, redis or memory")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(missionsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
