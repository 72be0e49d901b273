package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/triviaboard/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "triviaboard",
	Short: "Trivia question dashboard for the terminal",
	Long:  "Triviaboard fetches questions from the Open Trivia Database and charts them by category and difficulty.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TRIVIABOARD_DB env var)")
	rootCmd.PersistentFlags().Int("amount", 0, "Questions to fetch per load, 1-50 (overrides TRIVIABOARD_AMOUNT)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Keep the session token in memory instead of the database")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TRIVIABOARD_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
