package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quizdesk",
	Short: "Take course tests from the terminal",
	Long: "quizdesk is a terminal client for the course platform: find courses and tests,\n" +
		"take a test with answers saved as you go, search users and groups as an admin,\n" +
		"and browse your own courses, tests and groups as a teacher.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "", "Platform base URL (overrides QUIZDESK_API_URL)")
	pf.String("token", "", "Session token (overrides QUIZDESK_TOKEN)")
	pf.String("db", "", "Path to SQLite database file (overrides QUIZDESK_DB)")
	pf.String("log-file", "", `Log file, or "-" for stderr (overrides QUIZDESK_LOG_FILE)`)
	pf.String("log-level", "", "Log level (overrides QUIZDESK_LOG_LEVEL)")
	pf.String("env-file", ".env", "Load environment variables from this file if it exists")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(attemptCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(versionCmd)
}
