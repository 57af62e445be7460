package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sqltutor",
	Short: "Interactive SQL tutor for the terminal",
	Long: `sqltutor teaches SQL through practice. Pick a difficulty tier, write a
query, and get instant feedback: your result next to the expected one, a
similarity score, and hints that sharpen with every attempt.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/sqltutor/config.yaml)")
	flags.String("db", "", "Path to the tutor state database (overrides SQLTUTOR_DB)")
	flags.String("sample-db", "", "Path to the sample database (overrides SQLTUTOR_SAMPLE_DB)")
	flags.String("exercises", "", "JSON or YAML exercise bank replacing the built-in one")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(exercisesCmd)
	rootCmd.AddCommand(cheatsheetCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
