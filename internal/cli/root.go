package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens-backend/internal/infrastructure/config"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "spendlens",
		Short: "Transaction deduplication and recurring-expense detection",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Populate the environment before config resolution.
			_ = godotenv.Load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	loadConfig := func() *config.Config {
		return config.LoadOrEnvWithPath(configPath)
	}

	rootCmd.AddCommand(newImportCommand(loadConfig))
	rootCmd.AddCommand(newDedupeCommand(loadConfig))
	rootCmd.AddCommand(newRecurringCommand(loadConfig))
	rootCmd.AddCommand(newServeCommand(loadConfig))

	return rootCmd
}
