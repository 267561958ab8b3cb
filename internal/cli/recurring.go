package cli

import (
	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/config"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/logging"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

func newRecurringCommand(loadConfig func() *config.Config) *cobra.Command {
	var noLLM bool

	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Detect recurring merchants and classify fixed expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if noLLM {
				cfg.OpenAI.APIKey = ""
			}
			return runRecurring(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "skip LLM escalation, rule scores only")

	return cmd
}

func runRecurring(cmd *cobra.Command, cfg *config.Config) error {
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "recurring")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := service.NewRecurringService(store, classifierClient(cfg), logger)
	report, err := svc.DetectRecurring(cmd.Context())
	if err != nil {
		return err
	}

	PrintRecurringReport(report)
	return nil
}
