package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/importer"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/config"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/logging"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

func newDedupeCommand(loadConfig func() *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dedupe <file.csv>",
		Short: "Report which rows of a CSV already exist, without writing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			return runDedupe(cfg, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "generic", "CSV format")

	return cmd
}

func runDedupe(cfg *config.Config, path, format string) error {
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "dedupe")

	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format: %s", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	txns, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := service.NewReconcileService(store, engineConfig(cfg), logger)
	result, err := svc.PreviewDedup(txns)
	if err != nil {
		return err
	}

	PrintDedupPreview(len(txns), result)
	return nil
}
