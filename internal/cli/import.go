package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/importer"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/config"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/logging"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

func newImportCommand(loadConfig func() *config.Config) *cobra.Command {
	var format string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a bank CSV export, reconciling against stored history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			return runImport(cfg, args[0], format, dryRun)
		},
	}

	registry := importer.DefaultRegistry()
	formats := registry.Formats()
	sort.Strings(formats)
	cmd.Flags().StringVar(&format, "format", "generic", "CSV format: "+strings.Join(formats, ", "))
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and match without writing")

	return cmd
}

func runImport(cfg *config.Config, path, format string, dryRun bool) error {
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "import")

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
	if len(txns) == 0 {
		fmt.Println("No transactions found in file.")
		return nil
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := service.NewReconcileService(store, engineConfig(cfg), logger)

	if dryRun {
		result, err := svc.PreviewDedup(txns)
		if err != nil {
			return err
		}
		PrintDedupPreview(len(txns), result)
		return nil
	}

	report, err := svc.Reconcile(txns)
	if err != nil {
		return err
	}
	PrintReconcileReport(report)
	return nil
}
