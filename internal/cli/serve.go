package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens-backend/internal/api"
	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/config"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/logging"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

func newServeCommand(loadConfig func() *config.Config) *cobra.Command {
	var port int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if port != 0 {
				cfg.Server.Port = port
			}
			return runServe(cfg, verbose)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override the configured listen port")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "verbose output")

	return cmd
}

func runServe(cfg *config.Config, verbose bool) error {
	loggingCfg := cfg.Observability.Logging
	if verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reconcileSvc := service.NewReconcileService(store, engineConfig(cfg), logger)
	recurringSvc := service.NewRecurringService(store, classifierClient(cfg), logger)

	apiCfg := api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if len(apiCfg.AllowedOrigins) == 0 {
		apiCfg.AllowedOrigins = api.DefaultConfig().AllowedOrigins
	}

	server := api.NewServer(apiCfg, store, reconcileSvc, recurringSvc, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
