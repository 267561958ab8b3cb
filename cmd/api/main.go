package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spendlens/spendlens-backend/internal/adapters/openai"
	"github.com/spendlens/spendlens-backend/internal/api"
	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/domain/classifier"
	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/config"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/logging"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		port       = flag.Int("port", 0, "override the configured listen port")
		verbose    = flag.Bool("verbose", false, "enable verbose logging")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.LoadOrEnvWithPath(*configPath)
	if *port != 0 {
		cfg.Server.Port = *port
	}

	loggingCfg := cfg.Observability.Logging
	if *verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	engine := dedup.DefaultConfig()
	if cfg.Engine.AmountTolerance > 0 {
		engine.AmountTolerance = cfg.Engine.AmountTolerance
	}
	if cfg.Engine.DateWindowDays > 0 {
		engine.DateWindowDays = cfg.Engine.DateWindowDays
	}

	var llm classifier.Client
	if cfg.OpenAI.APIKey != "" {
		openaiCfg := openai.DefaultConfig()
		openaiCfg.APIKey = cfg.OpenAI.APIKey
		if cfg.OpenAI.Model != "" {
			openaiCfg.Model = cfg.OpenAI.Model
		}
		llm = openai.NewClient(openaiCfg)
	}

	reconcileSvc := service.NewReconcileService(store, engine, logger)
	recurringSvc := service.NewRecurringService(store, llm, logger)

	apiCfg := api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if len(apiCfg.AllowedOrigins) == 0 {
		apiCfg.AllowedOrigins = api.DefaultConfig().AllowedOrigins
	}

	server := api.NewServer(apiCfg, store, reconcileSvc, recurringSvc, logger)

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

	if err := server.Start(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
