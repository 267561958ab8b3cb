package cli

import (
	"github.com/spendlens/spendlens-backend/internal/adapters/openai"
	"github.com/spendlens/spendlens-backend/internal/domain/classifier"
	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/config"
)

// engineConfig resolves matching tolerances, keeping the calibrated
// defaults where the config is silent.
func engineConfig(cfg *config.Config) dedup.Config {
	engine := dedup.DefaultConfig()
	if cfg.Engine.AmountTolerance > 0 {
		engine.AmountTolerance = cfg.Engine.AmountTolerance
	}
	if cfg.Engine.DateWindowDays > 0 {
		engine.DateWindowDays = cfg.Engine.DateWindowDays
	}
	return engine
}

// classifierClient builds the LLM client, or nil when no API key is
// configured. A nil client disables escalation.
func classifierClient(cfg *config.Config) classifier.Client {
	if cfg.OpenAI.APIKey == "" {
		return nil
	}

	openaiCfg := openai.DefaultConfig()
	openaiCfg.APIKey = cfg.OpenAI.APIKey
	if cfg.OpenAI.Model != "" {
		openaiCfg.Model = cfg.OpenAI.Model
	}
	return openai.NewClient(openaiCfg)
}
