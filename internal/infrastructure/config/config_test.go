package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  allowed_origins:
    - "http://localhost:3000"
storage:
  database_path: "custom.db"
engine:
  amount_tolerance: 0.02
  date_window_days: 7
openai:
  model: "gpt-4o-mini"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "custom.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 0.02, cfg.Engine.AmountTolerance)
	assert.Equal(t, 7, cfg.Engine.DateWindowDays)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("SPENDLENS_DB_PATH", "test.db")
	os.Setenv("OPENAI_API_KEY", "test-key")
	defer func() {
		os.Unsetenv("SPENDLENS_DB_PATH")
		os.Unsetenv("OPENAI_API_KEY")
	}()

	cfg := LoadFromEnv()
	assert.NotNil(t, cfg)
	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "test-key", cfg.OpenAI.APIKey)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	os.Unsetenv("SPENDLENS_DB_PATH")
	os.Unsetenv("OPENAI_MODEL")

	cfg := LoadFromEnv()
	assert.NotNil(t, cfg)
	assert.Equal(t, "spendlens.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	os.Setenv("SPENDLENS_DB_PATH", "fallback.db")
	defer os.Unsetenv("SPENDLENS_DB_PATH")

	cfg := LoadOrEnvWithPath("nonexistent.yaml")
	assert.NotNil(t, cfg)
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestEnvVarExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  database_path: "${TEST_DB_PATH}"
openai:
  api_key: "${TEST_OPENAI_KEY}"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	os.Setenv("TEST_DB_PATH", "expanded.db")
	os.Setenv("TEST_OPENAI_KEY", "expanded-key")
	defer func() {
		os.Unsetenv("TEST_DB_PATH")
		os.Unsetenv("TEST_OPENAI_KEY")
	}()

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "expanded-key", cfg.OpenAI.APIKey)
}
