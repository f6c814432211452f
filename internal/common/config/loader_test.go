package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: "wealth-advisor"
database:
  postgres:
    host: "localhost"
    database: "wealth_management"
    user: "tester"
  redis:
    address: "localhost:6379"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 10, cfg.Agent.MaxSteps)
	assert.Equal(t, 3, cfg.Agent.MaxProtocolRetries)
	assert.Equal(t, 20000, cfg.Agent.MaxObservationChars)
	assert.False(t, cfg.Agent.StrictEnvelope)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ValidatesRequiredFields(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    host: "localhost"
    database: "wealth_management"
  redis:
    address: "localhost:6379"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.user is required")
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_DB_USER", "env-user")

	path := writeConfigFile(t, `
database:
  postgres:
    host: "localhost"
    database: "wealth_management"
    user: "${TEST_DB_USER}"
  redis:
    address: "localhost:6379"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.Database.Postgres.User)
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		Database: "wealth_management", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=wealth_management sslmode=disable",
		p.GetDSN())
}
