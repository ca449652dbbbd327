package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: traveler-classifier
  version: 1.2.0
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", cfg.App.Version)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 1800, cfg.Session.TTL)
	assert.Equal(t, BaselineSourceDefault, cfg.Baseline.Source)
	assert.Equal(t, "survey_baselines", cfg.Baseline.Table)
	assert.Equal(t, "configs/activity-registry.json", cfg.RegistryPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, AnyWorkerEnabled(cfg))
}

func TestLoadFromFile_WorkersAndEnvExpansion(t *testing.T) {
	t.Setenv("TEST_ZEEBE_GATEWAY", "zeebe:26500")

	path := writeConfig(t, `
camunda:
  broker_address: ${TEST_ZEEBE_GATEWAY}
workers:
  classify-traveler:
    enabled: true
  suggest-routes:
    enabled: false
    max_jobs_active: 2
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	classify := GetWorkerConfig(cfg, "classify-traveler")
	assert.True(t, classify.Enabled)
	assert.Equal(t, 5, classify.MaxJobsActive)
	assert.Equal(t, 10000, classify.Timeout)
	assert.Equal(t, 2, GetWorkerConfig(cfg, "suggest-routes").MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "unknown-task"))
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{
			name: "workers without broker",
			body: `
workers:
  classify-traveler:
    enabled: true
`,
			contains: "camunda.broker_address",
		},
		{
			name: "redis backend without address",
			body: `
session:
  backend: redis
`,
			contains: "database.redis.address",
		},
		{
			name: "unknown session backend",
			body: `
session:
  backend: memcached
`,
			contains: "session.backend",
		},
		{
			name: "postgres baseline without host",
			body: `
baseline:
  source: postgres
`,
			contains: "database.postgres.host",
		},
		{
			name: "negative session ttl",
			body: `
session:
  ttl: -60
`,
			contains: "session.ttl",
		},
		{
			name: "negative session max entries",
			body: `
session:
  max_entries: -1
`,
			contains: "session.max_entries",
		},
		{
			name: "unknown baseline source",
			body: `
baseline:
  source: csv
`,
			contains: "baseline.source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	dsn := PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "survey", SSLMode: "disable",
	}.GetDSN()
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=survey sslmode=disable", dsn)
}

func TestLoadFromFile_ShippedConfig(t *testing.T) {
	t.Setenv("ZEEBE_ADDRESS", "")
	t.Setenv("REDIS_ADDRESS", "")

	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "traveler-classifier", cfg.App.Name)
	assert.Empty(t, cfg.Camunda.BrokerAddress)
	assert.Empty(t, cfg.Database.Redis.Address)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 10, GetWorkerConfig(cfg, "classify-traveler").MaxJobsActive)
	assert.False(t, AnyWorkerEnabled(cfg))
}
