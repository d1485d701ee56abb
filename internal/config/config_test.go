package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "https://query.wikidata.org/sparql", cfg.SPARQLEndpoint)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.Equal(t, 60*time.Second, cfg.Cooldown)
	assert.Equal(t, 0, cfg.MaxRounds)
	assert.False(t, cfg.RunOnStart)
	assert.Equal(t, "wikigeo", cfg.MongoDatabase)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RefreshEnabled)
	assert.Empty(t, cfg.WebhookURL)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BATCH_SIZE", "50")
	t.Setenv("COOLDOWN_SEC", "5")
	t.Setenv("MAX_ROUNDS", "10")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("SPARQL_ENDPOINT", "http://localhost:9999/sparql")

	cfg := Load()

	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Cooldown)
	assert.Equal(t, 10, cfg.MaxRounds)
	assert.True(t, cfg.RunOnStart)
	assert.Equal(t, "http://localhost:9999/sparql", cfg.SPARQLEndpoint)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("BATCH_SIZE", "not-a-number")
	t.Setenv("RUN_ON_START", "maybe")

	cfg := Load()

	assert.Equal(t, 250, cfg.BatchSize)
	assert.False(t, cfg.RunOnStart)
}

func TestValidateRejectsNonPositiveBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeMaxRounds(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "-1")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}
