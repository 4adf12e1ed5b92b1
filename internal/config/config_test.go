package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		original, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, original)
			}
		})
	}
}

func TestLoadFailsWithoutProjectID(t *testing.T) {
	clearEnv(t, "FIRESTORE_PROJECT_ID")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t, "FIRESTORE_PROJECT_ID", "BATCH_SIZE", "REDIS_URL", "MEDIA_COLLECTION")
	os.Setenv("FIRESTORE_PROJECT_ID", "test-project")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-project", cfg.Firestore.ProjectID)
	assert.Equal(t, "listings", cfg.MediaCollection)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.Enabled)
}

func TestLoadReadsOverridesFromEnv(t *testing.T) {
	clearEnv(t, "FIRESTORE_PROJECT_ID", "BATCH_SIZE", "MAX_CONCURRENT_BATCHES", "ENABLED")
	os.Setenv("FIRESTORE_PROJECT_ID", "test-project")
	os.Setenv("BATCH_SIZE", "25")
	os.Setenv("MAX_CONCURRENT_BATCHES", "2")
	os.Setenv("ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 2, cfg.MaxConcurrentBatches)
	assert.False(t, cfg.Enabled)
}

func TestGetEnvIntFallsBackOnBadValue(t *testing.T) {
	clearEnv(t, "SOME_INT_KEY")
	os.Setenv("SOME_INT_KEY", "not-an-int")

	assert.Equal(t, 7, getEnvInt("SOME_INT_KEY", 7))
}
