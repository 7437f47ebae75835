package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "ENGAGEMENT_GATE_MS", "SESSION_STORE", "PROGRESS_ATOMIC", "SERVER_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.EngagementGate)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.ProgressAtomic)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("ENGAGEMENT_GATE_MS", "1500")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("PROGRESS_ATOMIC", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 1500*time.Millisecond, cfg.EngagementGate)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.True(t, cfg.ProgressAtomic)
}

func TestLoadConfigInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("ENGAGEMENT_GATE_MS", "soon")
	t.Setenv("PROGRESS_ATOMIC", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.EngagementGate)
	assert.False(t, cfg.ProgressAtomic)
}
