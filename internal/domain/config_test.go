package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Normalize())

	assert.Equal(t, "tether", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Connector.ConnectionTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Monitor.PollInterval)
	assert.Equal(t, "-", cfg.Monitor.Sentinel)
}

func TestNormalizeKeepsOverrides(t *testing.T) {
	cfg := &Config{
		Name: "custom",
		Connector: ConnectorConfig{
			ConnectionTimeout: time.Second,
		},
	}
	require.NoError(t, cfg.Normalize())

	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, time.Second, cfg.Connector.ConnectionTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Monitor.PollInterval)
}

func TestValidateRejectsNonPositiveDurations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Connector.ConnectionTimeout = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsInvalidConfig(err))

	cfg = DefaultConfig()
	cfg.Monitor.PollInterval = -time.Second
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsInvalidConfig(err))
}
