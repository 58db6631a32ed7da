package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, 120, cfg.RateLimit)

	// Embedded thresholds ship the default policy
	assert.Equal(t, 0.92, cfg.Thresholds.AutoAccept)
	assert.Equal(t, 0.75, cfg.Thresholds.SuggestConfirm)
	assert.Equal(t, 0.60, cfg.Thresholds.LowConfidence)
	assert.Equal(t, 0.40, cfg.Thresholds.QualityFloor)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("THRESHOLD_AUTO_ACCEPT", "0.95")
	t.Setenv("RATE_LIMIT", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, 0.95, cfg.Thresholds.AutoAccept)
	assert.Equal(t, 30, cfg.RateLimit)
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("THRESHOLD_AUTO_ACCEPT", "-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, 0.92, cfg.Thresholds.AutoAccept)
}
