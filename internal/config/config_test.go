package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, 0.5, th.IdleSpeedThreshold)
	assert.Equal(t, 15.0, th.Sigmas)
	assert.Equal(t, 900.0, th.IdleDurationThresholdS)
	assert.Equal(t, ChargingPerRun, th.ChargingMode)
	assert.NoError(t, th.Validate())
}

func TestThresholdsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Thresholds)
	}{
		{"negative speed", func(th *Thresholds) { th.IdleSpeedThreshold = -1 }},
		{"zero sigmas", func(th *Thresholds) { th.Sigmas = 0 }},
		{"negative duration", func(th *Thresholds) { th.IdleDurationThresholdS = -5 }},
		{"unknown mode", func(th *Thresholds) { th.ChargingMode = "weekly" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.modify(&th)
			assert.ErrorIs(t, th.Validate(), ErrInvalidThresholds)
		})
	}
}

func TestLoadThresholdsPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sigmas": 3, "charging_mode": "distinct"}`), 0o644))

	th, err := LoadThresholds(path)
	require.NoError(t, err)

	assert.Equal(t, 3.0, th.Sigmas)
	assert.Equal(t, ChargingDistinct, th.ChargingMode)
	// Omitted fields keep defaults
	assert.Equal(t, 0.5, th.IdleSpeedThreshold)
	assert.Equal(t, 900.0, th.IdleDurationThresholdS)
}

func TestLoadThresholdsRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadThresholds(filepath.Join(dir, "tuning.yaml"))
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"sigmas": -2}`), 0o644))
	_, err = LoadThresholds(invalid)
	assert.ErrorIs(t, err, ErrInvalidThresholds)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o644))
	_, err = LoadThresholds(broken)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("SIGMAS", "3")
	t.Setenv("IDLE_SPEED_MPS", "0.1")
	t.Setenv("CHARGING_MODE", "distinct")
	t.Setenv("WORKERS", "0")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, 3.0, cfg.Thresholds.Sigmas)
	assert.Equal(t, 0.1, cfg.Thresholds.IdleSpeedThreshold)
	assert.Equal(t, ChargingDistinct, cfg.Thresholds.ChargingMode)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, "sample_data.csv", cfg.SampleFile)
}
