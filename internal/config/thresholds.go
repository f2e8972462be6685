package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// ErrInvalidThresholds is returned when a threshold set cannot be used
var ErrInvalidThresholds = errors.New("invalid thresholds")

// ChargingMode selects how idle runs add up to charging candidate time
type ChargingMode string

const (
	// ChargingPerRun counts every qualifying idle run once, at its longest duration
	ChargingPerRun ChargingMode = "per_run"
	// ChargingDistinct sums the distinct idle durations above the threshold
	ChargingDistinct ChargingMode = "distinct"
)

// Thresholds holds the classification tunables. It is passed by value into
// every pipeline stage.
type Thresholds struct {
	IdleSpeedThreshold     float64      `json:"idle_speed_threshold"`      // m/s
	Sigmas                 float64      `json:"sigmas"`                    // outlier and off multiplier
	IdleDurationThresholdS float64      `json:"idle_duration_threshold_s"` // seconds
	ChargingMode           ChargingMode `json:"charging_mode"`
}

// DefaultThresholds returns the defaults used when nothing else is configured
func DefaultThresholds() Thresholds {
	return Thresholds{
		IdleSpeedThreshold:     0.5,
		Sigmas:                 15,
		IdleDurationThresholdS: 15 * 60,
		ChargingMode:           ChargingPerRun,
	}
}

// Validate checks that the thresholds are usable
func (t Thresholds) Validate() error {
	switch {
	case math.IsNaN(t.IdleSpeedThreshold) || t.IdleSpeedThreshold < 0:
		return fmt.Errorf("%w: idle_speed_threshold must be >= 0, got %g", ErrInvalidThresholds, t.IdleSpeedThreshold)
	case math.IsNaN(t.Sigmas) || t.Sigmas <= 0:
		return fmt.Errorf("%w: sigmas must be > 0, got %g", ErrInvalidThresholds, t.Sigmas)
	case math.IsNaN(t.IdleDurationThresholdS) || t.IdleDurationThresholdS < 0:
		return fmt.Errorf("%w: idle_duration_threshold_s must be >= 0, got %g", ErrInvalidThresholds, t.IdleDurationThresholdS)
	}
	switch t.ChargingMode {
	case ChargingPerRun, ChargingDistinct:
	default:
		return fmt.Errorf("%w: unknown charging_mode %q", ErrInvalidThresholds, t.ChargingMode)
	}
	return nil
}

// thresholdsFile mirrors Thresholds with optional fields so partial files keep defaults
type thresholdsFile struct {
	IdleSpeedThreshold     *float64 `json:"idle_speed_threshold,omitempty"`
	Sigmas                 *float64 `json:"sigmas,omitempty"`
	IdleDurationThresholdS *float64 `json:"idle_duration_threshold_s,omitempty"`
	ChargingMode           *string  `json:"charging_mode,omitempty"`
}

// LoadThresholds loads thresholds from a JSON tuning file.
// Fields omitted from the file retain their default values.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return t, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return t, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var f thresholdsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return t, fmt.Errorf("failed to parse tuning file: %w", err)
	}

	if f.IdleSpeedThreshold != nil {
		t.IdleSpeedThreshold = *f.IdleSpeedThreshold
	}
	if f.Sigmas != nil {
		t.Sigmas = *f.Sigmas
	}
	if f.IdleDurationThresholdS != nil {
		t.IdleDurationThresholdS = *f.IdleDurationThresholdS
	}
	if f.ChargingMode != nil {
		t.ChargingMode = ChargingMode(*f.ChargingMode)
	}

	if err := t.Validate(); err != nil {
		return DefaultThresholds(), err
	}
	return t, nil
}
