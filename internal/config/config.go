package config

import (
	"log"
	"os"
	"strconv"
)

// Config 应用配置
type Config struct {
	Port        string
	JWTSecret   string // Empty disables auth on upload endpoints
	MaxUploadMB int64
	RateLimit   int // Requests per minute per IP
	Workers     int // Files or days processed concurrently
	SampleFile  string
	TuningFile  string

	Thresholds Thresholds
}

// Load 加载配置
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	sampleFile := os.Getenv("SAMPLE_FILE")
	if sampleFile == "" {
		sampleFile = "sample_data.csv"
	}

	cfg := &Config{
		Port:        port,
		JWTSecret:   os.Getenv("JWT_SECRET"),
		MaxUploadMB: int64(envInt("MAX_UPLOAD_MB", 64)),
		RateLimit:   envInt("RATE_LIMIT", 120),
		Workers:     envInt("WORKERS", 4),
		SampleFile:  sampleFile,
		TuningFile:  os.Getenv("TUNING_FILE"),
		Thresholds:  DefaultThresholds(),
	}

	if cfg.TuningFile != "" {
		t, err := LoadThresholds(cfg.TuningFile)
		if err != nil {
			log.Printf("[Config] Ignoring tuning file %s: %v", cfg.TuningFile, err)
		} else {
			cfg.Thresholds = t
		}
	}

	cfg.Thresholds.IdleSpeedThreshold = envFloat("IDLE_SPEED_MPS", cfg.Thresholds.IdleSpeedThreshold)
	cfg.Thresholds.Sigmas = envFloat("SIGMAS", cfg.Thresholds.Sigmas)
	cfg.Thresholds.IdleDurationThresholdS = envFloat("IDLE_DURATION_THRESHOLD_S", cfg.Thresholds.IdleDurationThresholdS)
	if mode := os.Getenv("CHARGING_MODE"); mode != "" {
		cfg.Thresholds.ChargingMode = ChargingMode(mode)
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return cfg
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] Invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[Config] Invalid %s=%q, using %g", key, v, def)
		return def
	}
	return f
}
