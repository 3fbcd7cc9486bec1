package config

import (
	"os"
	"strconv"

	"goscreen/domain/screening"
	"goscreen/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Screening   ScreeningConfig
	Stimulus    StimulusConfig
	Calibration CalibrationConfig
}

// ScreeningConfig holds the inference engine settings
type ScreeningConfig struct {
	TrialCount        int     // number of trials per session
	Preset            string  // difficulty preset name (gradual, balanced, coarse)
	VirtualSampleSize float64 // weight of the prior in the conjugate cross-check
}

// StimulusConfig holds plate generation settings
type StimulusConfig struct {
	DotCount int
}

// CalibrationConfig holds Monte Carlo calibration settings
type CalibrationConfig struct {
	Subjects    int
	Seed        int64
	Concurrency int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Screening: ScreeningConfig{
			TrialCount:        getEnvIntOrDefault("GOSCREEN_TRIALS", 5),
			Preset:            getEnvOrDefault("GOSCREEN_PRESET", screening.PresetGradual.Name),
			VirtualSampleSize: getEnvFloatOrDefault("GOSCREEN_VIRTUAL_SAMPLE_SIZE", screening.DefaultVirtualSampleSize),
		},
		Stimulus: StimulusConfig{
			DotCount: getEnvIntOrDefault("GOSCREEN_DOT_COUNT", 15000),
		},
		Calibration: CalibrationConfig{
			Subjects:    getEnvIntOrDefault("GOSCREEN_CALIBRATION_SUBJECTS", 200),
			Seed:        getEnvInt64OrDefault("GOSCREEN_SEED", 42),
			Concurrency: getEnvInt64OrDefault("GOSCREEN_CONCURRENCY", 8),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Screening.TrialCount <= 0 {
		return errors.ConfigInvalid("GOSCREEN_TRIALS must be positive")
	}
	if _, err := screening.PresetByName(config.Screening.Preset); err != nil {
		return errors.ConfigInvalid("GOSCREEN_PRESET must be one of gradual, balanced, coarse")
	}
	if config.Screening.VirtualSampleSize <= 0 {
		return errors.ConfigInvalid("GOSCREEN_VIRTUAL_SAMPLE_SIZE must be positive")
	}
	if config.Calibration.Subjects <= 0 {
		return errors.ConfigInvalid("GOSCREEN_CALIBRATION_SUBJECTS must be positive")
	}
	if config.Calibration.Concurrency <= 0 {
		return errors.ConfigInvalid("GOSCREEN_CONCURRENCY must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
