package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	predictiontypes "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/domain/types"
)

// Config struct to hold the configuration settings
type Config struct {
	Scoring       ScoringConfig       `yaml:"scoring"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ScoringConfig holds the bonus table and how entries are evaluated.
type ScoringConfig struct {
	Timezone       string                  `yaml:"timezone"`
	MaxConcurrency int                     `yaml:"max_concurrency"`
	WinnerLabel    string                  `yaml:"winner_label"`
	WinnerBonus    *int                    `yaml:"winner_bonus"`
	Stages         []predictiontypes.Stage `yaml:"stages"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment      string `yaml:"environment"`
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv builds a configuration from environment variables alone.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SCORING_TIMEZONE"); v != "" {
		cfg.Scoring.Timezone = v
	}
	if v := os.Getenv("SCORING_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCORING_MAX_CONCURRENCY %q: %w", v, err)
		}
		cfg.Scoring.MaxConcurrency = n
	}
	if v := os.Getenv("SCORING_WINNER_BONUS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SCORING_WINNER_BONUS %q: %w", v, err)
		}
		cfg.Scoring.WinnerBonus = &n
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("METRICS_NAMESPACE"); v != "" {
		cfg.Observability.MetricsNamespace = v
	}
	return nil
}

// Rules returns the bonus table, filling anything left unset from the
// default table.
func (c ScoringConfig) Rules() (predictiontypes.Rules, error) {
	rules := predictiontypes.DefaultRules()
	if c.WinnerLabel != "" {
		rules.WinnerLabel = c.WinnerLabel
	}
	if c.WinnerBonus != nil {
		rules.WinnerBonus = *c.WinnerBonus
	}
	if len(c.Stages) > 0 {
		rules.Stages = append([]predictiontypes.Stage(nil), c.Stages...)
	}

	if err := rules.Validate(); err != nil {
		return predictiontypes.Rules{}, err
	}
	return rules, nil
}

// Location resolves the timezone serial dates are read in. Empty means UTC.
func (c ScoringConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
