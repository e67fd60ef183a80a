// Package config loads and validates the analytics configuration file.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tradefolio/analytics/pkg/errors"
)

// AnalyticsConfig contains everything the compute and serve commands need.
type AnalyticsConfig struct {
	// StartingBalance anchors the equity timeline.
	StartingBalance float64 `yaml:"starting_balance" validate:"gte=0"`
	// TimeScale is the default window when none is requested.
	TimeScale string `yaml:"time_scale" validate:"required,oneof=1M 3M 6M YTD 1YR ALL"`
	// DataPath is the DuckDB snapshot database path, or ":memory:".
	DataPath string `yaml:"data_path" validate:"required"`
	// SectorTablePath optionally points at a YAML ticker-to-sector table.
	SectorTablePath string `yaml:"sector_table_path"`
	// OutputPath is where the compute command writes its YAML report.
	OutputPath string `yaml:"output_path"`
	// ListenAddr is the HTTP bind address for the serve command.
	ListenAddr string `yaml:"listen_addr"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() AnalyticsConfig {
	return AnalyticsConfig{
		StartingBalance: 0,
		TimeScale:       "ALL",
		DataPath:        "analytics.db",
		SectorTablePath: "",
		OutputPath:      "metrics.yaml",
		ListenAddr:      ":8080",
	}
}

// Validate validates the AnalyticsConfig struct.
func (c *AnalyticsConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid analytics config", err)
	}

	return nil
}

// LoadConfig reads a YAML configuration file, fills unset fields from the
// defaults, and validates the result.
func LoadConfig(path string) (*AnalyticsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
	}

	return ParseConfig(string(data))
}

// ParseConfig parses a YAML configuration string on top of the defaults.
func ParseConfig(yamlConfig string) (*AnalyticsConfig, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(yamlConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
