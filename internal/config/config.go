// =============================================================================
// W2CAD to RFA300 Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. A single YAML file (config.yaml by default) holds every
// setting: there is exactly one source dialect (W2CAD) and one destination
// dialect (RFA300), so no per-format configuration layer exists.
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Minimal: one file, flat structure
//   - Defaulted: every unset option receives a sensible default on load
//   - Validated: directories are created on load if missing
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the root directory scanned (recursively) for W2CAD
	// .ASC exports.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the root directory where RFA300 files are written.
	// The input directory tree is mirrored beneath it.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ReportDir is the directory where batch summary workbooks and error
	// logs are written.
	// Default: "./reports"
	ReportDir string `yaml:"report_dir"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputSuffix is appended to the source file stem to form the output
	// file name: "6X Open Field.ASC" becomes "6X Open Field_rfa.ASC".
	// Default: "_rfa.ASC"
	OutputSuffix string `yaml:"output_suffix"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files converted concurrently.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError determines whether a file with validation errors is
	// still transcoded. Parse failures and unsupported codes always fail
	// the file regardless of this setting.
	// Default: false
	ContinueOnError bool `yaml:"continue_on_error"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed.
//
// A missing configuration file is not an error: the defaults describe a
// complete working setup, so the zero configuration is simply defaulted.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Run entirely on defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply default values.
	applyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ReportDir == "" {
		config.ReportDir = "./reports"
	}
	if config.OutputSuffix == "" {
		config.OutputSuffix = "_rfa.ASC"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	// Create required directories if they don't exist.
	dirs := []string{
		config.InputDir,
		config.OutputDir,
		config.ReportDir,
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
