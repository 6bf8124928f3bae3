// Package config provides configuration management for tagcheck using Viper
// for loading from files, environment variables and command-line flags.
//
// Values come from a .tagcheck.yml file, TAGCHECK_ prefixed environment
// variables and flags bound by the cmd package. Defaults are applied after
// unmarshalling and the result is validated before use.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/tagcheck/internal/logging"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	DefaultMaxReport = 10
	DefaultDebounce  = 300 * time.Millisecond
)

type Config struct {
	Check CheckConfig `yaml:"check"`
	Watch WatchConfig `yaml:"watch"`
	Log   LogConfig   `yaml:"log"`
}

type CheckConfig struct {
	File      string `yaml:"file"`
	Format    string `yaml:"format"`
	MaxReport int    `yaml:"max_report" mapstructure:"max_report"`
	Strict    bool   `yaml:"strict"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// viper does not always surface flag-bound keys through Unmarshal
	if viper.IsSet("check.file") {
		config.Check.File = viper.GetString("check.file")
	}
	if viper.IsSet("check.format") {
		config.Check.Format = viper.GetString("check.format")
	}
	if viper.IsSet("check.max_report") {
		config.Check.MaxReport = viper.GetInt("check.max_report")
	}
	if viper.IsSet("check.strict") {
		config.Check.Strict = viper.GetBool("check.strict")
	}
	if viper.IsSet("watch.debounce") {
		config.Watch.Debounce = viper.GetDuration("watch.debounce")
	}
	if viper.IsSet("log-level") {
		config.Log.Level = viper.GetString("log-level")
	}

	if config.Check.Format == "" {
		config.Check.Format = FormatText
	}
	if !viper.IsSet("check.max_report") && config.Check.MaxReport == 0 {
		config.Check.MaxReport = DefaultMaxReport
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = DefaultDebounce
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values
func validateConfig(config *Config) error {
	if err := validateCheckConfig(&config.Check); err != nil {
		return fmt.Errorf("check config: %w", err)
	}

	if config.Watch.Debounce < 0 {
		return fmt.Errorf("watch config: debounce must not be negative: %s", config.Watch.Debounce)
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log config: unsupported format %q", config.Log.Format)
	}

	return nil
}

func validateCheckConfig(config *CheckConfig) error {
	if err := ValidateFormat(config.Format); err != nil {
		return err
	}

	if config.MaxReport < 0 {
		return fmt.Errorf("max_report must not be negative: %d", config.MaxReport)
	}

	if config.File != "" {
		if err := validatePath(config.File); err != nil {
			return fmt.Errorf("invalid file '%s': %w", config.File, err)
		}
	}

	return nil
}

// ValidateFormat checks that format names a supported report format.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}

// validatePath validates a file path taken from configuration
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path contains traversal: %s", path)
		}
	}

	if strings.ContainsRune(cleanPath, 0) {
		return fmt.Errorf("path contains NUL byte")
	}

	return nil
}
