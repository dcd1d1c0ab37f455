// Package config provides configuration file parsing for basketminer.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"github.com/blackwell-systems/basketminer/internal/mining"
)

// FileName is the name of the settings file inside the config directory.
const FileName = "config.yaml"

// Dir returns the basketminer config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/basketminer if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "basketminer"), nil
}

// Settings holds the user's default mining parameters and display options.
// Command-line flags override every field.
type Settings struct {
	MinSupport    float64 `yaml:"min_support"`
	MinConfidence float64 `yaml:"min_confidence"`
	TopItemsets   int     `yaml:"top_itemsets"`
	TopRules      int     `yaml:"top_rules"`
	Workers       int     `yaml:"workers"`
	LogLevel      string  `yaml:"log_level"`
}

// Defaults returns the settings used when no config file exists.
func Defaults() Settings {
	th := mining.DefaultThresholds()
	return Settings{
		MinSupport:    th.MinSupport,
		MinConfidence: th.MinConfidence,
		TopItemsets:   10,
		TopRules:      15,
		Workers:       1,
		LogLevel:      "info",
	}
}

// Thresholds returns the mining thresholds of s.
func (s Settings) Thresholds() mining.Thresholds {
	return mining.Thresholds{MinSupport: s.MinSupport, MinConfidence: s.MinConfidence}
}

// SlogLevel parses LogLevel; unknown values fall back to info.
func (s Settings) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(s.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the thresholds and display limits.
func (s Settings) Validate() error {
	if err := s.Thresholds().Validate(); err != nil {
		return err
	}
	if s.TopItemsets < 0 || s.TopRules < 0 {
		return fmt.Errorf("top_itemsets and top_rules must not be negative")
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	return nil
}

// Load reads {dir}/config.yaml on top of the defaults. If the file does not
// exist, the defaults are returned without an error. Keys missing from the
// file keep their default value.
func Load(dir string) (Settings, error) {
	settings := Defaults()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Defaults(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return Defaults(), fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return settings, nil
}

// Save writes s to {dir}/config.yaml, creating dir if needed.
func Save(dir string, s Settings) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal settings: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
