/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package config loads goproj configuration from config files and the
// environment via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for goproj
type Config struct {
	Manifest ManifestConfig `mapstructure:"manifest"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// ManifestConfig holds manifest location options
type ManifestConfig struct {
	Path string `mapstructure:"path"`
}

// BackupConfig controls the on-disk backup copy written before a
// mutating command touches the manifest
type BackupConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Suffix  string `mapstructure:"suffix"`
}

// DefaultsConfig holds fallback targets for mutations that do not name
// a phase or group explicitly
type DefaultsConfig struct {
	Phase string `mapstructure:"phase"`
	Group string `mapstructure:"group"`
}

var defaultConfig = Config{
	Manifest: ManifestConfig{
		Path: "project.manifest",
	},
	Backup: BackupConfig{
		Enabled: true,
		Suffix:  ".backup",
	},
	Defaults: DefaultsConfig{
		Phase: "Compile",
		Group: "Sources",
	},
}

// LoadConfig loads configuration from various sources
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("manifest.path", defaultConfig.Manifest.Path)
	v.SetDefault("backup.enabled", defaultConfig.Backup.Enabled)
	v.SetDefault("backup.suffix", defaultConfig.Backup.Suffix)
	v.SetDefault("defaults.phase", defaultConfig.Defaults.Phase)
	v.SetDefault("defaults.group", defaultConfig.Defaults.Group)

	// Configuration file search paths
	v.SetConfigName(".goproj")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // Current directory
	v.AddConfigPath("$HOME") // Home directory

	// Environment variables
	v.SetEnvPrefix("GOPROJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file (optional); ignore error to use defaults
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	return &config, nil
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	return defaultConfig
}
