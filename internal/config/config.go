// Package config loads CLI configuration from an optional YAML file
// via viper, with command-line flags layered on top by the root command.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	// Path is the installation root directory.
	Path string `mapstructure:"path"`

	// Database is the catalog output path.
	Database string `mapstructure:"database"`

	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	NoProgress bool   `mapstructure:"no_progress"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	viper.SetDefault("database", "holocron.db")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("no_progress", false)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName("holocron")
		viper.SetConfigType("yaml")
	}

	// Read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return &cfg, nil
}
