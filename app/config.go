package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidColor    = errors.New("color must be auto, always or never")
	ErrInvalidLogLevel = errors.New("unknown log level")
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"

	defaultIndent = "  "
)

// Config holds the CLI settings.
type Config struct {
	Pretty  PrettyConfig  `mapstructure:"pretty"`
	Color   string        `mapstructure:"color"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PrettyConfig holds settings for --pretty output.
type PrettyConfig struct {
	Indent string `mapstructure:"indent"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads regexr.yaml, from configPath if given, and REGEXR_*
// environment variables on top of the defaults. A missing file is not an
// error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("regexr")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(filepath.Join(home, ".config", "regexr"))
		}
	}

	viperCfg.SetEnvPrefix("REGEXR")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("pretty.indent", defaultIndent)
	viperCfg.SetDefault("color", colorAuto)
	viperCfg.SetDefault("logging.level", "info")
}

func validateConfig(config *Config) error {
	switch config.Color {
	case colorAuto, colorAlways, colorNever:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColor, config.Color)
	}

	if _, ok := logLevels[config.Logging.Level]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	return logLevels[c.Logging.Level]
}
