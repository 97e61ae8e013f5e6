// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/models"
	"github.com/trakli/webui/internal/validation"
)

// EnvPrefix prefixes every environment override, e.g. TRAKLI_LOG_LEVEL.
const EnvPrefix = "TRAKLI"

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type APIConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Token          string `mapstructure:"token" yaml:"-"` // Never serialize the token
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

type StatisticsConfig struct {
	// Source is "local" or "remote".
	Source          string             `mapstructure:"source" yaml:"source"`
	DefaultCurrency string             `mapstructure:"default_currency" yaml:"default_currency"`
	Locale          string             `mapstructure:"locale" yaml:"locale"`
	Rates           map[string]float64 `mapstructure:"rates" yaml:"rates"`
}

type DataConfig struct {
	SnapshotFile string `mapstructure:"snapshot_file" yaml:"snapshot_file"`
}

type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	API        APIConfig        `mapstructure:"api" yaml:"api"`
	Statistics StatisticsConfig `mapstructure:"statistics" yaml:"statistics"`
	Data       DataConfig       `mapstructure:"data" yaml:"data"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads configuration like InitializeConfig, but reads file
// instead of searching the default locations when file is not empty. An
// explicit file that cannot be read is an error.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.trakli")
		v.AddConfigPath(".trakli")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Statistics.Rates = normalizeRates(config.Statistics.Rates)
	config.Statistics.Source = strings.ToLower(strings.TrimSpace(config.Statistics.Source))
	config.Statistics.DefaultCurrency = currencyutils.NormalizeCode(config.Statistics.DefaultCurrency)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// API defaults
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout_seconds", 15)

	// Statistics defaults
	v.SetDefault("statistics.source", models.SourceLocal)
	v.SetDefault("statistics.default_currency", currencyutils.DefaultCurrency)
	v.SetDefault("statistics.locale", currencyutils.DefaultLocale)
	rates := make(map[string]interface{})
	for code, rate := range currencyutils.DefaultRates() {
		rates[code] = rate
	}
	v.SetDefault("statistics.rates", rates)

	// Data defaults
	v.SetDefault("data.snapshot_file", "")

	// Output defaults
	v.SetDefault("output.format", "text")
	v.SetDefault("output.delimiter", ",")
}

// normalizeRates upper-cases the currency codes; viper lower-cases map keys.
func normalizeRates(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for code, rate := range in {
		out[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return out
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Statistics.Source != models.SourceLocal && config.Statistics.Source != models.SourceRemote {
		return fmt.Errorf("invalid statistics source: %s (must be 'local' or 'remote')", config.Statistics.Source)
	}

	for code, rate := range config.Statistics.Rates {
		if rate <= 0 {
			return fmt.Errorf("statistics.rates.%s must be positive, got: %f", code, rate)
		}
	}

	if config.API.TimeoutSeconds < 1 || config.API.TimeoutSeconds > 300 {
		return fmt.Errorf("api.timeout_seconds must be between 1 and 300, got: %d", config.API.TimeoutSeconds)
	}

	if err := validation.IsValidOutputFormat(config.Output.Format); err != nil {
		return err
	}

	if err := validation.IsValidDelimiter(config.Output.Delimiter); err != nil {
		return err
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
