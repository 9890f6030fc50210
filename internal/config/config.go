package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the reporting options recognized by the engine. The
// formatting options (pretty_print, precision) affect only the serialized
// form, never the computed values.
type Config struct {
	// Branch enables arc computation and the branch fields of the report.
	Branch bool `mapstructure:"branch"`

	// ReportFunctions and ReportClasses independently gate the per-region
	// breakdown nested under each file entry.
	ReportFunctions bool `mapstructure:"report_functions"`
	ReportClasses   bool `mapstructure:"report_classes"`

	// ShowContexts attaches the per-line dynamic context labels.
	ShowContexts bool `mapstructure:"show_contexts"`

	// PrettyPrint indents the JSON output.
	PrettyPrint bool `mapstructure:"pretty_print"`

	// Precision is the number of decimal digits in displayed percentages.
	Precision int `mapstructure:"precision"`

	LogLevel string `mapstructure:"log_level"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Precision: 1,
		LogLevel:  "info",
	}
}

// Load reads a configuration file from the "configs" directory into a struct.
// The configName parameter should be the base name of the file without the
// extension (e.g., "covjson").
func Load(configName string, result interface{}) error {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := v.Unmarshal(result); err != nil {
		return fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	return nil
}

// LoadConfig loads the "covjson" config file on top of the defaults. A
// missing file is not an error; every option has a usable default.
func LoadConfig() (*Config, error) {
	cfg := Default()
	if err := Load("covjson", cfg); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return nil, err
	}
	if cfg.Precision < 0 {
		return nil, fmt.Errorf("precision must be non-negative, got %d", cfg.Precision)
	}
	return cfg, nil
}
