// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// CategoryDef describes a single category as declared in configuration.
// Missing fields default to empty values; the type defaults to the containing
// group's type when the registry is built.
type CategoryDef struct {
	Description  string   `mapstructure:"description" yaml:"description"`
	Keywords     []string `mapstructure:"keywords" yaml:"keywords"`
	CategoryType string   `mapstructure:"category_type" yaml:"category_type"`
}

// CategoryGroups holds the income and expense category catalogs.
type CategoryGroups struct {
	Income  map[string]CategoryDef `mapstructure:"income" yaml:"income"`
	Expense map[string]CategoryDef `mapstructure:"expense" yaml:"expense"`
}

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Input struct {
		Directory string `mapstructure:"directory"`
	} `mapstructure:"input"`

	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Embedding struct {
		Model  string `mapstructure:"model"`
		APIKey string `mapstructure:"api_key"` // Never serialize the API key
	} `mapstructure:"embedding"`

	Categorization struct {
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
		FuzzyThreshold      float64 `mapstructure:"fuzzy_threshold"`
	} `mapstructure:"categorization"`

	Sheets struct {
		Enabled         bool   `mapstructure:"enabled"`
		SpreadsheetID   string `mapstructure:"spreadsheet_id"`
		TabName         string `mapstructure:"tab_name"`
		CredentialsFile string `mapstructure:"credentials_file"`
	} `mapstructure:"sheets"`

	// Accounts maps account name (bank) to a human description. Accounts are
	// seeded into the store on first run; a statement file can only be loaded
	// for a known account.
	Accounts map[string]string `mapstructure:"accounts"`

	Categories CategoryGroups `mapstructure:"categories"`
}

// Load initializes Viper configuration with hierarchical loading: defaults,
// then an optional config.yaml, then FINLEDGER_-prefixed environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.finledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine, defaults and env vars still apply.
	}

	// The Gemini key is conventionally unprefixed.
	if err := v.BindEnv("embedding.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper lower-cases map keys during Unmarshal. Category and account
	// names are user-visible identifiers (registry order, database rows,
	// the published ledger), so those sections are re-read from the file
	// with yaml.v3, which preserves key casing.
	if file := v.ConfigFileUsed(); file != "" {
		if err := loadNamedSections(file, &config); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("input.directory", "input")
	v.SetDefault("database.path", filepath.Join("database", "finance.db"))

	v.SetDefault("embedding.model", "text-embedding-004")

	v.SetDefault("categorization.confidence_threshold", 0.25)
	v.SetDefault("categorization.fuzzy_threshold", 90.0)

	v.SetDefault("sheets.enabled", false)
	v.SetDefault("sheets.tab_name", "Raw_Data")
	v.SetDefault("sheets.credentials_file", "service_account.json")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if t := config.Categorization.ConfidenceThreshold; t < -1.0 || t > 1.0 {
		return fmt.Errorf("categorization.confidence_threshold must be between -1.0 and 1.0, got: %f", t)
	}

	if t := config.Categorization.FuzzyThreshold; t < 0.0 || t > 100.0 {
		return fmt.Errorf("categorization.fuzzy_threshold must be between 0 and 100, got: %f", t)
	}

	if config.Sheets.Enabled && config.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("sheets.spreadsheet_id required when sheets publishing is enabled")
	}

	return nil
}

// LoadEnv loads environment variables from a .env file if one exists in the
// current or parent directory.
func LoadEnv() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}
