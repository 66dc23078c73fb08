package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// categoriesFile is the shape of a standalone category catalog file.
type categoriesFile struct {
	Categories CategoryGroups `yaml:"categories"`
}

// namedSections are the config sections whose map keys are names, not
// settings, and must keep their declared casing.
type namedSections struct {
	Accounts   map[string]string `yaml:"accounts"`
	Categories CategoryGroups    `yaml:"categories"`
}

// loadNamedSections replaces the accounts and categories sections of cfg with
// a case-preserving read of the config file.
func loadNamedSections(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("re-reading config file %s: %w", path, err)
	}

	var sections namedSections
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.Accounts = sections.Accounts
	cfg.Categories = sections.Categories
	return nil
}

// LoadCategoriesFile reads a category catalog from a standalone YAML file.
// It is used by commands that categorize ad-hoc text without the full
// pipeline configuration.
func LoadCategoriesFile(path string) (CategoryGroups, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CategoryGroups{}, fmt.Errorf("reading categories file %s: %w", path, err)
	}

	var parsed categoriesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return CategoryGroups{}, fmt.Errorf("parsing categories file %s: %w", path, err)
	}

	return parsed.Categories, nil
}
