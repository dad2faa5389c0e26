// Package config provides configuration management for the trekdata tools.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the command-line tools look for configuration when no
// -config flag is given.
const DefaultPath = "configs/repair.yaml"

// Configuration validation errors.
var (
	ErrMissingSource       = errors.New("repair.source is required")
	ErrMissingIDField      = errors.New("repair.id_field is required")
	ErrInvalidConcurrency  = errors.New("repair.concurrency must be at least 1")
	ErrPatchRuleIncomplete = errors.New("patch rule requires both field and value")
	ErrSourceMissingPath   = errors.New("path is required")
	ErrNoEnabledSources    = errors.New("at least one source must be enabled")
	ErrInvalidMinRecords   = errors.New("validation.min_records must be non-negative")
	ErrInvalidMaxRecords   = errors.New("validation.max_records must be at least 1")
	ErrMinExceedsMax       = errors.New("validation.min_records cannot exceed validation.max_records")
	ErrMissingDatabasePath = errors.New("seed.database_path is required")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete trekdata configuration.
type Config struct {
	Repair     RepairConfig     `yaml:"repair"`
	Sources    []SourceConfig   `yaml:"sources"`
	Validation ValidationConfig `yaml:"validation"`
	Seed       SeedConfig       `yaml:"seed"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RepairConfig contains repair-specific settings.
type RepairConfig struct {
	Source        string         `yaml:"source"`
	IDField       string         `yaml:"id_field"`
	PrettyPrint   bool           `yaml:"pretty_print"`
	CreateBackup  bool           `yaml:"create_backup"`
	AtomicWrite   bool           `yaml:"atomic_write"`
	WriteManifest bool           `yaml:"write_manifest"`
	Concurrency   int            `yaml:"concurrency"`
	Sanitize      SanitizeConfig `yaml:"sanitize"`
	Patches       PatchesConfig  `yaml:"patches"`
}

// SanitizeConfig controls the pre-parse text cleanup.
type SanitizeConfig struct {
	StripBOM          bool `yaml:"strip_bom"`
	StripControlChars bool `yaml:"strip_control_chars"`
	NormalizeUnicode  bool `yaml:"normalize_unicode"`
}

// PatchesConfig defines the textual patches applied before parsing.
type PatchesConfig struct {
	MissingSeparatorAfter []SeparatorRule `yaml:"missing_separator_after"`
}

// SeparatorRule names a field/value pair known to be missing its trailing
// comma in the dataset.
type SeparatorRule struct {
	Field string `yaml:"field"`
	Value string `yaml:"value"`
}

// SourceConfig represents one dataset file for batch runs.
type SourceConfig struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// DisplayName returns the configured name, falling back to the path.
func (s *SourceConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}

	return s.Path
}

// ValidationConfig defines dataset validation rules.
type ValidationConfig struct {
	MinRecords     int  `yaml:"min_records"`
	MaxRecords     int  `yaml:"max_records"`
	VerifyManifest bool `yaml:"verify_manifest"`
}

// SeedConfig defines where the seed tool loads records into.
type SeedConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration. It mirrors what the tools
// do with no config file at all: repair data/treks.json on the id field, with
// the known missing-comma fix for the "whw" image entry.
func DefaultConfig() *Config {
	return &Config{
		Repair: RepairConfig{
			Source:      "data/treks.json",
			IDField:     "id",
			PrettyPrint: true,
			AtomicWrite: true,
			Concurrency: 2,
			Sanitize: SanitizeConfig{
				StripBOM:          true,
				StripControlChars: true,
			},
			Patches: PatchesConfig{
				MissingSeparatorAfter: []SeparatorRule{
					{Field: "imageFilename", Value: "whw"},
				},
			},
		},
		Validation: ValidationConfig{
			MinRecords:     1,
			MaxRecords:     10000,
			VerifyManifest: true,
		},
		Seed: SeedConfig{
			DatabasePath: "data/treks.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Fields omitted in the file
// keep their defaults from DefaultConfig.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Check repair config
	if c.Repair.Source == "" {
		return ErrMissingSource
	}

	if c.Repair.IDField == "" {
		return ErrMissingIDField
	}

	if c.Repair.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	for i, rule := range c.Repair.Patches.MissingSeparatorAfter {
		if rule.Field == "" || rule.Value == "" {
			return fmt.Errorf("%w: patches.missing_separator_after[%d]", ErrPatchRuleIncomplete, i)
		}
	}

	// Batch sources are optional, but listed ones must be usable
	if len(c.Sources) > 0 {
		enabledCount := 0

		for i, src := range c.Sources {
			if src.Path == "" {
				return fmt.Errorf("%w: sources[%d]", ErrSourceMissingPath, i)
			}

			if src.Enabled {
				enabledCount++
			}
		}

		if enabledCount == 0 {
			return ErrNoEnabledSources
		}
	}

	// Validate validation config
	if c.Validation.MinRecords < 0 {
		return ErrInvalidMinRecords
	}

	if c.Validation.MaxRecords < 1 {
		return ErrInvalidMaxRecords
	}

	if c.Validation.MinRecords > c.Validation.MaxRecords {
		return ErrMinExceedsMax
	}

	// Validate seed config
	if c.Seed.DatabasePath == "" {
		return ErrMissingDatabasePath
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetEnabledSources returns only enabled sources.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Source: %s, IDField: %s, Sources: %d}",
		c.Repair.Source,
		c.Repair.IDField,
		len(c.Sources),
	)
}
