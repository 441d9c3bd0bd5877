package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".newscrawl"

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/extraction-instruction.md
var defaultInstruction string

//go:embed config/story-schema.json
var defaultStorySchema string

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	SettingsPath    *string
	InstructionPath *string
	SchemaPath      *string
}

// Settings represents the YAML configuration structure
type Settings struct {
	BaseURL            string `yaml:"base_url"`
	CSSSelector        string `yaml:"css_selector"`
	NoResultsMarker    string `yaml:"no_results_marker"`
	FirstPage          int    `yaml:"first_page"`
	PageTimeoutSeconds int    `yaml:"page_timeout_seconds"`
	SettleDelaySeconds int    `yaml:"settle_delay_seconds"`
	PageDelaySeconds   int    `yaml:"page_delay_seconds"`
	Headless           bool   `yaml:"headless"`
	UserAgent          string `yaml:"user_agent"`
	Extractor          struct {
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"extractor"`
	Output struct {
		Database string `yaml:"database"`
		CSV      string `yaml:"csv"`
		JSON     string `yaml:"json"`
	} `yaml:"output"`
}

// PageTimeout returns the per-page load ceiling.
func (s *Settings) PageTimeout() time.Duration {
	return time.Duration(s.PageTimeoutSeconds) * time.Second
}

// SettleDelay returns the fixed wait after page load, giving lazily rendered
// story widgets time to appear.
func (s *Settings) SettleDelay() time.Duration {
	return time.Duration(s.SettleDelaySeconds) * time.Second
}

// PageDelay returns the optional pause between pages.
func (s *Settings) PageDelay() time.Duration {
	return time.Duration(s.PageDelaySeconds) * time.Second
}

// Config holds configuration and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig creates a new Config with settings and overrides
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	var settingsPath string
	if overrides != nil && overrides.SettingsPath != nil {
		settingsPath = *overrides.SettingsPath
	} else {
		settingsPath = filepath.Join(defaultConfigDir, "settings.yaml")
	}

	settings, err := loadSettings(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

// GetExtractionInstruction returns the extractor instruction prompt (from
// override file or embedded)
func (c *Config) GetExtractionInstruction() string {
	if c.Overrides != nil && c.Overrides.InstructionPath != nil {
		if content, err := os.ReadFile(*c.Overrides.InstructionPath); err == nil {
			return string(content)
		}
	}
	return defaultInstruction
}

// GetStorySchema returns the JSON schema for structured extraction (from
// override file or embedded)
func (c *Config) GetStorySchema() string {
	if c.Overrides != nil && c.Overrides.SchemaPath != nil {
		if content, err := os.ReadFile(*c.Overrides.SchemaPath); err == nil {
			return string(content)
		}
	}
	return defaultStorySchema
}

// loadSettings loads settings from a YAML file, falling back to the embedded
// defaults when no file exists at the given path.
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		data = []byte(defaultSettings)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	applySettingsDefaults(&settings)
	return &settings, nil
}

// applySettingsDefaults fills in values a hand-edited settings file may omit.
func applySettingsDefaults(s *Settings) {
	if s.FirstPage < 1 {
		s.FirstPage = 1
	}
	if s.PageTimeoutSeconds <= 0 {
		s.PageTimeoutSeconds = 60
	}
	if s.SettleDelaySeconds < 0 {
		s.SettleDelaySeconds = 0
	}
	if s.NoResultsMarker == "" {
		s.NoResultsMarker = "No Results Found"
	}
	if s.Extractor.MaxTokens <= 0 {
		s.Extractor.MaxTokens = 4000
	}
	if s.Output.Database == "" {
		s.Output.Database = "newscrawl.db"
	}
}

// ensureConfigExists creates the config directory and writes the default
// settings file on first run so users have something to customize.
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsPath := filepath.Join(defaultConfigDir, "settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing default settings: %w", err)
		}
	}

	return nil
}
