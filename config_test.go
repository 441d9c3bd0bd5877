package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadSettingsEmbeddedDefaults(t *testing.T) {
	// A missing file falls back to the embedded defaults.
	settings, err := loadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}

	if settings.BaseURL == "" {
		t.Error("default base_url missing")
	}
	if settings.NoResultsMarker != "No Results Found" {
		t.Errorf("no_results_marker = %q", settings.NoResultsMarker)
	}
	if settings.FirstPage != 1 {
		t.Errorf("first_page = %d, want 1", settings.FirstPage)
	}
	if settings.PageTimeout() != 60*time.Second {
		t.Errorf("PageTimeout() = %v, want 60s", settings.PageTimeout())
	}
	if settings.SettleDelay() != 3*time.Second {
		t.Errorf("SettleDelay() = %v, want 3s", settings.SettleDelay())
	}
	if !settings.Headless {
		t.Error("headless should default to true")
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	content := `base_url: "https://news.test/listing"
css_selector: ".card"
no_results_marker: "Nothing here"
first_page: 2
page_timeout_seconds: 10
settle_delay_seconds: 1
extractor:
  max_tokens: 1234
  temperature: 0.5
`
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := loadSettings(path)
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}

	if settings.BaseURL != "https://news.test/listing" {
		t.Errorf("base_url = %q", settings.BaseURL)
	}
	if settings.CSSSelector != ".card" {
		t.Errorf("css_selector = %q", settings.CSSSelector)
	}
	if settings.FirstPage != 2 {
		t.Errorf("first_page = %d, want 2", settings.FirstPage)
	}
	if settings.PageTimeout() != 10*time.Second {
		t.Errorf("PageTimeout() = %v, want 10s", settings.PageTimeout())
	}
	if settings.Extractor.MaxTokens != 1234 {
		t.Errorf("max_tokens = %d, want 1234", settings.Extractor.MaxTokens)
	}
	// Omitted fields still get defaults.
	if settings.Output.Database != "newscrawl.db" {
		t.Errorf("output.database = %q", settings.Output.Database)
	}
}

func TestLoadSettingsRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("base_url: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadSettings(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestEmbeddedStorySchema(t *testing.T) {
	config := &Config{Settings: &Settings{}}

	var schema map[string]any
	if err := json.Unmarshal([]byte(config.GetStorySchema()), &schema); err != nil {
		t.Fatalf("embedded story schema is not valid JSON: %v", err)
	}

	text := config.GetStorySchema()
	for _, key := range requiredStoryKeys {
		if !strings.Contains(text, key) {
			t.Errorf("schema missing required field %q", key)
		}
	}
}

func TestEmbeddedExtractionInstruction(t *testing.T) {
	config := &Config{Settings: &Settings{}}
	instruction := config.GetExtractionInstruction()

	for _, fragment := range []string{"story_title", "story_LinkedIn_post", "Read more"} {
		if !strings.Contains(instruction, fragment) {
			t.Errorf("instruction missing %q", fragment)
		}
	}
}

func TestConfigOverrideFiles(t *testing.T) {
	dir := t.TempDir()

	instructionFile := filepath.Join(dir, "instruction.md")
	if err := os.WriteFile(instructionFile, []byte("custom instruction"), 0644); err != nil {
		t.Fatal(err)
	}
	schemaFile := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(schemaFile, []byte(`{"custom": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	config := &Config{
		Settings: &Settings{},
		Overrides: &ConfigOverrides{
			InstructionPath: &instructionFile,
			SchemaPath:      &schemaFile,
		},
	}

	if got := config.GetExtractionInstruction(); got != "custom instruction" {
		t.Errorf("GetExtractionInstruction() = %q", got)
	}
	if got := config.GetStorySchema(); got != `{"custom": true}` {
		t.Errorf("GetStorySchema() = %q", got)
	}
}
