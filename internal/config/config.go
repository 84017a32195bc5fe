// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/venturelab/idea-scorer/internal/llm"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Input
	Document    string `json:"document,omitempty"`     // Path to source document text file
	DocumentURL string `json:"document_url,omitempty"` // URL to fetch the source document from
	Sector      string `json:"sector,omitempty"`       // Business sector to evaluate against

	// Evaluation
	Provider  string `json:"provider,omitempty"`   // LLM provider: gemini, openai, anthropic
	Model     string `json:"model,omitempty"`      // Model name for the chosen provider
	NumIdeas  int    `json:"num_ideas,omitempty"`  // Number of business ideas to generate
	IdeaIndex int    `json:"idea_index,omitempty"` // Which generated idea to evaluate

	// Checkpoints
	CheckpointDir string `json:"checkpoint_dir,omitempty"` // Directory for checkpoint files
	NoCheckpoints bool   `json:"no_checkpoints,omitempty"` // Disable checkpoint save and resume

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Provider API key
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	ListenAddr  string `json:"listen_addr,omitempty"`  // HTTP listen address for serve mode
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Document != "" && c.DocumentURL != "" {
		return fmt.Errorf("config error: 'document' and 'document_url' are mutually exclusive")
	}

	if c.Provider != "" {
		switch llm.Provider(c.Provider) {
		case llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic:
		default:
			return fmt.Errorf("config error: unknown provider %q", c.Provider)
		}
	}

	// Validate numeric ranges
	if c.NumIdeas < 0 {
		return fmt.Errorf("config error: 'num_ideas' must be non-negative")
	}
	if c.IdeaIndex < 0 {
		return fmt.Errorf("config error: 'idea_index' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Document != "" {
		if _, err := os.Stat(c.Document); os.IsNotExist(err) {
			return fmt.Errorf("config error: document file not found: %s", c.Document)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Document == "" {
		result.Document = defaults.Document
	}
	if result.DocumentURL == "" {
		result.DocumentURL = defaults.DocumentURL
	}
	if result.Sector == "" {
		result.Sector = defaults.Sector
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.CheckpointDir == "" {
		result.CheckpointDir = defaults.CheckpointDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	// Int fields: use default if zero
	if result.NumIdeas == 0 {
		result.NumIdeas = defaults.NumIdeas
	}
	if result.IdeaIndex == 0 {
		result.IdeaIndex = defaults.IdeaIndex
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
