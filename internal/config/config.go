// Package config provides configuration loading and validation for the CLI, and the
// credential resolver for the job-search and model API keys.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultDataDir is where the application log and cover letters are written.
const DefaultDataDir = "data"

// Config represents the CLI configuration that can be loaded from a YAML or JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Storage
	DataDir         string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	ApplicationsLog string `json:"applications_log,omitempty" yaml:"applications_log,omitempty"` // CSV path
	CoverLetterDir  string `json:"cover_letter_dir,omitempty" yaml:"cover_letter_dir,omitempty"`
	DatabaseURL     string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // Optional PostgreSQL mirror

	// Search
	Location       string `json:"location,omitempty" yaml:"location,omitempty"`
	ResultsPerPage int    `json:"results_per_page,omitempty" yaml:"results_per_page,omitempty" validate:"gte=0,lte=25"`
	UserAgent      string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`

	// Models (empty keeps the stage defaults)
	AnalysisModel  string `json:"analysis_model,omitempty" yaml:"analysis_model,omitempty"`
	TailoringModel string `json:"tailoring_model,omitempty" yaml:"tailoring_model,omitempty"`
	OutreachModel  string `json:"outreach_model,omitempty" yaml:"outreach_model,omitempty"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// LoadConfig loads configuration from a .yaml/.yml or .json file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: data_dir is not a directory: %s", c.DataDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.DataDir, defaults.DataDir)
	fill(&result.ApplicationsLog, defaults.ApplicationsLog)
	fill(&result.CoverLetterDir, defaults.CoverLetterDir)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.Location, defaults.Location)
	fill(&result.UserAgent, defaults.UserAgent)
	fill(&result.AnalysisModel, defaults.AnalysisModel)
	fill(&result.TailoringModel, defaults.TailoringModel)
	fill(&result.OutreachModel, defaults.OutreachModel)

	if result.ResultsPerPage == 0 {
		result.ResultsPerPage = defaults.ResultsPerPage
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LogPath returns the application log path, derived from DataDir when unset.
func (c *Config) LogPath() string {
	if c.ApplicationsLog != "" {
		return c.ApplicationsLog
	}
	return filepath.Join(c.dataDir(), "applications_log.csv")
}

// CoverLetterPath returns the cover letter directory, derived from DataDir when unset.
func (c *Config) CoverLetterPath() string {
	if c.CoverLetterDir != "" {
		return c.CoverLetterDir
	}
	return filepath.Join(c.dataDir(), "cover_letters")
}

func (c *Config) dataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir
}
