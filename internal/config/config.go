// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for pyperfcheck
type Config struct {
	// General settings
	Version     string `yaml:"version" json:"version"`
	ProjectName string `yaml:"project_name,omitempty" json:"project_name,omitempty"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Rule-specific configurations
	Rules RulesConfig `yaml:"rules" json:"rules"`

	// File patterns
	Files FilesConfig `yaml:"files" json:"files"`
}

type AnalysisConfig struct {
	// Performance score thresholds
	ScoreThresholds ScoreThresholds `yaml:"score_thresholds" json:"score_thresholds"`

	// Enable/disable entire categories
	EnabledCategories []string `yaml:"enabled_categories" json:"enabled_categories"`
}

type ScoreThresholds struct {
	Excellent int `yaml:"excellent" json:"excellent"` // >= 90
	Good      int `yaml:"good" json:"good"`           // >= 75
	Fair      int `yaml:"fair" json:"fair"`           // >= 50
	Poor      int `yaml:"poor" json:"poor"`           // < 50
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Show suggestions
	ShowSuggestions bool `yaml:"show_suggestions" json:"show_suggestions"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

type RulesConfig struct {
	// Repeated ORM queries in loops
	Queries QueryRules `yaml:"queries" json:"queries"`

	// Blocking calls inside async functions
	Async AsyncRules `yaml:"async" json:"async"`

	// Inefficient loop patterns
	Loops LoopRules `yaml:"loops" json:"loops"`

	// Whole-structure memory loads
	Memory MemoryRules `yaml:"memory" json:"memory"`
}

type QueryRules struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type AsyncRules struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type LoopRules struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Loop chains reaching this depth are reported
	MaxNestingDepth int `yaml:"max_nesting_depth" json:"max_nesting_depth"`

	// Flag += string building inside loops
	DetectStringConcat bool `yaml:"detect_string_concat" json:"detect_string_concat"`
}

type MemoryRules struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type FilesConfig struct {
	// Include patterns
	Include []string `yaml:"include" json:"include"`

	// Exclude patterns
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Whether to analyze test files
	IncludeTests bool `yaml:"include_tests" json:"include_tests"`

	// Max file size (in KB)
	MaxFileSize int `yaml:"max_file_size" json:"max_file_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			ScoreThresholds: ScoreThresholds{
				Excellent: 90,
				Good:      75,
				Fair:      50,
				Poor:      0,
			},
			EnabledCategories: []string{
				"repeated_query_in_loop", "blocking_io_in_async",
				"inefficient_loop", "memory_load",
			},
		},
		Output: OutputConfig{
			Format:          "console",
			Colors:          true,
			Verbose:         false,
			ShowSuggestions: true,
		},
		Rules: RulesConfig{
			Queries: QueryRules{Enabled: true},
			Async:   AsyncRules{Enabled: true},
			Loops: LoopRules{
				Enabled:            true,
				MaxNestingDepth:    3,
				DetectStringConcat: true,
			},
			Memory: MemoryRules{Enabled: true},
		},
		Files: FilesConfig{
			Include:      []string{"**/*.py"},
			Exclude:      []string{"venv/**", ".git/**", "__pycache__/**", "node_modules/**"},
			IncludeTests: false,
			MaxFileSize:  1024, // 1MB
		},
	}
}

// LoadConfig loads configuration from file or returns default
func LoadConfig(configPath string) (*Config, error) {
	// If no config path provided, look for default config files
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config found, return default
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig() // Start with defaults

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".pyperfcheck.yml",
		".pyperfcheck.yaml",
		"pyperfcheck.yml",
		"pyperfcheck.yaml",
		".config/pyperfcheck.yml",
		".config/pyperfcheck.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	st := c.Analysis.ScoreThresholds
	if st.Excellent < st.Good || st.Good < st.Fair || st.Fair < st.Poor {
		return fmt.Errorf("score thresholds must be in descending order")
	}

	validFormats := []string{"console", "json"}
	formatValid := false
	for _, format := range validFormats {
		if c.Output.Format == format {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	if c.Rules.Loops.Enabled && c.Rules.Loops.MaxNestingDepth < 2 {
		return fmt.Errorf("max_nesting_depth must be at least 2")
	}

	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}

// IsRuleEnabled checks if a specific rule is enabled
func (c *Config) IsRuleEnabled(ruleType string) bool {
	switch ruleType {
	case "repeated_query":
		return c.Rules.Queries.Enabled
	case "blocking_async":
		return c.Rules.Async.Enabled
	case "inefficient_loop":
		return c.Rules.Loops.Enabled
	case "memory_load":
		return c.Rules.Memory.Enabled
	default:
		return false
	}
}
