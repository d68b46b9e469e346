package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ludo-technologies/jsast/internal/constants"
	"github.com/spf13/viper"
)

// Default performance settings
const (
	// DefaultTimeoutSeconds bounds a whole multi-file run
	DefaultTimeoutSeconds = 300

	// DefaultMaxDepth of 0 walks the full tree
	DefaultMaxDepth = 0
)

// Config represents the main configuration structure
type Config struct {
	// Parse holds grammar selection and conversion options
	Parse ParseConfig `json:"parse" mapstructure:"parse" yaml:"parse"`

	// Walk holds traversal options used by listings and statistics
	Walk WalkConfig `json:"walk" mapstructure:"walk" yaml:"walk"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds file discovery configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Performance holds concurrency and resource limits
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`
}

// ParseConfig holds options for the parser
type ParseConfig struct {
	// SourceType forces a grammar (module, script, jsx, ts, typescript, tsx).
	// Empty selects the grammar from each file's extension.
	SourceType string `json:"source_type" mapstructure:"source_type" yaml:"source_type"`

	// CollectComments controls whether comments are included in results
	CollectComments bool `json:"collect_comments" mapstructure:"collect_comments" yaml:"collect_comments"`
}

// WalkConfig holds traversal options
type WalkConfig struct {
	// Order is "pre" (depth-first, source order) or "level" (breadth-first)
	Order string `json:"order" mapstructure:"order" yaml:"order"`

	// MaxDepth limits the walk; 0 means unlimited
	MaxDepth int `json:"max_depth" mapstructure:"max_depth" yaml:"max_depth"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, table
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowTree includes the walked node listing for every file
	ShowTree bool `json:"show_tree" mapstructure:"show_tree" yaml:"show_tree"`

	// Color enables ANSI colors in text output
	Color bool `json:"color" mapstructure:"color" yaml:"color"`

	// Progress shows a progress bar on interactive terminals
	Progress bool `json:"progress" mapstructure:"progress" yaml:"progress"`
}

// AnalysisConfig holds file discovery configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether directories are walked recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files matched by the root .gitignore
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// PerformanceConfig holds concurrency and resource limits
type PerformanceConfig struct {
	// MaxGoroutines bounds concurrent file parses; 0 uses the CPU count
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole run
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`

	// MaxFileSize skips larger files, e.g. "2MB" or "512 KiB"; "0" disables the limit
	MaxFileSize string `json:"max_file_size" mapstructure:"max_file_size" yaml:"max_file_size"`
}

// MaxFileSizeBytes parses MaxFileSize
func (p PerformanceConfig) MaxFileSizeBytes() (uint64, error) {
	s := strings.TrimSpace(p.MaxFileSize)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("performance.max_file_size %q: %w", p.MaxFileSize, err)
	}
	return n, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			SourceType:      "",
			CollectComments: true,
		},
		Walk: WalkConfig{
			Order:    constants.WalkOrderPre,
			MaxDepth: DefaultMaxDepth,
		},
		Output: OutputConfig{
			Format:   constants.OutputFormatText,
			ShowTree: false,
			Color:    true,
			Progress: true,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{
				"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx",
				"**/*.mjs", "**/*.cjs", "**/*.mts", "**/*.cts",
			},
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				"dist",
				"build",
				"out",
				".next",
				".nuxt",
				".cache",
				"coverage",
				".git",
				"*.min.js",
				"*.bundle.js",
				"*.d.ts",
			},
			Recursive:        true,
			RespectGitignore: true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  runtime.NumCPU(),
			TimeoutSeconds: DefaultTimeoutSeconds,
			MaxFileSize:    constants.DefaultMaxFileSize,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration, discovering a file from
// targetPath upward when configPath is empty
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// newViper returns an isolated viper instance seeded with every default so
// JSAST_* environment variables can override keys that no file sets
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("parse.source_type", d.Parse.SourceType)
	v.SetDefault("parse.collect_comments", d.Parse.CollectComments)
	v.SetDefault("walk.order", d.Walk.Order)
	v.SetDefault("walk.max_depth", d.Walk.MaxDepth)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.show_tree", d.Output.ShowTree)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("output.progress", d.Output.Progress)
	v.SetDefault("analysis.include_patterns", d.Analysis.IncludePatterns)
	v.SetDefault("analysis.exclude_patterns", d.Analysis.ExcludePatterns)
	v.SetDefault("analysis.recursive", d.Analysis.Recursive)
	v.SetDefault("analysis.respect_gitignore", d.Analysis.RespectGitignore)
	v.SetDefault("performance.max_goroutines", d.Performance.MaxGoroutines)
	v.SetDefault("performance.timeout_seconds", d.Performance.TimeoutSeconds)
	v.SetDefault("performance.max_file_size", d.Performance.MaxFileSize)
	return v
}

// loadConfigFromFile reads, merges and validates a configuration file.
// An empty path yields the defaults plus environment overrides.
func loadConfigFromFile(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// configCandidates lists the discoverable file names in order of preference
var configCandidates = []string{
	".jsast.yaml",
	"jsast.yaml",
	"jsast.yml",
	".jsast.toml",
	"jsast.json",
	".jsast.json",
}

// searchConfigInDirectory returns the first candidate present in dir
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for a configuration file starting at targetPath
// and walking up to the filesystem root, then in the working directory,
// the XDG config directory, the home directory and finally JSAST_CONFIG.
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		if absPath, err := filepath.Abs(targetPath); err == nil {
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, configCandidates); config != "" {
					return config
				}
				parent := filepath.Dir(dir)
				if parent == dir || dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", configCandidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), configCandidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), configCandidates); config != "" {
			return config
		}
		if config := searchConfigInDirectory(home, configCandidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.ConfigEnvVar); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

var (
	validSourceTypes = map[string]bool{
		"": true, "module": true, "script": true, "jsx": true,
		"ts": true, "typescript": true, "tsx": true,
	}
	validFormats = map[string]bool{
		constants.OutputFormatText:  true,
		constants.OutputFormatJSON:  true,
		constants.OutputFormatYAML:  true,
		constants.OutputFormatTable: true,
	}
	validOrders = map[string]bool{
		constants.WalkOrderPre:   true,
		constants.WalkOrderLevel: true,
	}
)

// Validate validates the configuration values
func (c *Config) Validate() error {
	if !validSourceTypes[c.Parse.SourceType] {
		return fmt.Errorf("invalid parse.source_type '%s', must be one of: module, script, jsx, ts, typescript, tsx", c.Parse.SourceType)
	}

	if !validOrders[c.Walk.Order] {
		return fmt.Errorf("invalid walk.order '%s', must be one of: pre, level", c.Walk.Order)
	}
	if c.Walk.MaxDepth < 0 {
		return fmt.Errorf("walk.max_depth must be >= 0, got %d", c.Walk.MaxDepth)
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, table", c.Output.Format)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}
	if _, err := c.Performance.MaxFileSizeBytes(); err != nil {
		return err
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("parse", config.Parse)
	v.Set("walk", config.Walk)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)
	v.Set("performance", config.Performance)

	return v.WriteConfig()
}
