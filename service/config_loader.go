package service

import (
	"fmt"

	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/internal/config"
	"github.com/ludo-technologies/jsast/internal/parser"
)

// ConfigurationLoaderImpl implements domain.ConfigurationLoader
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads a request template from the file at path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.ParseRequest, error) {
	_, req, err := c.LoadConfigWithTarget(path, "")
	return req, err
}

// LoadConfigWithTarget loads the configuration that applies to target and
// returns both the raw config and the request template derived from it
func (c *ConfigurationLoaderImpl) LoadConfigWithTarget(path, target string) (*config.Config, *domain.ParseRequest, error) {
	cfg, err := config.LoadConfigWithTarget(path, target)
	if err != nil {
		return nil, nil, domain.NewConfigError("failed to load configuration file", err)
	}
	req, err := RequestFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	req.ConfigPath = path
	return cfg, req, nil
}

// LoadDefaultConfig loads a discovered configuration, falling back to the
// built-in defaults when none is found or it cannot be loaded
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.ParseRequest {
	if _, req, err := c.LoadConfigWithTarget("", ""); err == nil {
		return req
	}
	req, _ := RequestFromConfig(config.DefaultConfig())
	return req
}

// RequestFromConfig converts a Config into a request template; Paths and
// OutputWriter are left for the caller
func RequestFromConfig(cfg *config.Config) (*domain.ParseRequest, error) {
	maxSize, err := cfg.Performance.MaxFileSizeBytes()
	if err != nil {
		return nil, domain.NewConfigError("invalid performance settings", err)
	}

	return &domain.ParseRequest{
		Paths:            []string{},
		SourceType:       cfg.Parse.SourceType,
		OutputFormat:     domain.OutputFormat(cfg.Output.Format),
		ShowTree:         cfg.Output.ShowTree,
		ShowComments:     cfg.Parse.CollectComments,
		NoColor:          !cfg.Output.Color,
		WalkOrder:        cfg.Walk.Order,
		MaxDepth:         cfg.Walk.MaxDepth,
		Recursive:        cfg.Analysis.Recursive,
		IncludePatterns:  cfg.Analysis.IncludePatterns,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		RespectGitignore: cfg.Analysis.RespectGitignore,
		MaxFileSize:      maxSize,
		ShowProgress:     cfg.Output.Progress,
	}, nil
}

// MergeConfig overlays the set fields of override onto base. Boolean
// switches can only be turned on by an override.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ParseRequest, override *domain.ParseRequest) *domain.ParseRequest {
	merged := *base

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.SourceType != "" {
		merged.SourceType = override.SourceType
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.ShowTree {
		merged.ShowTree = true
	}
	if override.ShowComments {
		merged.ShowComments = true
	}
	if override.NoColor {
		merged.NoColor = true
	}
	if override.WalkOrder != "" {
		merged.WalkOrder = override.WalkOrder
	}
	if override.MaxDepth > 0 {
		merged.MaxDepth = override.MaxDepth
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}
	if override.MaxFileSize > 0 {
		merged.MaxFileSize = override.MaxFileSize
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// ValidateConfig checks a merged request before a run
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.ParseRequest) error {
	if req.SourceType != "" {
		if _, err := parser.ParseSourceType(req.SourceType); err != nil {
			return fmt.Errorf("invalid source type: %w", err)
		}
	}
	if _, err := parser.ParseOrder(req.WalkOrder); err != nil {
		return err
	}
	if req.MaxDepth < 0 {
		return fmt.Errorf("max depth cannot be negative, got %d", req.MaxDepth)
	}
	if _, err := domain.ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, table)", req.OutputFormat)
	}
	return nil
}
