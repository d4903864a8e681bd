package service

import (
	"github.com/ludo-technologies/covgate/domain"
	"github.com/ludo-technologies/covgate/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.CoverageRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	req := c.convertToCoverageRequest(cfg)
	req.ConfigPath = path
	return req, nil
}

// LoadConfigForTrace loads configuration, discovering a config file upward
// from the trace path when no explicit path is given.
func (c *ConfigurationLoaderImpl) LoadConfigForTrace(path string, tracePath string) (*domain.CoverageRequest, error) {
	cfg, err := config.LoadConfigWithTarget(path, tracePath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	req := c.convertToCoverageRequest(cfg)
	req.ConfigPath = path
	return req, nil
}

// LoadDefaultConfig loads the default configuration, picking up a
// discovered config file when one exists.
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.CoverageRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return c.convertToCoverageRequest(cfg)
}

// MergeConfig merges CLI flags with configuration file. Zero values in the
// override keep the base setting; paths and mode flags always win.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.CoverageRequest, override *domain.CoverageRequest) *domain.CoverageRequest {
	merged := *base

	if override.TracePath != "" {
		merged.TracePath = override.TracePath
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.CIMode {
		merged.CIMode = true
	}
	if override.Verbose {
		merged.Verbose = true
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	if len(override.GeneratedMarkers) > 0 {
		merged.GeneratedMarkers = override.GeneratedMarkers
	}
	if len(override.LayerMarkers) > 0 {
		merged.LayerMarkers = override.LayerMarkers
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	return &merged
}

// convertToCoverageRequest converts a Config to CoverageRequest
func (c *ConfigurationLoaderImpl) convertToCoverageRequest(cfg *config.Config) *domain.CoverageRequest {
	return &domain.CoverageRequest{
		TracePath:        cfg.Trace.File,
		OutputFormat:     domain.OutputFormat(cfg.Output.Format),
		Verbose:          cfg.Output.Verbose,
		GeneratedMarkers: cfg.Generated.Markers,
		LayerMarkers:     cfg.LayerMarkers(),
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		Targets:          cfg.ThresholdTable(),
	}
}
