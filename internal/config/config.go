package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/covgate/domain"
	"github.com/ludo-technologies/covgate/internal/constants"
)

// Default coverage targets, in percent. These mirror the layered
// architecture the tool was built for: business logic is held to a higher
// bar than UI code.
const (
	DefaultOverallTarget      = 80
	DefaultDomainTarget       = 95
	DefaultDataTarget         = 90
	DefaultApplicationTarget  = 85
	DefaultPresentationTarget = 70
	DefaultServicesTarget     = 80
	DefaultCoreTarget         = 80

	// DefaultLayerTarget applies to categories without an explicit entry
	DefaultLayerTarget = 80
)

// Config represents the main configuration structure
type Config struct {
	// Trace holds trace file configuration
	Trace TraceConfig `json:"trace" mapstructure:"trace" yaml:"trace"`

	// Generated holds generated-file detection configuration
	Generated GeneratedConfig `json:"generated" mapstructure:"generated" yaml:"generated"`

	// Layers holds path-to-category classification configuration
	Layers LayersConfig `json:"layers" mapstructure:"layers" yaml:"layers"`

	// Targets holds per-category coverage targets
	Targets TargetsConfig `json:"targets" mapstructure:"targets" yaml:"targets"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds general aggregation configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`
}

// TraceConfig holds trace file configuration
type TraceConfig struct {
	// File is the LCOV trace path to analyze
	File string `json:"file" mapstructure:"file" yaml:"file"`
}

// GeneratedConfig holds generated-file detection configuration
type GeneratedConfig struct {
	// Markers are substrings identifying machine-generated files
	Markers []string `json:"markers" mapstructure:"markers" yaml:"markers"`
}

// LayerMarkerConfig binds one path substring to a category
type LayerMarkerConfig struct {
	Marker   string `json:"marker" mapstructure:"marker" yaml:"marker"`
	Category string `json:"category" mapstructure:"category" yaml:"category"`
}

// LayersConfig holds the ordered classification markers. Order matters:
// markers are evaluated top to bottom and the first match wins.
type LayersConfig struct {
	Markers []LayerMarkerConfig `json:"markers" mapstructure:"markers" yaml:"markers"`
}

// TargetsConfig holds per-category coverage targets in percent
type TargetsConfig struct {
	// Overall is the target gated against in CI mode
	Overall int `json:"overall" mapstructure:"overall" yaml:"overall"`

	// Layers maps category names to their targets
	Layers map[string]int `json:"layers" mapstructure:"layers" yaml:"layers"`

	// Default applies to categories without an explicit entry
	Default int `json:"default" mapstructure:"default" yaml:"default"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Verbose enables per-skipped-block diagnostics
	Verbose bool `json:"verbose" mapstructure:"verbose" yaml:"verbose"`
}

// AnalysisConfig holds general aggregation configuration
type AnalysisConfig struct {
	// ExcludePatterns drop matching source paths from all accounting
	// (gitignore syntax)
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Trace: TraceConfig{
			File: constants.DefaultTraceFile,
		},
		Generated: GeneratedConfig{
			Markers: []string{".g.dart", ".freezed.dart"},
		},
		Layers: LayersConfig{
			Markers: []LayerMarkerConfig{
				{Marker: "/domain/", Category: string(domain.CategoryDomain)},
				{Marker: "/data/", Category: string(domain.CategoryData)},
				{Marker: "/application/", Category: string(domain.CategoryApplication)},
				{Marker: "/presentation/", Category: string(domain.CategoryPresentation)},
				{Marker: "/services/", Category: string(domain.CategoryServices)},
				{Marker: "/core/", Category: string(domain.CategoryCore)},
			},
		},
		Targets: TargetsConfig{
			Overall: DefaultOverallTarget,
			Layers: map[string]int{
				string(domain.CategoryDomain):       DefaultDomainTarget,
				string(domain.CategoryData):         DefaultDataTarget,
				string(domain.CategoryApplication):  DefaultApplicationTarget,
				string(domain.CategoryPresentation): DefaultPresentationTarget,
				string(domain.CategoryServices):     DefaultServicesTarget,
				string(domain.CategoryCore):         DefaultCoreTarget,
			},
			Default: DefaultLayerTarget,
		},
		Output: OutputConfig{
			Format: constants.OutputFormatText,
		},
		Analysis: AnalysisConfig{
			ExcludePatterns: []string{},
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context. When no
// explicit path is given, config files are discovered upward from the
// target (usually the trace file's directory).
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common
// locations, searching upward from targetPath first.
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		constants.ConfigFileName,
		"covgate.yml",
		".covgate.yaml",
		".covgate.yml",
	}

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}
				if parent := filepath.Dir(dir); parent == dir {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), candidates); config != "" {
			return config
		}
	}

	// Environment variable as last resort
	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Trace.File == "" {
		return fmt.Errorf("trace.file cannot be empty")
	}

	if len(c.Layers.Markers) == 0 {
		return fmt.Errorf("layers.markers cannot be empty")
	}

	validLayers := map[string]bool{}
	for _, category := range domain.LayerOrder {
		validLayers[string(category)] = true
	}

	for _, lm := range c.Layers.Markers {
		if lm.Marker == "" {
			return fmt.Errorf("layers.markers entries must have a non-empty marker")
		}
		if !validLayers[lm.Category] || lm.Category == string(domain.CategoryOther) {
			return fmt.Errorf("invalid layer category '%s' for marker '%s'", lm.Category, lm.Marker)
		}
	}

	if err := validateTarget("targets.overall", c.Targets.Overall); err != nil {
		return err
	}
	if err := validateTarget("targets.default", c.Targets.Default); err != nil {
		return err
	}
	for name, target := range c.Targets.Layers {
		if !validLayers[name] {
			return fmt.Errorf("invalid category '%s' in targets.layers", name)
		}
		if err := validateTarget(fmt.Sprintf("targets.layers.%s", name), target); err != nil {
			return err
		}
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	return nil
}

func validateTarget(name string, target int) error {
	if target < 0 || target > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %d", name, target)
	}
	return nil
}

// LayerMarkers converts the configured markers into the ordered domain
// representation.
func (c *Config) LayerMarkers() []domain.LayerMarker {
	markers := make([]domain.LayerMarker, 0, len(c.Layers.Markers))
	for _, lm := range c.Layers.Markers {
		markers = append(markers, domain.LayerMarker{
			Marker:   lm.Marker,
			Category: domain.Category(lm.Category),
		})
	}
	return markers
}

// ThresholdTable converts the configured targets into the domain
// representation.
func (c *Config) ThresholdTable() domain.ThresholdTable {
	layers := make(map[domain.Category]int, len(c.Targets.Layers))
	for name, target := range c.Targets.Layers {
		layers[domain.Category(name)] = target
	}
	return domain.ThresholdTable{
		Overall: c.Targets.Overall,
		Layers:  layers,
		Default: c.Targets.Default,
	}
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("trace", config.Trace)
	v.Set("generated", config.Generated)
	v.Set("layers", config.Layers)
	v.Set("targets", config.Targets)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}
