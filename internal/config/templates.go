package config

import (
	"fmt"
	"strings"
)

// Strictness represents the gating strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// StrictnessPreset holds target values for one strictness level
type StrictnessPreset struct {
	Overall      int
	Domain       int
	Data         int
	Application  int
	Presentation int
	Services     int
	Core         int
	Default      int
}

// GetStrictnessPresets returns target presets for the strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			Overall:      70,
			Domain:       85,
			Data:         80,
			Application:  75,
			Presentation: 60,
			Services:     70,
			Core:         70,
			Default:      70,
		},
		StrictnessStandard: {
			Overall:      DefaultOverallTarget,
			Domain:       DefaultDomainTarget,
			Data:         DefaultDataTarget,
			Application:  DefaultApplicationTarget,
			Presentation: DefaultPresentationTarget,
			Services:     DefaultServicesTarget,
			Core:         DefaultCoreTarget,
			Default:      DefaultLayerTarget,
		},
		StrictnessStrict: {
			Overall:      90,
			Domain:       98,
			Data:         95,
			Application:  90,
			Presentation: 80,
			Services:     90,
			Core:         90,
			Default:      90,
		},
	}
}

// GetFullConfigTemplate generates a documented covgate.yaml with the targets
// of the given strictness level.
func GetFullConfigTemplate(strictness Strictness) string {
	preset, ok := GetStrictnessPresets()[strictness]
	if !ok {
		preset = GetStrictnessPresets()[StrictnessStandard]
	}

	var b strings.Builder
	b.WriteString(`# covgate configuration
# Coverage aggregation and CI gating for LCOV traces.

# Trace file produced by your test runner.
trace:
  file: coverage/lcov.info

# Files whose path contains any of these markers are machine-generated and
# excluded from all coverage accounting.
generated:
  markers:
    - .g.dart
    - .freezed.dart

# Path markers mapping source files to architectural layers.
# Evaluated top to bottom; the first match wins. Files matching no marker
# are reported under "other".
layers:
  markers:
    - marker: /domain/
      category: domain
    - marker: /data/
      category: data
    - marker: /application/
      category: application
    - marker: /presentation/
      category: presentation
    - marker: /services/
      category: services
    - marker: /core/
      category: core

# Coverage targets in percent. "overall" is the value gated against in CI
# mode; layer targets only affect the PASS/WARN/FAIL column of the report.
`)
	fmt.Fprintf(&b, `targets:
  overall: %d
  default: %d
  layers:
    domain: %d
    data: %d
    application: %d
    presentation: %d
    services: %d
    core: %d
`, preset.Overall, preset.Default, preset.Domain, preset.Data,
		preset.Application, preset.Presentation, preset.Services, preset.Core)

	b.WriteString(`
# Output format: text, json, yaml.
output:
  format: text
  verbose: false

# Optional gitignore-style patterns dropped from all accounting.
analysis:
  exclude_patterns: []
`)
	return b.String()
}

// GetMinimalConfigTemplate generates a short covgate.yaml with the standard
// targets only.
func GetMinimalConfigTemplate() string {
	return `# covgate configuration
trace:
  file: coverage/lcov.info

targets:
  overall: 80
  layers:
    domain: 95
    data: 90
    application: 85
    presentation: 70
    services: 80
    core: 80
`
}

// ApplyStrictness overwrites the config's targets with the preset for the
// given strictness level.
func (c *Config) ApplyStrictness(strictness Strictness) {
	preset, ok := GetStrictnessPresets()[strictness]
	if !ok {
		return
	}
	c.Targets.Overall = preset.Overall
	c.Targets.Default = preset.Default
	c.Targets.Layers = map[string]int{
		"domain":       preset.Domain,
		"data":         preset.Data,
		"application":  preset.Application,
		"presentation": preset.Presentation,
		"services":     preset.Services,
		"core":         preset.Core,
	}
}
