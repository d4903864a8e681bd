package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Category is an architectural layer inferred from a source file path.
type Category string

const (
	// CategoryOverall is the derived sum of all non-generated categories.
	// It is a reporting target, never a classification target.
	CategoryOverall Category = "overall"

	CategoryDomain       Category = "domain"
	CategoryData         Category = "data"
	CategoryApplication  Category = "application"
	CategoryPresentation Category = "presentation"
	CategoryServices     Category = "services"
	CategoryCore         Category = "core"

	// CategoryOther catches files matching none of the layer markers.
	CategoryOther Category = "other"

	// CategoryGenerated holds machine-generated files, which are excluded
	// from the overall total and from every layer bucket.
	CategoryGenerated Category = "generated"
)

// LayerOrder is the fixed display order for per-layer reporting.
var LayerOrder = []Category{
	CategoryDomain,
	CategoryData,
	CategoryApplication,
	CategoryPresentation,
	CategoryServices,
	CategoryCore,
	CategoryOther,
}

// LayerMarker binds a path substring to a category. Markers are evaluated
// top to bottom and the first match wins.
type LayerMarker struct {
	Marker   string   `json:"marker" yaml:"marker"`
	Category Category `json:"category" yaml:"category"`
}

// FileRecord is the line coverage of a single source file block in a trace.
// Records are folded into category totals as they are scanned and never
// retained individually.
type FileRecord struct {
	Path       string
	LinesFound int
	LinesHit   int
}

// CategoryTotals accumulates line counts for one category.
type CategoryTotals struct {
	Lines int `json:"lines" yaml:"lines"`
	Hit   int `json:"hit" yaml:"hit"`
}

// Add folds a file record into the totals.
func (t *CategoryTotals) Add(rec FileRecord) {
	t.Lines += rec.LinesFound
	t.Hit += rec.LinesHit
}

// Coverage returns the coverage ratio as a percentage. A category with no
// lines has a defined ratio of 0.0. The ratio is always recomputed from the
// counts, never stored.
func (t CategoryTotals) Coverage() float64 {
	if t.Lines == 0 {
		return 0.0
	}
	return float64(t.Hit) / float64(t.Lines) * 100
}

// Status is the pass/warn/fail verdict of a coverage ratio against a target.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// WarnMargin is the band below the target, in percentage points, that is
// reported as WARN instead of FAIL.
const WarnMargin = 10

// StatusFor derives the status of a ratio against an integer percentage
// target: PASS at or above target, WARN within WarnMargin points below,
// FAIL otherwise.
func StatusFor(ratio float64, target int) Status {
	switch {
	case ratio >= float64(target):
		return StatusPass
	case ratio >= float64(target-WarnMargin):
		return StatusWarn
	default:
		return StatusFail
	}
}

// ThresholdTable maps categories to integer percentage targets. Overall has
// its own target; categories without an explicit entry fall back to Default.
type ThresholdTable struct {
	Overall int              `json:"overall" yaml:"overall"`
	Layers  map[Category]int `json:"layers" yaml:"layers"`
	Default int              `json:"default" yaml:"default"`
}

// TargetFor returns the configured target for a category.
func (t ThresholdTable) TargetFor(category Category) int {
	if category == CategoryOverall {
		return t.Overall
	}
	if target, ok := t.Layers[category]; ok {
		return target
	}
	return t.Default
}

// CoverageRequest represents a request for coverage aggregation
type CoverageRequest struct {
	// TracePath is the LCOV trace file to analyze
	TracePath string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer

	// CIMode gates the overall ratio against the overall target after
	// rendering
	CIMode bool

	// Verbose enables per-skipped-block diagnostics on stderr
	Verbose bool

	// Classification rules
	GeneratedMarkers []string
	LayerMarkers     []LayerMarker
	ExcludePatterns  []string

	// Targets holds the per-category coverage targets
	Targets ThresholdTable

	// ConfigPath is the configuration file the request was loaded from
	ConfigPath string
}

// CoverageSummary is the categorized aggregation of one trace file.
type CoverageSummary struct {
	// Total sums every non-generated, non-excluded file record
	Total CategoryTotals

	// Generated sums records excluded by the generated-file markers
	Generated CategoryTotals

	// Layers holds one totals record per classification category
	Layers map[Category]CategoryTotals

	// SkippedBlocks counts file blocks lacking an LF: or LH: record
	SkippedBlocks int
}

// LayerTotals returns the totals for a layer category, zero-valued when the
// trace contained no files for it.
func (s *CoverageSummary) LayerTotals(category Category) CategoryTotals {
	return s.Layers[category]
}

// CoverageResponse represents the complete aggregation result
type CoverageResponse struct {
	Summary *CoverageSummary `json:"summary" yaml:"summary"`
	Targets ThresholdTable   `json:"targets" yaml:"targets"`

	// Warnings carries tolerated data issues (e.g. skipped blocks)
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// OverallCoverage returns the overall ratio used for gating.
func (r *CoverageResponse) OverallCoverage() float64 {
	return r.Summary.Total.Coverage()
}

// CoverageService defines the core business logic for coverage aggregation
type CoverageService interface {
	// Analyze parses the trace named by the request and aggregates it into
	// categorized totals
	Analyze(ctx context.Context, req CoverageRequest) (*CoverageResponse, error)
}

// ReportWriter defines the interface for rendering aggregation results
type ReportWriter interface {
	// Write renders the response in the given format
	Write(response *CoverageResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*CoverageRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *CoverageRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *CoverageRequest, override *CoverageRequest) *CoverageRequest
}
