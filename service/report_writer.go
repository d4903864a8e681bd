package service

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/covgate/domain"
)

// ReportWriterImpl implements the ReportWriter interface
type ReportWriterImpl struct{}

// NewReportWriter creates a new report writer
func NewReportWriter() *ReportWriterImpl {
	return &ReportWriterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(data)
}

// OverallCoverageDoc is the overall block of the structured report. The
// coverage value keeps full precision; rounding is a per-layer display
// concern only.
type OverallCoverageDoc struct {
	Coverage float64 `json:"coverage" yaml:"coverage"`
	Hit      int     `json:"hit" yaml:"hit"`
	Lines    int     `json:"lines" yaml:"lines"`
	Target   int     `json:"target" yaml:"target"`
}

// LayerCoverageDoc is one layer entry of the structured report
type LayerCoverageDoc struct {
	Coverage float64 `json:"coverage" yaml:"coverage"`
	Hit      int     `json:"hit" yaml:"hit"`
	Lines    int     `json:"lines" yaml:"lines"`
	Target   int     `json:"target" yaml:"target"`
}

// CoverageReportDoc is the machine-readable coverage document. Layers with
// zero lines found are omitted entirely.
type CoverageReportDoc struct {
	Overall           OverallCoverageDoc          `json:"overall" yaml:"overall"`
	GeneratedExcluded int                         `json:"generated_excluded" yaml:"generated_excluded"`
	SkippedBlocks     int                         `json:"skipped_blocks" yaml:"skipped_blocks"`
	Layers            map[string]LayerCoverageDoc `json:"layers" yaml:"layers"`
}

// Write renders the response in the given format
func (f *ReportWriterImpl) Write(response *domain.CoverageResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	case domain.OutputFormatJSON:
		if err := WriteJSON(writer, BuildReportDoc(response)); err != nil {
			return domain.NewOutputError("failed to encode JSON report", err)
		}
		return nil
	case domain.OutputFormatYAML:
		if err := WriteYAML(writer, BuildReportDoc(response)); err != nil {
			return domain.NewOutputError("failed to encode YAML report", err)
		}
		return nil
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// BuildReportDoc assembles the structured document from a response.
func BuildReportDoc(response *domain.CoverageResponse) *CoverageReportDoc {
	summary := response.Summary
	doc := &CoverageReportDoc{
		Overall: OverallCoverageDoc{
			Coverage: summary.Total.Coverage(),
			Hit:      summary.Total.Hit,
			Lines:    summary.Total.Lines,
			Target:   response.Targets.Overall,
		},
		GeneratedExcluded: summary.Generated.Lines,
		SkippedBlocks:     summary.SkippedBlocks,
		Layers:            make(map[string]LayerCoverageDoc),
	}

	for _, category := range domain.LayerOrder {
		totals := summary.LayerTotals(category)
		if totals.Lines == 0 {
			continue
		}
		doc.Layers[string(category)] = LayerCoverageDoc{
			Coverage: roundOneDecimal(totals.Coverage()),
			Hit:      totals.Hit,
			Lines:    totals.Lines,
			Target:   response.Targets.TargetFor(category),
		}
	}

	return doc
}

const reportWidth = 70

func (f *ReportWriterImpl) writeText(response *domain.CoverageResponse, writer io.Writer) error {
	summary := response.Summary
	heavy := strings.Repeat("=", reportWidth)
	light := strings.Repeat("-", reportWidth)

	fmt.Fprintln(writer, heavy)
	fmt.Fprintln(writer, "COVERAGE REPORT (EXCLUDING GENERATED FILES)")
	fmt.Fprintln(writer, heavy)
	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "Generated lines excluded: %d\n", summary.Generated.Lines)
	if summary.SkippedBlocks > 0 {
		fmt.Fprintf(writer, "Malformed blocks skipped:  %d\n", summary.SkippedBlocks)
	}
	fmt.Fprintln(writer)

	overall := summary.Total.Coverage()
	overallTarget := response.Targets.Overall
	fmt.Fprintln(writer, light)
	fmt.Fprintln(writer, "OVERALL COVERAGE")
	fmt.Fprintln(writer, light)
	fmt.Fprintf(writer, "Lines Hit:    %d\n", summary.Total.Hit)
	fmt.Fprintf(writer, "Total Lines:  %d\n", summary.Total.Lines)
	fmt.Fprintf(writer, "Coverage:     %.1f%% (Target: %d%%) [%s]\n",
		overall, overallTarget, domain.StatusFor(overall, overallTarget))
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, light)
	fmt.Fprintln(writer, "COVERAGE BY LAYER")
	fmt.Fprintln(writer, light)
	fmt.Fprintf(writer, "%-15s %8s %8s %10s %10s %8s\n",
		"Layer", "Hit", "Total", "Coverage", "Target", "Status")
	fmt.Fprintln(writer, light)

	for _, category := range domain.LayerOrder {
		totals := summary.LayerTotals(category)
		if totals.Lines == 0 {
			continue
		}
		ratio := totals.Coverage()
		target := response.Targets.TargetFor(category)
		fmt.Fprintf(writer, "%-15s %8d %8d %9.1f%% %9d%% %8s\n",
			category, totals.Hit, totals.Lines, ratio, target, domain.StatusFor(ratio, target))
	}

	fmt.Fprintln(writer)
	fmt.Fprintln(writer, heavy)

	return nil
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
