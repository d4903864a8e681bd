package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/covgate/domain"
)

func testResponse() *domain.CoverageResponse {
	return &domain.CoverageResponse{
		Summary: &domain.CoverageSummary{
			Total:     domain.CategoryTotals{Lines: 10, Hit: 8},
			Generated: domain.CategoryTotals{Lines: 5, Hit: 5},
			Layers: map[domain.Category]domain.CategoryTotals{
				domain.CategoryDomain: {Lines: 10, Hit: 8},
			},
		},
		Targets: domain.ThresholdTable{
			Overall: 80,
			Layers:  map[domain.Category]int{domain.CategoryDomain: 95},
			Default: 80,
		},
		GeneratedAt: "2026-01-01T00:00:00Z",
		Version:     "test",
	}
}

func TestBuildReportDoc(t *testing.T) {
	doc := BuildReportDoc(testResponse())

	if doc.Overall.Coverage != 80.0 {
		t.Errorf("overall coverage = %v, want 80.0", doc.Overall.Coverage)
	}
	if doc.Overall.Hit != 8 || doc.Overall.Lines != 10 || doc.Overall.Target != 80 {
		t.Errorf("unexpected overall block: %+v", doc.Overall)
	}
	if doc.GeneratedExcluded != 5 {
		t.Errorf("generated_excluded = %d, want 5", doc.GeneratedExcluded)
	}

	layer, ok := doc.Layers["domain"]
	if !ok {
		t.Fatal("layers should contain domain")
	}
	if layer.Coverage != 80.0 || layer.Target != 95 {
		t.Errorf("unexpected domain layer: %+v", layer)
	}
}

func TestBuildReportDoc_OverallKeepsFullPrecision(t *testing.T) {
	resp := testResponse()
	resp.Summary.Total = domain.CategoryTotals{Lines: 3, Hit: 2}
	resp.Summary.Layers = map[domain.Category]domain.CategoryTotals{
		domain.CategoryData: {Lines: 3, Hit: 2},
	}

	doc := BuildReportDoc(resp)

	if doc.Overall.Coverage != 200.0/3.0 {
		t.Errorf("overall coverage should keep full precision, got %v", doc.Overall.Coverage)
	}
	if doc.Layers["data"].Coverage != 66.7 {
		t.Errorf("layer coverage should round to one decimal, got %v", doc.Layers["data"].Coverage)
	}
}

func TestBuildReportDoc_ZeroLineLayersOmitted(t *testing.T) {
	resp := testResponse()
	resp.Summary.Layers[domain.CategoryCore] = domain.CategoryTotals{}

	doc := BuildReportDoc(resp)

	if _, ok := doc.Layers["core"]; ok {
		t.Error("zero-line layer should be omitted from the document")
	}
	if len(doc.Layers) != 1 {
		t.Errorf("expected 1 layer, got %d", len(doc.Layers))
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReportWriter().Write(testResponse(), domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var parsed struct {
		Overall struct {
			Coverage float64 `json:"coverage"`
			Hit      int     `json:"hit"`
			Lines    int     `json:"lines"`
			Target   int     `json:"target"`
		} `json:"overall"`
		GeneratedExcluded int `json:"generated_excluded"`
		Layers            map[string]struct {
			Coverage float64 `json:"coverage"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if parsed.Overall.Coverage != 80.0 {
		t.Errorf("overall.coverage = %v, want 80.0", parsed.Overall.Coverage)
	}
	if parsed.GeneratedExcluded != 5 {
		t.Errorf("generated_excluded = %d, want 5", parsed.GeneratedExcluded)
	}
	if parsed.Layers["domain"].Coverage != 80.0 {
		t.Errorf("layers.domain.coverage = %v, want 80.0", parsed.Layers["domain"].Coverage)
	}
}

func TestWrite_JSONIdempotent(t *testing.T) {
	writer := NewReportWriter()
	resp := testResponse()

	var first, second bytes.Buffer
	if err := writer.Write(resp, domain.OutputFormatJSON, &first); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := writer.Write(resp, domain.OutputFormatJSON, &second); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("repeated renders of the same response should be byte-identical")
	}
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReportWriter().Write(testResponse(), domain.OutputFormatYAML, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if _, ok := parsed["overall"]; !ok {
		t.Error("YAML output should contain overall block")
	}
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReportWriter().Write(testResponse(), domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"COVERAGE REPORT (EXCLUDING GENERATED FILES)",
		"Generated lines excluded: 5",
		"OVERALL COVERAGE",
		"Lines Hit:    8",
		"Total Lines:  10",
		"80.0% (Target: 80%) [PASS]",
		"COVERAGE BY LAYER",
		"domain",
		"FAIL", // domain 80.0 against target 95 is below the warn band
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report should contain %q\n%s", want, out)
		}
	}
}

func TestWrite_TextOmitsEmptyLayers(t *testing.T) {
	resp := testResponse()
	resp.Summary.Layers[domain.CategoryPresentation] = domain.CategoryTotals{}

	var buf bytes.Buffer
	if err := NewReportWriter().Write(resp, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.Contains(buf.String(), "presentation") {
		t.Error("zero-line layer should not appear in the text report")
	}
}

func TestWrite_TextLayerOrder(t *testing.T) {
	resp := testResponse()
	resp.Summary.Layers = map[domain.Category]domain.CategoryTotals{
		domain.CategoryCore:   {Lines: 4, Hit: 4},
		domain.CategoryDomain: {Lines: 10, Hit: 8},
		domain.CategoryOther:  {Lines: 2, Hit: 1},
	}

	var buf bytes.Buffer
	if err := NewReportWriter().Write(resp, domain.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	domainIdx := strings.Index(out, "domain")
	coreIdx := strings.Index(out, "core")
	otherIdx := strings.Index(out, "other")
	if !(domainIdx < coreIdx && coreIdx < otherIdx) {
		t.Errorf("layers out of order: domain=%d core=%d other=%d", domainIdx, coreIdx, otherIdx)
	}
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewReportWriter().Write(testResponse(), domain.OutputFormat("xml"), &buf)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("unexpected error: %v", err)
	}
}
