// Package lcov parses the line-coverage subset of the LCOV trace format and
// aggregates it into per-category totals.
package lcov

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ludo-technologies/covgate/domain"
	"github.com/ludo-technologies/covgate/internal/constants"
)

// Options configures a Parser.
type Options struct {
	// GeneratedMarkers are substrings identifying machine-generated files
	GeneratedMarkers []string

	// LayerMarkers map path substrings to categories, first match wins
	LayerMarkers []domain.LayerMarker

	// ExcludePatterns drop matching paths from all accounting (gitignore
	// syntax, empty = keep everything)
	ExcludePatterns []string

	// Progress receives per-block progress updates (nil = no progress)
	Progress domain.ProgressManager
}

// Parser converts raw LCOV text into categorized coverage totals.
type Parser struct {
	classifier *Classifier
	progress   domain.ProgressManager
}

// NewParser creates a parser with the given classification rules.
func NewParser(opts Options) *Parser {
	return &Parser{
		classifier: NewClassifier(opts.GeneratedMarkers, opts.LayerMarkers, opts.ExcludePatterns),
		progress:   opts.Progress,
	}
}

// ParseFile reads and parses the trace at path. A missing file is a fatal
// setup error; no partial summary is produced.
func (p *Parser) ParseFile(path string) (*domain.CoverageSummary, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, nil, domain.NewParseError(path, err)
	}

	summary, warnings := p.Parse(string(content))
	return summary, warnings, nil
}

// Parse aggregates the full text of an LCOV trace. File blocks are
// delimited by SF: records; text before the first marker is discarded.
// Blocks lacking an LF: or LH: record are skipped, counted, and reported as
// warnings rather than errors. The second return value lists one warning
// per skipped block.
func (p *Parser) Parse(content string) (*domain.CoverageSummary, []string) {
	summary := &domain.CoverageSummary{
		Layers: make(map[domain.Category]domain.CategoryTotals),
	}
	var warnings []string

	blocks := strings.Split(content, constants.RecordSourceFile)
	if len(blocks) < 2 {
		return summary, warnings
	}
	blocks = blocks[1:]

	var task domain.TaskProgress
	if p.progress != nil {
		task = p.progress.StartTask("Scanning trace", len(blocks))
		defer task.Complete()
	}

	for _, block := range blocks {
		if task != nil {
			task.Increment(1)
		}

		rec, ok := parseBlock(block)
		if p.classifier.Excluded(rec.Path) {
			continue
		}
		if !ok {
			summary.SkippedBlocks++
			warnings = append(warnings, skipWarning(rec.Path))
			continue
		}

		if p.classifier.IsGenerated(rec.Path) {
			summary.Generated.Add(rec)
			continue
		}

		summary.Total.Add(rec)
		category := p.classifier.Classify(rec.Path)
		totals := summary.Layers[category]
		totals.Add(rec)
		summary.Layers[category] = totals
	}

	return summary, warnings
}

// parseBlock extracts the path and line counts from one file block. The
// first line is the path; LF: and LH: records carry the counts. The record
// is usable only when both counts are present and numeric.
func parseBlock(block string) (domain.FileRecord, bool) {
	lines := strings.Split(block, "\n")
	rec := domain.FileRecord{Path: strings.TrimSpace(lines[0])}

	foundLF, foundLH := false, false
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, constants.RecordLinesFound):
			n, err := strconv.Atoi(line[len(constants.RecordLinesFound):])
			if err != nil {
				return rec, false
			}
			rec.LinesFound = n
			foundLF = true
		case strings.HasPrefix(line, constants.RecordLinesHit):
			n, err := strconv.Atoi(line[len(constants.RecordLinesHit):])
			if err != nil {
				return rec, false
			}
			rec.LinesHit = n
			foundLH = true
		}
		if foundLF && foundLH {
			break
		}
	}

	return rec, foundLF && foundLH
}

func skipWarning(path string) string {
	if path == "" {
		return "skipped malformed trace block with no file path"
	}
	return fmt.Sprintf("skipped trace block for %s: missing LF/LH record", path)
}
