package service

import (
	"context"
	"time"

	"github.com/ludo-technologies/covgate/domain"
	"github.com/ludo-technologies/covgate/internal/lcov"
	"github.com/ludo-technologies/covgate/internal/version"
)

// CoverageServiceImpl implements the CoverageService interface
type CoverageServiceImpl struct {
	progress domain.ProgressManager
}

// NewCoverageService creates a new coverage aggregation service
func NewCoverageService() *CoverageServiceImpl {
	return &CoverageServiceImpl{}
}

// NewCoverageServiceWithProgress creates a coverage service that reports
// scan progress through pm.
func NewCoverageServiceWithProgress(pm domain.ProgressManager) *CoverageServiceImpl {
	return &CoverageServiceImpl{progress: pm}
}

// Analyze parses the trace named by the request and aggregates it into
// categorized totals. The trace is read fully into memory and processed in
// a single pass.
func (s *CoverageServiceImpl) Analyze(ctx context.Context, req domain.CoverageRequest) (*domain.CoverageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.TracePath == "" {
		return nil, domain.NewInvalidInputError("no trace file specified", nil)
	}
	if len(req.LayerMarkers) == 0 {
		return nil, domain.NewInvalidInputError("no layer markers configured", nil)
	}

	parser := lcov.NewParser(lcov.Options{
		GeneratedMarkers: req.GeneratedMarkers,
		LayerMarkers:     req.LayerMarkers,
		ExcludePatterns:  req.ExcludePatterns,
		Progress:         s.progress,
	})

	summary, warnings, err := parser.ParseFile(req.TracePath)
	if err != nil {
		return nil, err
	}

	return &domain.CoverageResponse{
		Summary:     summary,
		Targets:     req.Targets,
		Warnings:    warnings,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}, nil
}
