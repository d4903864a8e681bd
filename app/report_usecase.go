package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/covgate/domain"
)

// ReportUseCase orchestrates the parse-aggregate-render workflow
type ReportUseCase struct {
	service domain.CoverageService
	writer  domain.ReportWriter
}

// NewReportUseCase creates a new report use case
func NewReportUseCase(service domain.CoverageService, writer domain.ReportWriter) *ReportUseCase {
	return &ReportUseCase{
		service: service,
		writer:  writer,
	}
}

// Execute parses the trace, renders the report to the request's output
// writer, and returns the aggregation result for gating. A missing trace
// file aborts before anything is rendered.
func (uc *ReportUseCase) Execute(ctx context.Context, req domain.CoverageRequest) (*domain.CoverageResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	response, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Verbose {
		for _, warning := range response.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	out := req.OutputWriter
	if out == nil {
		out = os.Stdout
	}
	if err := uc.writer.Write(response, req.OutputFormat, out); err != nil {
		return nil, err
	}

	return response, nil
}

func (uc *ReportUseCase) validateRequest(req domain.CoverageRequest) error {
	if req.TracePath == "" {
		return fmt.Errorf("no trace file specified")
	}
	if req.OutputFormat == "" {
		return fmt.Errorf("no output format specified")
	}
	return nil
}

// ReportUseCaseBuilder provides a builder for creating ReportUseCase
type ReportUseCaseBuilder struct {
	service domain.CoverageService
	writer  domain.ReportWriter
}

// NewReportUseCaseBuilder creates a new builder
func NewReportUseCaseBuilder() *ReportUseCaseBuilder {
	return &ReportUseCaseBuilder{}
}

// WithService sets the coverage service
func (b *ReportUseCaseBuilder) WithService(service domain.CoverageService) *ReportUseCaseBuilder {
	b.service = service
	return b
}

// WithWriter sets the report writer
func (b *ReportUseCaseBuilder) WithWriter(writer domain.ReportWriter) *ReportUseCaseBuilder {
	b.writer = writer
	return b
}

// Build creates the ReportUseCase with the configured dependencies
func (b *ReportUseCaseBuilder) Build() (*ReportUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("coverage service is required")
	}
	if b.writer == nil {
		return nil, fmt.Errorf("report writer is required")
	}
	return NewReportUseCase(b.service, b.writer), nil
}
