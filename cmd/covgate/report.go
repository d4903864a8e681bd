package main

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/covgate/app"
	"github.com/ludo-technologies/covgate/domain"
	"github.com/ludo-technologies/covgate/internal/constants"
	"github.com/ludo-technologies/covgate/service"
	"github.com/spf13/cobra"
)

// GateExitError is a custom error type for gate exit codes
type GateExitError struct {
	Code    int
	Message string
}

func (e *GateExitError) Error() string {
	return e.Message
}

var (
	reportTracePath  string
	reportFormat     string
	reportJSON       bool
	reportCI         bool
	reportVerbose    bool
	reportConfigPath string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covgate",
		Short: "covgate - LCOV coverage report and CI gate",
		Long: `covgate aggregates an LCOV trace into per-layer coverage totals,
excludes generated files, and gates CI pipelines on a coverage target.

Exit codes:
  0 - Report rendered (and target met, under --ci)
  1 - Trace file missing, or coverage below target under --ci

Examples:
  # Report on the default trace (coverage/lcov.info)
  covgate

  # Structured output
  covgate --json

  # Gate a CI pipeline on the overall target
  covgate --ci

  # Explicit trace and config
  covgate -f build/lcov.info -c covgate.yaml`,
		RunE:          runReport,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
		Version:       Version,
	}

	cmd.Flags().StringVarP(&reportTracePath, "file", "f", constants.DefaultTraceFile,
		"Path to the LCOV trace file")
	cmd.Flags().StringVar(&reportFormat, "format", "text",
		"Output format: text, json, yaml")
	cmd.Flags().BoolVar(&reportJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVar(&reportCI, "ci", false,
		"Gate on the overall coverage target (exit 1 when below)")
	cmd.Flags().BoolVarP(&reportVerbose, "verbose", "v", false,
		"Log each skipped trace block")
	cmd.Flags().StringVarP(&reportConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	// Determine output format
	var format domain.OutputFormat
	if reportJSON {
		format = domain.OutputFormatJSON
	} else if cmd.Flags().Changed("format") {
		format = domain.OutputFormat(reportFormat)
	}

	// Load configuration (discovered upward from the trace location)
	loader := service.NewConfigurationLoader()
	base, err := loader.LoadConfigForTrace(reportConfigPath, reportTracePath)
	if err != nil {
		return err
	}

	// Flags override config; unset flags keep the config values
	override := &domain.CoverageRequest{
		OutputFormat: format,
		CIMode:       reportCI,
		Verbose:      reportVerbose,
		ConfigPath:   reportConfigPath,
	}
	if cmd.Flags().Changed("file") {
		override.TracePath = reportTracePath
	}
	req := loader.MergeConfig(base, override)
	if req.TracePath == "" {
		req.TracePath = constants.DefaultTraceFile
	}
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}

	// Create progress manager (auto-disabled for structured output or non-TTY/CI)
	pm := service.NewProgressManager(req.OutputFormat == domain.OutputFormatText)
	defer pm.Close()

	useCase := app.NewReportUseCase(
		service.NewCoverageServiceWithProgress(pm),
		service.NewReportWriter(),
	)

	resp, err := useCase.Execute(context.Background(), *req)
	if err != nil {
		if domain.IsFileNotFound(err) {
			return &GateExitError{
				Code: 1,
				Message: fmt.Sprintf("coverage trace not found: %s\nHint: %s",
					req.TracePath, constants.TraceRemediationHint),
			}
		}
		return err
	}

	if req.CIMode {
		decision := resp.EvaluateGate()
		fmt.Println(decision.Message)
		if !decision.Passed {
			return &GateExitError{Code: 1, Message: ""}
		}
	}

	return nil
}
