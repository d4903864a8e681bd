package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "covgate"

	// ConfigFileName is the default config file name
	ConfigFileName = "covgate.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "COVGATE"
)

// Trace file constants
const (
	// DefaultTraceFile is the trace path used when none is given
	DefaultTraceFile = "coverage/lcov.info"

	// TraceRemediationHint tells the user how to produce a missing trace
	TraceRemediationHint = "run your test suite with coverage enabled (e.g. 'flutter test --coverage')"
)

// LCOV record prefixes. Only the line-coverage subset is consumed; other
// record types are ignored.
const (
	RecordSourceFile = "SF:"
	RecordLinesFound = "LF:"
	RecordLinesHit   = "LH:"
	RecordEndOfFile  = "end_of_record"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)
