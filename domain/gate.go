package domain

import "fmt"

// GateDecision is the outcome of comparing the overall coverage ratio
// against the overall target.
type GateDecision struct {
	Passed  bool    `json:"passed" yaml:"passed"`
	Ratio   float64 `json:"ratio" yaml:"ratio"`
	Target  int     `json:"target" yaml:"target"`
	Message string  `json:"message" yaml:"message"`
}

// EvaluateGate derives the CI gating decision from the aggregated totals.
// Only the overall ratio is gated; per-layer targets affect reporting
// status but never the exit code.
func (r *CoverageResponse) EvaluateGate() GateDecision {
	ratio := r.OverallCoverage()
	target := r.Targets.Overall

	decision := GateDecision{
		Passed: ratio >= float64(target),
		Ratio:  ratio,
		Target: target,
	}
	if decision.Passed {
		decision.Message = fmt.Sprintf("CI SUCCESS: Coverage %.1f%% meets target %d%%", ratio, target)
	} else {
		decision.Message = fmt.Sprintf("CI FAILURE: Coverage %.1f%% is below target %d%%", ratio, target)
	}
	return decision
}
