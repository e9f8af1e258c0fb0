package domain

// RunStatus classifies an entire run from its check outcomes.
type RunStatus string

const (
	StatusBlocked  RunStatus = "blocked"
	StatusWarnings RunStatus = "advisory-warnings"
	StatusClean    RunStatus = "advisory-clean"
)

// GateResult is the pure reduction of a run's outcomes: whether downstream
// output may be produced and which outcomes to surface. Warnings never
// change the proceed decision, only whether there is text to report.
type GateResult struct {
	Status   RunStatus
	Failures []Outcome
	Warnings []Outcome
}

// Proceed reports whether downstream output may be produced.
func (g GateResult) Proceed() bool { return g.Status != StatusBlocked }

// EvaluateGate reduces outcomes to a run status. A single failed blocking
// outcome blocks the run; anything else with findings or an advisory failure
// becomes a warning.
func EvaluateGate(outcomes []Outcome) GateResult {
	g := GateResult{Status: StatusClean}
	for _, o := range outcomes {
		switch {
		case !o.Passed && o.Severity == SeverityBlocking:
			g.Failures = append(g.Failures, o)
		case o.Findings > 0 || !o.Passed:
			g.Warnings = append(g.Warnings, o)
		}
	}
	switch {
	case len(g.Failures) > 0:
		g.Status = StatusBlocked
	case len(g.Warnings) > 0:
		g.Status = StatusWarnings
	}
	return g
}
