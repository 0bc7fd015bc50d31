package harness

import "fmt"

// TraceEvent records one executed step.
type TraceEvent struct {
	Step   int    `json:"step"`
	Do     string `json:"do"`
	Action string `json:"action"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Summary is app.Summary of the final state.
	Summary string `json:"summary"`

	// Fingerprint identifies the final state.
	Fingerprint string `json:"fingerprint"`

	// RunID is the journal run, when the run was journaled.
	RunID string `json:"run_id,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace records an executed step.
func (r *Result) AddTrace(step int, do string, action any) {
	r.Trace = append(r.Trace, TraceEvent{
		Step:   step,
		Do:     do,
		Action: fmt.Sprintf("%T", action),
	})
}

// ScenarioError aborts a scenario. Step is -1 when the failure is not tied
// to a step.
type ScenarioError struct {
	Scenario string
	Step     int
	Err      error
}

func (e *ScenarioError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("scenario %q: %v", e.Scenario, e.Err)
	}
	return fmt.Sprintf("scenario %q: steps[%d]: %v", e.Scenario, e.Step, e.Err)
}

func (e *ScenarioError) Unwrap() error { return e.Err }
