package harness

import "github.com/roach88/ndbq/internal/ir"

// Outcome is the result of one case on one backend.
type Outcome struct {
	Backend   string        `json:"backend"`
	QueryID   string        `json:"query_id,omitempty"`
	Canonical string        `json:"canonical,omitempty"` // Filter as reformatted from the tree
	Params    int           `json:"params"`
	SQL       string        `json:"sql,omitempty"`
	Rows      []ir.IRObject `json:"rows,omitempty"`
	IDs       []ir.IRValue  `json:"ids,omitempty"` // Primary keys of Rows
	ErrorCode string        `json:"error_code,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// CaseResult holds the outcomes of one case, one per backend in
// scenario order.
type CaseResult struct {
	Name     string    `json:"name"`
	Outcomes []Outcome `json:"outcomes"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation held on every backend and the backends agreed.
	Pass bool `json:"pass"`

	Scenario string       `json:"scenario"`
	Cases    []CaseResult `json:"cases"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult(scenario string) *Result {
	return &Result{
		Pass:     true,
		Scenario: scenario,
		Cases:    []CaseResult{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
