// Package agent defines the action sink that carries remediation and test
// maintenance requests out of the health loop, plus an Anthropic-backed
// implementation. The decision core never talks to a transport directly; it
// only sees the Sink interface.
package agent

import "context"

// TestUpdateKind distinguishes the two flavors of test maintenance request.
type TestUpdateKind string

const (
	// TestUpdateRegenerate asks for tests to be regenerated after a
	// structural refactor
	TestUpdateRegenerate TestUpdateKind = "regenerate"
	// TestUpdateIncreaseCoverage asks for supplemental tests to raise
	// coverage toward the goal
	TestUpdateIncreaseCoverage TestUpdateKind = "increase-coverage"
)

// RemediationRequest instructs an external code-modification capability to
// restructure one file.
type RemediationRequest struct {
	// File is the path of the file to restructure
	File string `json:"file"`
	// CurrentLines is the file's line count at dispatch time
	CurrentLines int `json:"current_lines"`
	// MaintainabilityIndex is the maintainability score at dispatch time
	MaintainabilityIndex float64 `json:"maintainability_index"`
	// Complexity is the complexity score at dispatch time
	Complexity float64 `json:"complexity"`
	// Actions are the suggested restructuring steps, most impactful first
	Actions []string `json:"actions"`
	// Silent suppresses end-user notification for the request
	Silent bool `json:"silent"`
}

// TestUpdateRequest asks the external capability to regenerate or extend
// tests for one file.
type TestUpdateRequest struct {
	// File is the path of the file whose tests need attention
	File string `json:"file"`
	// Kind selects between regeneration and coverage top-up
	Kind TestUpdateKind `json:"kind"`
	// Current is the measured coverage percentage (zero for regeneration)
	Current float64 `json:"current,omitempty"`
	// Target is the coverage percentage the request aims for
	Target float64 `json:"target,omitempty"`
}

// Sink receives the health loop's outbound actions. Implementations own the
// transport; the loop owns the decision of when to call.
type Sink interface {
	// RequestRemediation dispatches a restructuring request for one file
	RequestRemediation(ctx context.Context, req RemediationRequest) error

	// RequestTestUpdate dispatches a test regeneration or coverage request
	RequestTestUpdate(ctx context.Context, req TestUpdateRequest) error
}
