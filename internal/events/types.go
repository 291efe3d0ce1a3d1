package events

import (
	"context"
	"time"
)

// EventType represents the type of event emitted by the code-health loop.
type EventType string

const (
	// EventTypeCycleStarted indicates an analysis cycle began
	EventTypeCycleStarted EventType = "cycle_started"
	// EventTypeCycleCompleted indicates an analysis cycle finished
	EventTypeCycleCompleted EventType = "cycle_completed"
	// EventTypeCycleFailed indicates an analysis cycle aborted (inventory failure, etc.)
	EventTypeCycleFailed EventType = "cycle_failed"

	// EventTypeSuggestionGenerated indicates a refactoring suggestion was produced
	EventTypeSuggestionGenerated EventType = "suggestion_generated"

	// EventTypeRemediationRequested indicates a remediation request was dispatched
	// to the code-modification agent
	EventTypeRemediationRequested EventType = "remediation_requested"
	// EventTypeRemediationFailed indicates a dispatch to the agent failed
	EventTypeRemediationFailed EventType = "remediation_failed"
	// EventTypeRemediationSuppressed indicates a qualifying suggestion was
	// suppressed by the cooldown window
	EventTypeRemediationSuppressed EventType = "remediation_suppressed"

	// EventTypeTestRegenRequested indicates a test-regeneration request was emitted
	EventTypeTestRegenRequested EventType = "test_regen_requested"
	// EventTypeCoverageBelowTarget indicates measured coverage fell short and a
	// supplemental coverage request was emitted
	EventTypeCoverageBelowTarget EventType = "coverage_below_target"
	// EventTypeCoverageCheckFailed indicates the coverage measurement itself failed
	EventTypeCoverageCheckFailed EventType = "coverage_check_failed"

	// EventTypeMonitorStarted indicates the monitor loop was armed
	EventTypeMonitorStarted EventType = "monitor_started"
	// EventTypeMonitorStopped indicates the monitor loop was stopped
	EventTypeMonitorStopped EventType = "monitor_stopped"
)

// EventSeverity represents the severity level of an event.
type EventSeverity string

const (
	// SeverityInfo indicates informational events
	SeverityInfo EventSeverity = "info"
	// SeverityWarning indicates potentially problematic events
	SeverityWarning EventSeverity = "warning"
	// SeverityError indicates error events
	SeverityError EventSeverity = "error"
)

// HealthEvent is an event emitted by the monitoring/remediation pipeline.
// Events are the only persisted observability artifact of the subsystem;
// suggestion history is reconstructed by subscribing to them.
type HealthEvent struct {
	// ID is the unique identifier for this event
	ID string `json:"id"`
	// Type is the type of event
	Type EventType `json:"type"`
	// Timestamp is when the event occurred
	Timestamp time.Time `json:"timestamp"`
	// File is the source file the event concerns (empty for cycle-level events)
	File string `json:"file"`
	// MonitorID identifies the monitor instance that produced this event
	MonitorID string `json:"monitor_id"`
	// Severity is the severity level of this event
	Severity EventSeverity `json:"severity"`
	// Message is a human-readable description of the event
	Message string `json:"message"`
	// Data contains structured, type-specific data (must be JSON-serializable)
	Data map[string]interface{} `json:"data"`
}

// SuggestionData carries the metrics attached to suggestion_generated events.
type SuggestionData struct {
	// Priority is the classified priority (low, medium, high, critical)
	Priority string `json:"priority"`
	// CurrentLines is the file's line count at analysis time
	CurrentLines int `json:"current_lines"`
	// Threshold is the line threshold the file was measured against
	Threshold int `json:"threshold"`
	// Complexity is the externally supplied complexity score
	Complexity float64 `json:"complexity"`
	// MaintainabilityIndex is the derived maintainability score
	MaintainabilityIndex float64 `json:"maintainability_index"`
	// UrgencyScore is the derived urgency score
	UrgencyScore float64 `json:"urgency_score"`
	// AutoRefactor indicates whether the suggestion cleared the generator gate
	AutoRefactor bool `json:"auto_refactor"`
}

// RemediationData carries dispatch details for remediation events.
type RemediationData struct {
	// CurrentLines is the file's line count at dispatch time
	CurrentLines int `json:"current_lines"`
	// MaintainabilityIndex is the maintainability score at dispatch time
	MaintainabilityIndex float64 `json:"maintainability_index"`
	// Complexity is the complexity score at dispatch time
	Complexity float64 `json:"complexity"`
	// Actions are the remediation hints embedded in the request
	Actions []string `json:"actions"`
	// Silent indicates whether the request suppressed end-user notification
	Silent bool `json:"silent"`
	// Error contains the dispatch error, if any
	Error string `json:"error,omitempty"`
}

// CoverageData carries measurements for coverage events.
type CoverageData struct {
	// Measured is the measured (or simulated) coverage percentage
	Measured float64 `json:"measured"`
	// Target is the minimum acceptable coverage percentage
	Target float64 `json:"target"`
	// Goal is the coverage percentage requested in the supplemental request
	Goal float64 `json:"goal,omitempty"`
}

// EventStore defines the interface for persisting and querying health events.
type EventStore interface {
	// StoreEvent stores a new event
	StoreEvent(ctx context.Context, event *HealthEvent) error

	// GetEvents retrieves events matching the given filter
	GetEvents(ctx context.Context, filter EventFilter) ([]*HealthEvent, error)

	// GetEventsByFile retrieves all events for a specific source file
	GetEventsByFile(ctx context.Context, file string) ([]*HealthEvent, error)

	// GetRecentEvents retrieves the most recent events up to the specified limit
	GetRecentEvents(ctx context.Context, limit int) ([]*HealthEvent, error)
}

// EventFilter defines criteria for filtering events.
type EventFilter struct {
	// File filters events by source file
	File string
	// Type filters events by event type
	Type EventType
	// Severity filters events by severity level
	Severity EventSeverity
	// AfterTime filters events that occurred after this time
	AfterTime time.Time
	// BeforeTime filters events that occurred before this time
	BeforeTime time.Time
	// Limit limits the number of events returned
	Limit int
}
