package events

import (
	"time"

	"github.com/google/uuid"
)

// NewSuggestionEvent creates a HealthEvent for a generated suggestion with type-safe data.
func NewSuggestionEvent(file, monitorID string, severity EventSeverity, message string, data SuggestionData) (*HealthEvent, error) {
	event := &HealthEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeSuggestionGenerated,
		Timestamp: time.Now(),
		File:      file,
		MonitorID: monitorID,
		Severity:  severity,
		Message:   message,
	}
	if err := event.SetSuggestionData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewRemediationEvent creates a HealthEvent for a remediation dispatch outcome with type-safe data.
func NewRemediationEvent(eventType EventType, file, monitorID string, severity EventSeverity, message string, data RemediationData) (*HealthEvent, error) {
	event := &HealthEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		File:      file,
		MonitorID: monitorID,
		Severity:  severity,
		Message:   message,
	}
	if err := event.SetRemediationData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewCoverageEvent creates a HealthEvent for a coverage measurement with type-safe data.
func NewCoverageEvent(eventType EventType, file, monitorID string, severity EventSeverity, message string, data CoverageData) (*HealthEvent, error) {
	event := &HealthEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		File:      file,
		MonitorID: monitorID,
		Severity:  severity,
		Message:   message,
	}
	if err := event.SetCoverageData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewSimpleEvent creates a HealthEvent with no structured data (cycle markers, errors, etc.).
func NewSimpleEvent(eventType EventType, file, monitorID string, severity EventSeverity, message string) *HealthEvent {
	return &HealthEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		File:      file,
		MonitorID: monitorID,
		Severity:  severity,
		Message:   message,
		Data:      make(map[string]interface{}),
	}
}
