// Package coverage verifies test health after remediation. Measurement is a
// pluggable collaborator: the loop has no opinion on how coverage is
// computed, only on what to do with the number.
package coverage

import (
	"context"
	"fmt"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/agent"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
)

const (
	// DefaultTarget is the minimum acceptable coverage percentage
	DefaultTarget = 80.0
	// DefaultGoal is the coverage percentage supplemental requests aim for
	DefaultGoal = 95.0
)

// MeasurementSource reports the test coverage percentage for one file.
type MeasurementSource interface {
	// Measure returns the coverage percentage [0,100] for file
	Measure(ctx context.Context, file string) (float64, error)
}

// Verifier runs the post-remediation test pass: regeneration first, then a
// coverage check with a supplemental request when the measurement falls short
// of the target. Nothing here is fatal to the remediation that already
// happened; every failure is logged and recorded as an event.
type Verifier struct {
	sink      agent.Sink
	source    MeasurementSource
	store     events.EventStore // optional, best-effort
	monitorID string
	target    float64
	goal      float64
}

// NewVerifier creates a verifier. source may be nil, in which case the
// coverage check is skipped and only regeneration requests are emitted. The
// event store may be nil.
func NewVerifier(sink agent.Sink, source MeasurementSource, store events.EventStore, monitorID string) *Verifier {
	return &Verifier{
		sink:      sink,
		source:    source,
		store:     store,
		monitorID: monitorID,
		target:    DefaultTarget,
		goal:      DefaultGoal,
	}
}

// SetThresholds overrides the default target and goal percentages.
func (v *Verifier) SetThresholds(target, goal float64) {
	if target > 0 {
		v.target = target
	}
	if goal > 0 {
		v.goal = goal
	}
}

// VerifyAll runs the test pass for each remediated file in order.
func (v *Verifier) VerifyAll(ctx context.Context, files []string) {
	for _, file := range files {
		v.Verify(ctx, file)
	}
}

// Verify requests test regeneration for one file, then measures coverage and
// requests a supplemental top-up if the measurement is below target.
func (v *Verifier) Verify(ctx context.Context, file string) {
	if err := v.sink.RequestTestUpdate(ctx, agent.TestUpdateRequest{
		File: file,
		Kind: agent.TestUpdateRegenerate,
	}); err != nil {
		fmt.Printf("CoverageVerifier: test regeneration request failed for %s: %v\n", file, err)
	} else {
		fmt.Printf("CoverageVerifier: test regeneration requested for %s\n", file)
		v.record(ctx, events.NewSimpleEvent(events.EventTypeTestRegenRequested, file, v.monitorID,
			events.SeverityInfo, "Test regeneration requested after remediation"))
	}

	if v.source == nil {
		return
	}

	measured, err := v.source.Measure(ctx, file)
	if err != nil {
		fmt.Printf("CoverageVerifier: coverage check failed for %s: %v\n", file, err)
		v.record(ctx, events.NewSimpleEvent(events.EventTypeCoverageCheckFailed, file, v.monitorID,
			events.SeverityWarning, fmt.Sprintf("Coverage measurement failed: %v", err)))
		return
	}

	if measured >= v.target {
		fmt.Printf("CoverageVerifier: %s coverage %.1f%% meets the %.0f%% target\n", file, measured, v.target)
		return
	}

	fmt.Printf("CoverageVerifier: %s coverage %.1f%% below the %.0f%% target, requesting top-up toward %.0f%%\n",
		file, measured, v.target, v.goal)

	if err := v.sink.RequestTestUpdate(ctx, agent.TestUpdateRequest{
		File:    file,
		Kind:    agent.TestUpdateIncreaseCoverage,
		Current: measured,
		Target:  v.goal,
	}); err != nil {
		fmt.Printf("CoverageVerifier: supplemental coverage request failed for %s: %v\n", file, err)
		return
	}

	event, err := events.NewCoverageEvent(events.EventTypeCoverageBelowTarget, file, v.monitorID,
		events.SeverityWarning,
		fmt.Sprintf("Coverage %.1f%% below %.0f%% target", measured, v.target),
		events.CoverageData{Measured: measured, Target: v.target, Goal: v.goal})
	if err != nil {
		fmt.Printf("CoverageVerifier: failed to encode coverage event for %s: %v\n", file, err)
		return
	}
	v.record(ctx, event)
}

func (v *Verifier) record(ctx context.Context, event *events.HealthEvent) {
	if v.store == nil {
		return
	}
	if err := v.store.StoreEvent(ctx, event); err != nil {
		fmt.Printf("CoverageVerifier: failed to store event: %v\n", err)
	}
}
