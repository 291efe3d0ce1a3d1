// Package executor turns qualifying suggestions into remediation requests.
// It owns the second, stricter auto-trigger gate, the per-file cooldown, and
// the pacing of outbound dispatches.
package executor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/agent"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/cooldown"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/health"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/metrics"
)

// DispatchInterval is the minimum spacing between consecutive remediation
// requests. The agent endpoint is rate-sensitive; bursts get throttled.
const DispatchInterval = 1500 * time.Millisecond

const lowMaintainabilityGate = 30.0

// maxDispatchActions bounds how many action hints a remediation request
// carries. Suggestions hold up to four; the outbound message keeps the top
// three, most impactful first.
const maxDispatchActions = 3

// Executor applies the dispatch gate to a batch of suggestions and sends the
// survivors to the action sink, one at a time.
type Executor struct {
	sink      agent.Sink
	cooldowns *cooldown.Store
	verifier  TestVerifier
	store     events.EventStore // optional, best-effort
	monitorID string
	limiter   *rate.Limiter
	silent    bool
}

// TestVerifier is the post-dispatch test pass. Narrowed to an interface so
// tests can observe it without a real coverage source.
type TestVerifier interface {
	VerifyAll(ctx context.Context, files []string)
}

// Result summarizes one execution batch.
type Result struct {
	// Dispatched are the files a remediation request went out for
	Dispatched []string
	// Suppressed are the files skipped by the cooldown window
	Suppressed []string
	// Failed are the files whose dispatch errored
	Failed []string
}

// New creates an executor. cooldowns must be shared with any other executor
// instance operating on the same codebase. v and store may be nil.
func New(sink agent.Sink, cooldowns *cooldown.Store, v TestVerifier, store events.EventStore, monitorID string) *Executor {
	return &Executor{
		sink:      sink,
		cooldowns: cooldowns,
		verifier:  v,
		store:     store,
		monitorID: monitorID,
		limiter:   rate.NewLimiter(rate.Every(DispatchInterval), 1),
		silent:    true,
	}
}

// SetSilent controls the silent flag on outbound remediation requests.
// Autonomous cycles default to silent; interactive runs may want notification.
func (e *Executor) SetSilent(silent bool) {
	e.silent = silent
}

// Execute processes the batch in the order given. Suggestions that fail the
// dispatch gate are ignored; cooldown hits are suppressed with an event; a
// failed dispatch is recorded and the batch continues. After the batch, the
// verifier runs over every successfully dispatched file.
func (e *Executor) Execute(ctx context.Context, suggestions []health.RefactoringSuggestion) (*Result, error) {
	result := &Result{}

	for _, s := range suggestions {
		if !e.shouldDispatch(s) {
			continue
		}

		if e.cooldowns.Active(s.File) {
			last, _ := e.cooldowns.LastRemediated(s.File)
			fmt.Printf("Executor: %s suppressed by cooldown (last remediated %s)\n",
				s.File, last.Format(time.RFC3339))
			result.Suppressed = append(result.Suppressed, s.File)
			e.recordSuppression(ctx, s, last)
			continue
		}

		// Pace outbound requests. The first dispatch of a batch goes out
		// immediately; each subsequent one waits out the interval.
		if err := e.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("dispatch pacing interrupted: %w", err)
		}

		if err := e.dispatch(ctx, s); err != nil {
			fmt.Printf("Executor: remediation dispatch failed for %s: %v\n", s.File, err)
			result.Failed = append(result.Failed, s.File)
			e.recordDispatch(ctx, s, err)
			continue
		}

		fmt.Printf("Executor: remediation dispatched for %s (priority=%s, urgency=%.1f)\n",
			s.File, s.Priority, s.UrgencyScore)
		e.cooldowns.Record(s.File)
		result.Dispatched = append(result.Dispatched, s.File)
		e.recordDispatch(ctx, s, nil)
	}

	if e.verifier != nil && len(result.Dispatched) > 0 {
		e.verifier.VerifyAll(ctx, result.Dispatched)
	}

	return result, nil
}

// shouldDispatch is the executor-level gate. The generator's auto flag is
// necessary but not sufficient: the file must also be severe on at least one
// absolute axis.
func (e *Executor) shouldDispatch(s health.RefactoringSuggestion) bool {
	if !s.AutoRefactor {
		return false
	}
	return s.Priority.AtLeast(health.PriorityHigh) ||
		s.MaintainabilityIndex < lowMaintainabilityGate ||
		s.Complexity > metrics.ComplexityHighBand ||
		s.CurrentLines > health.GlobalAutoThreshold
}

func (e *Executor) dispatch(ctx context.Context, s health.RefactoringSuggestion) error {
	return e.sink.RequestRemediation(ctx, agent.RemediationRequest{
		File:                 s.File,
		CurrentLines:         s.CurrentLines,
		MaintainabilityIndex: s.MaintainabilityIndex,
		Complexity:           s.Complexity,
		Actions:              topActions(s.SuggestedActions),
		Silent:               e.silent,
	})
}

func topActions(actions []string) []string {
	if len(actions) > maxDispatchActions {
		return actions[:maxDispatchActions]
	}
	return actions
}

func (e *Executor) recordDispatch(ctx context.Context, s health.RefactoringSuggestion, dispatchErr error) {
	if e.store == nil {
		return
	}

	eventType := events.EventTypeRemediationRequested
	severity := events.SeverityInfo
	message := fmt.Sprintf("Remediation requested (priority=%s)", s.Priority)
	data := events.RemediationData{
		CurrentLines:         s.CurrentLines,
		MaintainabilityIndex: s.MaintainabilityIndex,
		Complexity:           s.Complexity,
		Actions:              topActions(s.SuggestedActions),
		Silent:               e.silent,
	}
	if dispatchErr != nil {
		eventType = events.EventTypeRemediationFailed
		severity = events.SeverityError
		message = fmt.Sprintf("Remediation dispatch failed: %v", dispatchErr)
		data.Error = dispatchErr.Error()
	}

	event, err := events.NewRemediationEvent(eventType, s.File, e.monitorID, severity, message, data)
	if err != nil {
		fmt.Printf("Executor: failed to encode remediation event for %s: %v\n", s.File, err)
		return
	}
	if err := e.store.StoreEvent(ctx, event); err != nil {
		fmt.Printf("Executor: failed to store remediation event for %s: %v\n", s.File, err)
	}
}

func (e *Executor) recordSuppression(ctx context.Context, s health.RefactoringSuggestion, last time.Time) {
	if e.store == nil {
		return
	}

	event := events.NewSimpleEvent(events.EventTypeRemediationSuppressed, s.File, e.monitorID,
		events.SeverityInfo,
		fmt.Sprintf("Qualifying suggestion suppressed by cooldown (last remediated %s)", last.Format(time.RFC3339)))
	if err := e.store.StoreEvent(ctx, event); err != nil {
		fmt.Printf("Executor: failed to store suppression event for %s: %v\n", s.File, err)
	}
}
