package health

import (
	"context"
	"fmt"
	"sort"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
)

// Analyzer runs a full health pass over the file inventory: one suggestion
// per record, ranked worst-first.
type Analyzer struct {
	source    InventorySource
	generator *Generator
	store     events.EventStore // optional, best-effort
	monitorID string
}

// NewAnalyzer creates an analyzer over the given inventory source. The event
// store may be nil, in which case suggestions are only logged. monitorID tags
// emitted events and may be empty for one-shot analyses.
func NewAnalyzer(source InventorySource, store events.EventStore, monitorID string) *Analyzer {
	return &Analyzer{
		source:    source,
		generator: NewGenerator(),
		store:     store,
		monitorID: monitorID,
	}
}

// Analyze snapshots the inventory and produces suggestions for every record,
// sorted by priority descending, then maintainability index ascending so the
// least maintainable files surface first within a band. Inventory failures
// are returned to the caller; event store failures are logged and swallowed.
func (a *Analyzer) Analyze(ctx context.Context) ([]RefactoringSuggestion, error) {
	records, err := a.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot file inventory: %w", err)
	}

	suggestions := make([]RefactoringSuggestion, 0, len(records))
	for _, record := range records {
		suggestions = append(suggestions, a.generator.Generate(record))
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return suggestions[i].Priority.Rank() > suggestions[j].Priority.Rank()
		}
		return suggestions[i].MaintainabilityIndex < suggestions[j].MaintainabilityIndex
	})

	for _, s := range suggestions {
		fmt.Printf("HealthAnalyzer: %s priority=%s lines=%d/%d complexity=%.1f mi=%.1f urgency=%.1f auto=%v\n",
			s.File, s.Priority, s.CurrentLines, s.Threshold, s.Complexity,
			s.MaintainabilityIndex, s.UrgencyScore, s.AutoRefactor)
		a.recordSuggestion(ctx, s)
	}

	return suggestions, nil
}

func (a *Analyzer) recordSuggestion(ctx context.Context, s RefactoringSuggestion) {
	if a.store == nil {
		return
	}

	event, err := events.NewSuggestionEvent(s.File, a.monitorID, severityFor(s.Priority), s.Reason, events.SuggestionData{
		Priority:             string(s.Priority),
		CurrentLines:         s.CurrentLines,
		Threshold:            s.Threshold,
		Complexity:           s.Complexity,
		MaintainabilityIndex: s.MaintainabilityIndex,
		UrgencyScore:         s.UrgencyScore,
		AutoRefactor:         s.AutoRefactor,
	})
	if err != nil {
		fmt.Printf("HealthAnalyzer: failed to encode suggestion event for %s: %v\n", s.File, err)
		return
	}

	if err := a.store.StoreEvent(ctx, event); err != nil {
		fmt.Printf("HealthAnalyzer: failed to store suggestion event for %s: %v\n", s.File, err)
	}
}

func severityFor(priority Priority) events.EventSeverity {
	if priority.AtLeast(PriorityHigh) {
		return events.SeverityWarning
	}
	return events.SeverityInfo
}
