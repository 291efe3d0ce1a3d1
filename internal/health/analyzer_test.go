package health

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
)

// staticSource serves a fixed set of records, or an error.
type staticSource struct {
	records []FileHealthRecord
	err     error
}

func (s *staticSource) Snapshot(ctx context.Context) ([]FileHealthRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// memoryEventStore collects stored events for assertions.
type memoryEventStore struct {
	mu     sync.Mutex
	stored []*events.HealthEvent
	err    error
}

func (m *memoryEventStore) StoreEvent(ctx context.Context, event *events.HealthEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.stored = append(m.stored, event)
	return nil
}

func (m *memoryEventStore) GetEvents(ctx context.Context, filter events.EventFilter) ([]*events.HealthEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.HealthEvent(nil), m.stored...), nil
}

func (m *memoryEventStore) GetEventsByFile(ctx context.Context, file string) ([]*events.HealthEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*events.HealthEvent
	for _, e := range m.stored {
		if e.File == file {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryEventStore) GetRecentEvents(ctx context.Context, limit int) ([]*events.HealthEvent, error) {
	return m.GetEvents(ctx, events.EventFilter{Limit: limit})
}

func TestAnalyzeOrdersWorstFirst(t *testing.T) {
	source := &staticSource{records: []FileHealthRecord{
		{Path: "src/pages/Settings.tsx", Lines: 118, Kind: KindPage, Complexity: 12},
		{Path: "src/components/Dashboard.tsx", Lines: 445, Kind: KindComponent, Complexity: 35},
		{Path: "src/components/Chart.tsx", Lines: 330, Kind: KindComponent, Complexity: 22},
		{Path: "src/components/Table.tsx", Lines: 410, Kind: KindComponent, Complexity: 18},
	}}

	analyzer := NewAnalyzer(source, nil, "")
	suggestions, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 4)

	// Priority descending.
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Priority.Rank(), suggestions[i].Priority.Rank())
	}
	// Within a band, least maintainable first.
	for i := 1; i < len(suggestions); i++ {
		if suggestions[i-1].Priority == suggestions[i].Priority {
			assert.LessOrEqual(t, suggestions[i-1].MaintainabilityIndex, suggestions[i].MaintainabilityIndex)
		}
	}

	assert.Equal(t, "src/components/Dashboard.tsx", suggestions[0].File)
	assert.Equal(t, "src/pages/Settings.tsx", suggestions[len(suggestions)-1].File)
}

func TestAnalyzePropagatesInventoryError(t *testing.T) {
	source := &staticSource{err: errors.New("inventory report unreadable")}

	analyzer := NewAnalyzer(source, nil, "")
	suggestions, err := analyzer.Analyze(context.Background())
	require.Error(t, err)
	assert.Nil(t, suggestions)
	assert.Contains(t, err.Error(), "inventory report unreadable")
}

func TestAnalyzeEmitsSuggestionEvents(t *testing.T) {
	source := &staticSource{records: []FileHealthRecord{
		{Path: "src/components/Dashboard.tsx", Lines: 445, Kind: KindComponent, Complexity: 35},
	}}
	store := &memoryEventStore{}

	analyzer := NewAnalyzer(source, store, "mon-1")
	_, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)

	require.Len(t, store.stored, 1)
	event := store.stored[0]
	assert.Equal(t, events.EventTypeSuggestionGenerated, event.Type)
	assert.Equal(t, "src/components/Dashboard.tsx", event.File)
	assert.Equal(t, "mon-1", event.MonitorID)
	assert.Equal(t, events.SeverityWarning, event.Severity)

	data, err := event.GetSuggestionData()
	require.NoError(t, err)
	assert.Equal(t, "critical", data.Priority)
	assert.True(t, data.AutoRefactor)
}

func TestAnalyzeSurvivesEventStoreFailure(t *testing.T) {
	source := &staticSource{records: []FileHealthRecord{
		{Path: "src/components/Dashboard.tsx", Lines: 445, Kind: KindComponent, Complexity: 35},
	}}
	store := &memoryEventStore{err: errors.New("store unavailable")}

	analyzer := NewAnalyzer(source, store, "mon-1")
	suggestions, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)
}
