package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func storeTestEvent(t *testing.T, store *SQLiteStorage, eventType events.EventType, file string, at time.Time) *events.HealthEvent {
	t.Helper()
	event := events.NewSimpleEvent(eventType, file, "mon-test", events.SeverityInfo, "test event")
	event.Timestamp = at
	require.NoError(t, store.StoreEvent(context.Background(), event))
	return event
}

func TestStoreAndRetrieveEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event, err := events.NewSuggestionEvent("src/components/Dashboard.tsx", "mon-1",
		events.SeverityWarning, "File exceeds threshold", events.SuggestionData{
			Priority:     "critical",
			CurrentLines: 445,
			Threshold:    200,
			AutoRefactor: true,
		})
	require.NoError(t, err)
	require.NoError(t, store.StoreEvent(ctx, event))

	got, err := store.GetEventsByFile(ctx, "src/components/Dashboard.tsx")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, event.ID, got[0].ID)
	assert.Equal(t, events.EventTypeSuggestionGenerated, got[0].Type)
	assert.Equal(t, "mon-1", got[0].MonitorID)

	data, err := got[0].GetSuggestionData()
	require.NoError(t, err)
	assert.Equal(t, "critical", data.Priority)
	assert.Equal(t, 445, data.CurrentLines)
	assert.True(t, data.AutoRefactor)
}

func TestGetEventsFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	storeTestEvent(t, store, events.EventTypeCycleStarted, "", now.Add(-2*time.Hour))
	storeTestEvent(t, store, events.EventTypeRemediationRequested, "src/a.ts", now.Add(-time.Hour))
	storeTestEvent(t, store, events.EventTypeRemediationRequested, "src/b.ts", now)

	byType, err := store.GetEvents(ctx, events.EventFilter{Type: events.EventTypeRemediationRequested})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byFile, err := store.GetEvents(ctx, events.EventFilter{File: "src/a.ts"})
	require.NoError(t, err)
	assert.Len(t, byFile, 1)

	recent, err := store.GetEvents(ctx, events.EventFilter{AfterTime: now.Add(-90 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestGetRecentEventsOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	storeTestEvent(t, store, events.EventTypeCycleStarted, "", now.Add(-3*time.Minute))
	storeTestEvent(t, store, events.EventTypeCycleCompleted, "", now.Add(-2*time.Minute))
	latest := storeTestEvent(t, store, events.EventTypeCycleStarted, "", now.Add(-time.Minute))

	got, err := store.GetRecentEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, latest.ID, got[0].ID)
}

func TestCleanupEventsByAge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	storeTestEvent(t, store, events.EventTypeCycleStarted, "", now.AddDate(0, 0, -40))
	storeTestEvent(t, store, events.EventTypeCycleStarted, "", now.AddDate(0, 0, -10))
	storeTestEvent(t, store, events.EventTypeCycleStarted, "", now)

	deleted, err := store.CleanupEventsByAge(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	remaining, err := store.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestCleanupRejectsBadRetention(t *testing.T) {
	store := newTestStore(t)
	_, err := store.CleanupEventsByAge(context.Background(), 0)
	require.Error(t, err)
}
