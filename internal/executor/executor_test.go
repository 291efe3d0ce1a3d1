package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/agent"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/cooldown"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/coverage"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/health"
)

// recordingSink captures dispatched requests and can fail selected files.
type recordingSink struct {
	remediations []agent.RemediationRequest
	testUpdates  []agent.TestUpdateRequest
	failFiles    map[string]error
}

func (s *recordingSink) RequestRemediation(ctx context.Context, req agent.RemediationRequest) error {
	if err := s.failFiles[req.File]; err != nil {
		return err
	}
	s.remediations = append(s.remediations, req)
	return nil
}

func (s *recordingSink) RequestTestUpdate(ctx context.Context, req agent.TestUpdateRequest) error {
	s.testUpdates = append(s.testUpdates, req)
	return nil
}

// recordingVerifier notes which files the post-dispatch pass covered.
type recordingVerifier struct {
	verified []string
}

func (v *recordingVerifier) VerifyAll(ctx context.Context, files []string) {
	v.verified = append(v.verified, files...)
}

// memoryEventStore collects stored events for assertions.
type memoryEventStore struct {
	stored []*events.HealthEvent
}

func (m *memoryEventStore) StoreEvent(ctx context.Context, event *events.HealthEvent) error {
	m.stored = append(m.stored, event)
	return nil
}

func (m *memoryEventStore) GetEvents(ctx context.Context, filter events.EventFilter) ([]*events.HealthEvent, error) {
	return m.stored, nil
}

func (m *memoryEventStore) GetEventsByFile(ctx context.Context, file string) ([]*events.HealthEvent, error) {
	return m.stored, nil
}

func (m *memoryEventStore) GetRecentEvents(ctx context.Context, limit int) ([]*events.HealthEvent, error) {
	return m.stored, nil
}

func newTestExecutor(sink agent.Sink, cooldowns *cooldown.Store, v TestVerifier, store events.EventStore) *Executor {
	e := New(sink, cooldowns, v, store, "mon-test")
	e.limiter = rate.NewLimiter(rate.Inf, 1) // no pacing delays in tests
	return e
}

func criticalSuggestion(file string) health.RefactoringSuggestion {
	return health.RefactoringSuggestion{
		File:                 file,
		CurrentLines:         445,
		Threshold:            200,
		Priority:             health.PriorityCritical,
		SuggestedActions:     []string{"Extract subcomponents from the render body"},
		AutoRefactor:         true,
		Complexity:           35,
		MaintainabilityIndex: 0,
		UrgencyScore:         96.7,
	}
}

func TestExecuteDispatchesQualifyingSuggestion(t *testing.T) {
	sink := &recordingSink{}
	verifier := &recordingVerifier{}
	cooldowns := cooldown.NewStore(0)

	e := newTestExecutor(sink, cooldowns, verifier, nil)
	result, err := e.Execute(context.Background(), []health.RefactoringSuggestion{
		criticalSuggestion("src/components/Dashboard.tsx"),
	})
	require.NoError(t, err)

	// Exactly one remediation, the test pass ran, and the cooldown is armed.
	require.Len(t, sink.remediations, 1)
	req := sink.remediations[0]
	assert.Equal(t, "src/components/Dashboard.tsx", req.File)
	assert.Equal(t, 445, req.CurrentLines)
	assert.True(t, req.Silent)

	assert.Equal(t, []string{"src/components/Dashboard.tsx"}, result.Dispatched)
	assert.Equal(t, []string{"src/components/Dashboard.tsx"}, verifier.verified)
	assert.True(t, cooldowns.Active("src/components/Dashboard.tsx"))
}

func TestExecuteSkipsNonAutoSuggestions(t *testing.T) {
	sink := &recordingSink{}
	e := newTestExecutor(sink, cooldown.NewStore(0), nil, nil)

	s := criticalSuggestion("src/components/Dashboard.tsx")
	s.AutoRefactor = false

	result, err := e.Execute(context.Background(), []health.RefactoringSuggestion{s})
	require.NoError(t, err)
	assert.Empty(t, sink.remediations)
	assert.Empty(t, result.Dispatched)
}

func TestShouldDispatchRequiresSeverity(t *testing.T) {
	e := newTestExecutor(&recordingSink{}, cooldown.NewStore(0), nil, nil)

	// Auto-flagged but mild on every absolute axis: no dispatch.
	mild := health.RefactoringSuggestion{
		File:                 "src/a.ts",
		CurrentLines:         180,
		Priority:             health.PriorityMedium,
		AutoRefactor:         true,
		Complexity:           20,
		MaintainabilityIndex: 50,
	}
	assert.False(t, e.shouldDispatch(mild))

	// Each severe axis alone is sufficient.
	byPriority := mild
	byPriority.Priority = health.PriorityHigh
	assert.True(t, e.shouldDispatch(byPriority))

	byMaintainability := mild
	byMaintainability.MaintainabilityIndex = 25
	assert.True(t, e.shouldDispatch(byMaintainability))

	byComplexity := mild
	byComplexity.Complexity = 31
	assert.True(t, e.shouldDispatch(byComplexity))

	bySize := mild
	bySize.CurrentLines = 221
	assert.True(t, e.shouldDispatch(bySize))
}

func TestDispatchCarriesTopThreeActions(t *testing.T) {
	sink := &recordingSink{}
	store := &memoryEventStore{}
	e := newTestExecutor(sink, cooldown.NewStore(0), nil, store)

	s := criticalSuggestion("src/components/Dashboard.tsx")
	s.SuggestedActions = []string{
		"Flatten nested conditionals and extract decision logic into helpers",
		"Extract subcomponents from the render body",
		"Move derived state into custom hooks",
		"Separate presentation from data fetching",
	}

	_, err := e.Execute(context.Background(), []health.RefactoringSuggestion{s})
	require.NoError(t, err)

	// The suggestion holds four action hints; the outbound request keeps the
	// top three, order preserved.
	require.Len(t, sink.remediations, 1)
	assert.Equal(t, s.SuggestedActions[:3], sink.remediations[0].Actions)

	require.Len(t, store.stored, 1)
	data, err := store.stored[0].GetRemediationData()
	require.NoError(t, err)
	assert.Equal(t, s.SuggestedActions[:3], data.Actions)
}

func TestExecuteSuppressesDuringCooldown(t *testing.T) {
	sink := &recordingSink{}
	store := &memoryEventStore{}
	cooldowns := cooldown.NewStore(24 * time.Hour)

	e := newTestExecutor(sink, cooldowns, nil, store)
	suggestion := criticalSuggestion("src/components/Dashboard.tsx")

	// First cycle dispatches.
	first, err := e.Execute(context.Background(), []health.RefactoringSuggestion{suggestion})
	require.NoError(t, err)
	require.Len(t, first.Dispatched, 1)

	// Second cycle inside the window suppresses.
	second, err := e.Execute(context.Background(), []health.RefactoringSuggestion{suggestion})
	require.NoError(t, err)
	assert.Empty(t, second.Dispatched)
	assert.Equal(t, []string{"src/components/Dashboard.tsx"}, second.Suppressed)
	require.Len(t, sink.remediations, 1)

	var suppressions int
	for _, event := range store.stored {
		if event.Type == events.EventTypeRemediationSuppressed {
			suppressions++
		}
	}
	assert.Equal(t, 1, suppressions)
}

func TestExecuteDispatchesAfterCooldownExpires(t *testing.T) {
	sink := &recordingSink{}
	cooldowns := cooldown.NewStore(24 * time.Hour)

	now := time.Now()
	cooldowns.SetClock(func() time.Time { return now })

	e := newTestExecutor(sink, cooldowns, nil, nil)
	suggestion := criticalSuggestion("src/components/Dashboard.tsx")

	_, err := e.Execute(context.Background(), []health.RefactoringSuggestion{suggestion})
	require.NoError(t, err)

	now = now.Add(25 * time.Hour)

	result, err := e.Execute(context.Background(), []health.RefactoringSuggestion{suggestion})
	require.NoError(t, err)
	assert.Len(t, result.Dispatched, 1)
	assert.Len(t, sink.remediations, 2)
}

func TestExecuteContinuesPastDispatchFailure(t *testing.T) {
	sink := &recordingSink{failFiles: map[string]error{
		"src/components/Broken.tsx": errors.New("agent unavailable"),
	}}
	store := &memoryEventStore{}
	verifier := &recordingVerifier{}

	e := newTestExecutor(sink, cooldown.NewStore(0), verifier, store)
	result, err := e.Execute(context.Background(), []health.RefactoringSuggestion{
		criticalSuggestion("src/components/Broken.tsx"),
		criticalSuggestion("src/components/Dashboard.tsx"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/components/Broken.tsx"}, result.Failed)
	assert.Equal(t, []string{"src/components/Dashboard.tsx"}, result.Dispatched)

	// Failed files do not enter cooldown and are not verified.
	assert.False(t, e.cooldowns.Active("src/components/Broken.tsx"))
	assert.Equal(t, []string{"src/components/Dashboard.tsx"}, verifier.verified)

	var failures int
	for _, event := range store.stored {
		if event.Type == events.EventTypeRemediationFailed {
			failures++
			data, err := event.GetRemediationData()
			require.NoError(t, err)
			assert.Contains(t, data.Error, "agent unavailable")
		}
	}
	assert.Equal(t, 1, failures)
}

func TestExecuteEmitsRemediationEvents(t *testing.T) {
	store := &memoryEventStore{}
	e := newTestExecutor(&recordingSink{}, cooldown.NewStore(0), nil, store)

	_, err := e.Execute(context.Background(), []health.RefactoringSuggestion{
		criticalSuggestion("src/components/Dashboard.tsx"),
	})
	require.NoError(t, err)

	require.Len(t, store.stored, 1)
	event := store.stored[0]
	assert.Equal(t, events.EventTypeRemediationRequested, event.Type)
	assert.Equal(t, "mon-test", event.MonitorID)

	data, err := event.GetRemediationData()
	require.NoError(t, err)
	assert.Equal(t, 445, data.CurrentLines)
	assert.True(t, data.Silent)
	assert.Empty(t, data.Error)
}

func TestExecutePacingRespectsContextCancel(t *testing.T) {
	e := New(&recordingSink{}, cooldown.NewStore(0), nil, nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Both items qualify; the second hits the limiter with a dead context.
	_, err := e.Execute(ctx, []health.RefactoringSuggestion{
		criticalSuggestion("src/a.tsx"),
		criticalSuggestion("src/b.tsx"),
	})
	require.Error(t, err)
}

func TestExecuteTriggersTestRegeneration(t *testing.T) {
	sink := &recordingSink{}
	cooldowns := cooldown.NewStore(0)
	verifier := coverage.NewVerifier(sink, nil, nil, "mon-test")

	e := newTestExecutor(sink, cooldowns, verifier, nil)
	result, err := e.Execute(context.Background(), []health.RefactoringSuggestion{
		criticalSuggestion("src/components/Dashboard.tsx"),
	})
	require.NoError(t, err)

	// Exactly one remediation and one test-regeneration request, plus a
	// cooldown entry.
	require.Len(t, result.Dispatched, 1)
	require.Len(t, sink.remediations, 1)
	require.Len(t, sink.testUpdates, 1)
	assert.Equal(t, agent.TestUpdateRegenerate, sink.testUpdates[0].Kind)
	assert.Equal(t, "src/components/Dashboard.tsx", sink.testUpdates[0].File)
	assert.True(t, cooldowns.Active("src/components/Dashboard.tsx"))
}
