// Package monitor runs the periodic health cycle: analyze the inventory,
// coarse-filter the suggestions, hand the survivors to the executor.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/executor"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/health"
)

// DefaultInterval is the spacing between scheduled analysis cycles.
const DefaultInterval = 30 * time.Second

// State describes where the monitor is in its lifecycle.
type State string

const (
	// StateIdle means the monitor has not been started
	StateIdle State = "idle"
	// StateScheduled means the monitor is waiting for the next cycle
	StateScheduled State = "scheduled"
	// StateAnalyzing means a cycle is in flight
	StateAnalyzing State = "analyzing"
	// StateStopped means the monitor was stopped and will not cycle again
	StateStopped State = "stopped"
)

// Monitor drives the autonomous loop. One cycle runs immediately on Start;
// after that, cycles fire on the configured interval. Cycle failures are
// logged and the timer stays armed.
type Monitor struct {
	mu sync.RWMutex

	id       string
	analyzer *health.Analyzer
	executor *executor.Executor
	store    events.EventStore // optional, best-effort
	interval time.Duration

	ctx      context.Context // loop lifetime, cancelled by Stop
	cycleCtx context.Context // cycle work, survives Stop so in-flight cycles finish
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	state      State
	cycleCount int
}

// Config holds monitor configuration.
type Config struct {
	Analyzer *health.Analyzer
	Executor *executor.Executor
	Store    events.EventStore // optional
	Interval time.Duration     // defaults to DefaultInterval
	ID       string            // defaults to a generated UUID
}

// New creates a monitor.
func New(cfg *Config) (*Monitor, error) {
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("executor is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &Monitor{
		id:       id,
		analyzer: cfg.Analyzer,
		executor: cfg.Executor,
		store:    cfg.Store,
		interval: interval,
		state:    StateIdle,
	}, nil
}

// ID returns the monitor's instance identifier.
func (m *Monitor) ID() string {
	return m.id
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CycleCount returns the number of completed or failed cycles so far.
func (m *Monitor) CycleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cycleCount
}

// Start arms the monitoring loop. The first cycle runs immediately, outside
// the timer cadence. Calling Start on a running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateScheduled, StateAnalyzing:
		return nil
	case StateStopped:
		return fmt.Errorf("monitor %s already stopped", m.id)
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.cycleCtx = ctx
	m.state = StateScheduled

	m.wg.Add(1)
	go m.loop()

	fmt.Printf("Monitor: started (id=%s, interval=%v)\n", m.id, m.interval)
	m.record(m.cycleCtx, events.NewSimpleEvent(events.EventTypeMonitorStarted, "", m.id,
		events.SeverityInfo, fmt.Sprintf("Monitor started with %v interval", m.interval)))
	return nil
}

// Stop cancels the loop and waits for any in-flight cycle to finish.
// Stopping an idle or already-stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state != StateScheduled && m.state != StateAnalyzing {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.mu.Unlock()

	fmt.Printf("Monitor: stopping (id=%s)\n", m.id)
	cancel()
	m.wg.Wait()

	m.mu.Lock()
	m.state = StateStopped
	m.mu.Unlock()

	m.record(context.Background(), events.NewSimpleEvent(events.EventTypeMonitorStopped, "", m.id,
		events.SeverityInfo, "Monitor stopped"))
	fmt.Printf("Monitor: stopped (id=%s)\n", m.id)
}

func (m *Monitor) loop() {
	defer m.wg.Done()

	// First cycle fires immediately so a fresh monitor surfaces findings
	// without waiting out a full interval.
	m.runCycle()

	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-timer.C:
			m.runCycle()
			timer.Reset(m.interval)
		}
	}
}

// runCycle executes one analyze-filter-execute pass. Every error path logs
// and returns normally so the caller's timer stays armed.
func (m *Monitor) runCycle() {
	m.setState(StateAnalyzing)
	defer m.setState(StateScheduled)

	m.mu.Lock()
	m.cycleCount++
	cycle := m.cycleCount
	m.mu.Unlock()

	fmt.Printf("Monitor: cycle %d started (id=%s)\n", cycle, m.id)
	m.record(m.cycleCtx, events.NewSimpleEvent(events.EventTypeCycleStarted, "", m.id,
		events.SeverityInfo, fmt.Sprintf("Analysis cycle %d started", cycle)))

	suggestions, err := m.analyzer.Analyze(m.cycleCtx)
	if err != nil {
		fmt.Printf("Monitor: cycle %d analysis failed: %v\n", cycle, err)
		m.record(m.cycleCtx, events.NewSimpleEvent(events.EventTypeCycleFailed, "", m.id,
			events.SeverityError, fmt.Sprintf("Analysis cycle %d failed: %v", cycle, err)))
		return
	}

	candidates := coarseFilter(suggestions)
	fmt.Printf("Monitor: cycle %d produced %d suggestions, %d auto candidates\n",
		cycle, len(suggestions), len(candidates))

	result, err := m.executor.Execute(m.cycleCtx, candidates)
	if err != nil {
		fmt.Printf("Monitor: cycle %d execution interrupted: %v\n", cycle, err)
		m.record(m.cycleCtx, events.NewSimpleEvent(events.EventTypeCycleFailed, "", m.id,
			events.SeverityError, fmt.Sprintf("Analysis cycle %d interrupted: %v", cycle, err)))
		return
	}

	m.record(m.cycleCtx, events.NewSimpleEvent(events.EventTypeCycleCompleted, "", m.id,
		events.SeverityInfo,
		fmt.Sprintf("Analysis cycle %d completed: %d dispatched, %d suppressed, %d failed",
			cycle, len(result.Dispatched), len(result.Suppressed), len(result.Failed))))
}

// coarseFilter is the monitor's cheap pre-gate: only auto-flagged files past
// the global size threshold reach the executor, which applies the full gate.
func coarseFilter(suggestions []health.RefactoringSuggestion) []health.RefactoringSuggestion {
	var out []health.RefactoringSuggestion
	for _, s := range suggestions {
		if s.CurrentLines > health.GlobalAutoThreshold && s.AutoRefactor {
			out = append(out, s)
		}
	}
	return out
}

func (m *Monitor) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

func (m *Monitor) record(ctx context.Context, event *events.HealthEvent) {
	if m.store == nil {
		return
	}
	if ctx == nil || ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := m.store.StoreEvent(ctx, event); err != nil {
		fmt.Printf("Monitor: failed to store event: %v\n", err)
	}
}
