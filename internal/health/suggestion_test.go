package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCriticalComponent(t *testing.T) {
	gen := NewGenerator()

	s := gen.Generate(FileHealthRecord{
		Path:       "src/components/Dashboard.tsx",
		Lines:      445,
		Kind:       KindComponent,
		Complexity: 35,
	})

	assert.Equal(t, "src/components/Dashboard.tsx", s.File)
	assert.Equal(t, 200, s.Threshold)
	assert.Equal(t, PriorityCritical, s.Priority)
	assert.True(t, s.AutoRefactor)
	assert.Equal(t, 0.0, s.MaintainabilityIndex)
	assert.InDelta(t, 96.6667, s.UrgencyScore, 0.001)
	assert.Equal(t, ImpactHigh, s.EstimatedImpact)

	assert.Contains(t, s.Issues, IssueExceedsLineThreshold)
	assert.Contains(t, s.Issues, IssueHighComplexity)
	assert.Contains(t, s.Issues, IssueCriticallyLargeFile)
	assert.Contains(t, s.Reason, "exceeds the 200-line threshold")
	assert.Contains(t, s.Reason, "high complexity")
}

func TestGenerateHealthyPage(t *testing.T) {
	gen := NewGenerator()

	s := gen.Generate(FileHealthRecord{
		Path:       "src/pages/Settings.tsx",
		Lines:      118,
		Kind:       KindPage,
		Complexity: 12,
	})

	assert.Equal(t, 300, s.Threshold)
	assert.Equal(t, PriorityLow, s.Priority)
	assert.False(t, s.AutoRefactor)
	assert.Empty(t, s.Issues)
	assert.Equal(t, ImpactLow, s.EstimatedImpact)
}

func TestGenerateDeterministic(t *testing.T) {
	gen := NewGenerator()
	record := FileHealthRecord{Path: "src/hooks/useAnalysis.ts", Lines: 310, Kind: KindHook, Complexity: 28}

	first := gen.Generate(record)
	second := gen.Generate(record)
	assert.Equal(t, first, second)
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name            string
		sizeRatio       float64
		complexityRatio float64
		want            Priority
	}{
		{"both extreme", 2.3, 1.2, PriorityCritical},
		{"huge but simple", 2.3, 0.5, PriorityHigh},
		{"small but tangled", 0.6, 1.3, PriorityHigh},
		{"both elevated", 1.6, 0.8, PriorityHigh},
		{"large only", 1.6, 0.3, PriorityMedium},
		{"complex only", 0.9, 0.9, PriorityMedium},
		{"healthy", 0.8, 0.5, PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPriority(tt.sizeRatio, tt.complexityRatio))
		})
	}
}

func TestAutoRefactorGate(t *testing.T) {
	// High priority alone is not enough: size must also be well past threshold.
	assert.False(t, autoRefactorEligible(PriorityHigh, 1.2, 1.05))

	// Critical with large size qualifies.
	assert.True(t, autoRefactorEligible(PriorityCritical, 2.2, 1.17))

	// Severe complexity qualifies on its own.
	assert.True(t, autoRefactorEligible(PriorityLow, 0.5, 1.25))

	// Low priority with modest ratios never qualifies.
	assert.False(t, autoRefactorEligible(PriorityLow, 1.0, 0.9))
}

func TestSuggestedActionsBounded(t *testing.T) {
	gen := NewGenerator()

	for _, kind := range []FileKind{KindComponent, KindHook, KindUtility, KindPage, ""} {
		s := gen.Generate(FileHealthRecord{Path: "src/x.ts", Lines: 500, Kind: kind, Complexity: 40})
		require.NotEmpty(t, s.SuggestedActions)
		assert.LessOrEqual(t, len(s.SuggestedActions), 4)
	}
}

func TestKindInferenceFromPath(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"src/hooks/useChat.ts", 150},
		{"src/pages/Home.tsx", 300},
		{"src/utils/parser.ts", 250},
		{"src/components/Chart.tsx", 200},
		{"src/whatever.ts", 200},
	}

	gen := NewGenerator()
	for _, tt := range tests {
		s := gen.Generate(FileHealthRecord{Path: tt.path, Lines: 100, Complexity: 5})
		assert.Equal(t, tt.want, s.Threshold, tt.path)
	}
}
