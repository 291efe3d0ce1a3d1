package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaintainabilityIndex_KnownValues(t *testing.T) {
	// 100 - log2(256)*10 - 5*2 = 100 - 80 - 10 = 10
	assert.InDelta(t, 10.0, MaintainabilityIndex(256, 5), 0.0001)

	// 100 - log2(2)*10 - 0 = 90
	assert.InDelta(t, 90.0, MaintainabilityIndex(2, 0), 0.0001)
}

func TestMaintainabilityIndex_NonNegative(t *testing.T) {
	// Large enough inputs would go negative without the clamp
	assert.Equal(t, 0.0, MaintainabilityIndex(100000, 60))
	assert.Equal(t, 0.0, MaintainabilityIndex(4096, 50))
}

func TestMaintainabilityIndex_MonotonicInLines(t *testing.T) {
	prev := math.Inf(1)
	for _, lines := range []int{50, 100, 200, 400, 800, 1600} {
		idx := MaintainabilityIndex(lines, 10)
		assert.LessOrEqual(t, idx, prev, "index must not increase with lines (lines=%d)", lines)
		prev = idx
	}
}

func TestMaintainabilityIndex_MonotonicInComplexity(t *testing.T) {
	prev := math.Inf(1)
	for c := 0.0; c <= 60; c += 5 {
		idx := MaintainabilityIndex(300, c)
		assert.LessOrEqual(t, idx, prev, "index must not increase with complexity (c=%f)", c)
		prev = idx
	}
}

func TestUrgencyScore_Bounds(t *testing.T) {
	for _, tt := range []struct {
		lines, threshold int
		complexity       float64
	}{
		{1, 200, 0},
		{445, 200, 35},
		{10000, 150, 60},
		{200, 200, 30},
	} {
		score := UrgencyScore(tt.lines, tt.threshold, tt.complexity)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

func TestUrgencyScore_SizeTermCappedAt50(t *testing.T) {
	// lines/threshold = 10 ⇒ raw size term 300, capped at 50
	assert.InDelta(t, 50.0, UrgencyScore(2000, 200, 0), 0.0001)
}

func TestUrgencyScore_ComplexityTermCappedAt50(t *testing.T) {
	// complexity 60 ⇒ raw term 80, capped at 50; size term ~0.15
	score := UrgencyScore(1, 200, 60)
	assert.InDelta(t, 50.0+float64(1)/200*30, score, 0.0001)
}

func TestUrgencyScore_StrictlyIncreasingBelowCaps(t *testing.T) {
	prev := -1.0
	for _, lines := range []int{50, 100, 150, 200, 250, 300} {
		score := UrgencyScore(lines, 200, 10)
		assert.Greater(t, score, prev, "score must increase with lines (lines=%d)", lines)
		prev = score
	}

	prev = -1.0
	for c := 0.0; c <= 30; c += 5 {
		score := UrgencyScore(100, 200, c)
		assert.Greater(t, score, prev, "score must increase with complexity (c=%f)", c)
		prev = score
	}
}

func TestUrgencyScore_BothTermsContribute(t *testing.T) {
	// sizeRatio 2.225 ⇒ size term capped at 50; complexity 35/30*40 = 46.67
	score := UrgencyScore(445, 200, 35)
	assert.InDelta(t, 96.6667, score, 0.001)
}
