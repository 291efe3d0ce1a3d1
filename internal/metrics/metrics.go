// Package metrics provides the pure scoring functions behind the
// code-health pipeline. All functions are stateless and deterministic;
// callers are responsible for validating inputs (lines > 0, threshold > 0).
package metrics

import "math"

// ComplexityHighBand is the complexity score treated as the top of the
// "high complexity" band. Complexity ratios elsewhere in the pipeline are
// expressed relative to this value.
const ComplexityHighBand = 30.0

// MaintainabilityIndex derives a health score from file size and complexity.
// Size is penalized logarithmically (large files are disproportionately
// costly only up to a point) and complexity linearly (each unit is an
// equally-weighted maintenance cost). The result is clamped at zero.
func MaintainabilityIndex(lines int, complexity float64) float64 {
	index := 100 - math.Log2(float64(lines))*10 - complexity*2
	if index < 0 {
		return 0
	}
	return index
}

// UrgencyScore combines size-over-threshold and complexity-over-band into a
// single [0,100] ranking metric. The two terms are capped independently at 50
// so that neither dimension alone can saturate urgency, but either can
// contribute up to half.
func UrgencyScore(lines, threshold int, complexity float64) float64 {
	sizeTerm := float64(lines) / float64(threshold) * 30
	if sizeTerm > 50 {
		sizeTerm = 50
	}

	complexityTerm := complexity / ComplexityHighBand * 40
	if complexityTerm > 50 {
		complexityTerm = 50
	}

	score := sizeTerm + complexityTerm
	if score > 100 {
		return 100
	}
	return score
}
