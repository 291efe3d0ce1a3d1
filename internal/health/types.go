package health

import "context"

// FileKind classifies a source file for threshold selection.
type FileKind string

const (
	// KindComponent is a UI component file
	KindComponent FileKind = "component"
	// KindHook is a reusable hook file
	KindHook FileKind = "hook"
	// KindUtility is a shared utility file
	KindUtility FileKind = "utility"
	// KindPage is a top-level page file
	KindPage FileKind = "page"
)

// Line thresholds by file kind. Files above their kind's threshold are
// considered oversized. Unknown kinds fall back to DefaultLineThreshold.
const (
	ComponentLineThreshold = 200
	HookLineThreshold      = 150
	UtilityLineThreshold   = 250
	PageLineThreshold      = 300
	DefaultLineThreshold   = 200

	// GlobalAutoThreshold is the single line threshold the monitor uses to
	// coarse-filter suggestions before handing them to the executor.
	GlobalAutoThreshold = 220
)

// ThresholdForKind resolves the line threshold for a file kind.
func ThresholdForKind(kind FileKind) int {
	switch kind {
	case KindComponent:
		return ComponentLineThreshold
	case KindHook:
		return HookLineThreshold
	case KindUtility:
		return UtilityLineThreshold
	case KindPage:
		return PageLineThreshold
	default:
		return DefaultLineThreshold
	}
}

// FileHealthRecord is one file's health metrics as supplied by the external
// static-analysis collaborator. Records are immutable within an analysis
// cycle; a fresh inventory is fetched each cycle.
type FileHealthRecord struct {
	// Path identifies the file (unique within an inventory)
	Path string `json:"path" yaml:"path"`
	// Lines is the file's current line count
	Lines int `json:"lines" yaml:"lines"`
	// Kind is the declared file classification
	Kind FileKind `json:"kind" yaml:"kind"`
	// Complexity is the externally computed complexity score
	// (unbounded, practically 0-60)
	Complexity float64 `json:"complexity" yaml:"complexity"`
}

// InventorySource supplies the file inventory for an analysis cycle.
// Inventory acquisition is the external collaborator's responsibility;
// this subsystem never parses source files itself.
type InventorySource interface {
	// Snapshot returns the current file inventory
	Snapshot(ctx context.Context) ([]FileHealthRecord, error)
}

// Priority classifies how urgently a file needs restructuring.
type Priority string

const (
	// PriorityLow indicates no near-term action needed
	PriorityLow Priority = "low"
	// PriorityMedium indicates the file is drifting past its thresholds
	PriorityMedium Priority = "medium"
	// PriorityHigh indicates the file needs restructuring soon
	PriorityHigh Priority = "high"
	// PriorityCritical indicates the file is both oversized and tangled
	PriorityCritical Priority = "critical"
)

// priorityRank orders priorities for sorting and gate comparisons.
var priorityRank = map[Priority]int{
	PriorityLow:      1,
	PriorityMedium:   2,
	PriorityHigh:     3,
	PriorityCritical: 4,
}

// Rank returns the numeric ordering of a priority (higher is more urgent).
// Unknown priorities rank below low.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// AtLeast reports whether p is at least as urgent as other.
func (p Priority) AtLeast(other Priority) bool {
	return p.Rank() >= other.Rank()
}

// Impact estimates how much a remediation would improve the codebase.
type Impact string

const (
	// ImpactLow indicates marginal improvement expected
	ImpactLow Impact = "low"
	// ImpactMedium indicates noticeable improvement expected
	ImpactMedium Impact = "medium"
	// ImpactHigh indicates substantial improvement expected
	ImpactHigh Impact = "high"
)

// Issue tags attached to suggestions.
const (
	// IssueExceedsLineThreshold tags files over their kind's line threshold
	IssueExceedsLineThreshold = "exceeds-line-threshold"
	// IssueHighComplexity tags files whose complexity exceeds the high band
	IssueHighComplexity = "high-complexity"
	// IssueCriticallyLargeFile tags files at more than twice their threshold
	IssueCriticallyLargeFile = "critically-large-file"
)

// RefactoringSuggestion is the core output entity of an analysis cycle.
// Suggestions are recomputed every cycle and never diffed against prior
// cycles, so scores may fluctuate as inputs fluctuate.
type RefactoringSuggestion struct {
	// File identifies the file this suggestion concerns
	File string `json:"file"`
	// CurrentLines is the file's line count at analysis time
	CurrentLines int `json:"current_lines"`
	// Threshold is the line threshold the file was measured against
	Threshold int `json:"threshold"`
	// Priority is the classified urgency band
	Priority Priority `json:"priority"`
	// Reason is a human-readable justification
	Reason string `json:"reason"`
	// SuggestedActions are remediation hints, most impactful first (at most 4)
	SuggestedActions []string `json:"suggested_actions"`
	// AutoRefactor indicates whether this suggestion qualifies for
	// unattended execution (the generator-level gate; the executor applies
	// a second, stricter gate before dispatch)
	AutoRefactor bool `json:"auto_refactor"`
	// Complexity is the externally supplied complexity score
	Complexity float64 `json:"complexity"`
	// MaintainabilityIndex is the derived maintainability score
	MaintainabilityIndex float64 `json:"maintainability_index"`
	// UrgencyScore is the derived urgency score in [0,100]
	UrgencyScore float64 `json:"urgency_score"`
	// Issues are classification tags for this file
	Issues []string `json:"issues"`
	// EstimatedImpact is the expected payoff of acting on this suggestion
	EstimatedImpact Impact `json:"estimated_impact"`
}
