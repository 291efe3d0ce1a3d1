package health

import (
	"fmt"
	"strings"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/metrics"
)

// lowMaintainabilityBand is the maintainability index below which a file is
// called out as hard to maintain in the suggestion reason.
const lowMaintainabilityBand = 40.0

// maxSuggestedActions caps the remediation hints attached to a suggestion.
const maxSuggestedActions = 4

// Generator turns one FileHealthRecord into one RefactoringSuggestion.
// It is pure and deterministic: the same record always yields the same
// suggestion.
type Generator struct{}

// NewGenerator creates a suggestion generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate produces the suggestion for a single file health record.
func (g *Generator) Generate(record FileHealthRecord) RefactoringSuggestion {
	kind := resolveKind(record)
	threshold := ThresholdForKind(kind)

	sizeRatio := float64(record.Lines) / float64(threshold)
	complexityRatio := record.Complexity / metrics.ComplexityHighBand

	maintainability := metrics.MaintainabilityIndex(record.Lines, record.Complexity)
	urgency := metrics.UrgencyScore(record.Lines, threshold, record.Complexity)

	priority := classifyPriority(sizeRatio, complexityRatio)

	return RefactoringSuggestion{
		File:                 record.Path,
		CurrentLines:         record.Lines,
		Threshold:            threshold,
		Priority:             priority,
		Reason:               buildReason(record, threshold, complexityRatio, maintainability),
		SuggestedActions:     suggestActions(kind, complexityRatio),
		AutoRefactor:         autoRefactorEligible(priority, sizeRatio, complexityRatio),
		Complexity:           record.Complexity,
		MaintainabilityIndex: maintainability,
		UrgencyScore:         urgency,
		Issues:               classifyIssues(sizeRatio, complexityRatio),
		EstimatedImpact:      estimateImpact(priority),
	}
}

// classifyPriority applies the tiered, multi-factor priority rule. Both
// ratios participate in every band, so a short-but-tangled file and a
// long-but-simple file can each reach high.
func classifyPriority(sizeRatio, complexityRatio float64) Priority {
	if sizeRatio > 2 || complexityRatio > 1.1 || (sizeRatio > 1.5 && complexityRatio > 0.7) {
		if sizeRatio > 2 && complexityRatio > 1.1 {
			return PriorityCritical
		}
		return PriorityHigh
	}
	if sizeRatio > 1.5 || complexityRatio > 0.8 {
		return PriorityMedium
	}
	return PriorityLow
}

// autoRefactorEligible is the generator-level auto-trigger gate. The
// executor applies a second, stricter gate before any dispatch.
func autoRefactorEligible(priority Priority, sizeRatio, complexityRatio float64) bool {
	if priority.AtLeast(PriorityHigh) && sizeRatio > 1.5 {
		return true
	}
	if complexityRatio > 1.2 {
		return true
	}
	return priority == PriorityMedium && sizeRatio > 2 && complexityRatio > 0.8
}

func classifyIssues(sizeRatio, complexityRatio float64) []string {
	var issues []string
	if sizeRatio > 1 {
		issues = append(issues, IssueExceedsLineThreshold)
	}
	if complexityRatio > 1 {
		issues = append(issues, IssueHighComplexity)
	}
	if sizeRatio > 2 {
		issues = append(issues, IssueCriticallyLargeFile)
	}
	return issues
}

func estimateImpact(priority Priority) Impact {
	switch priority {
	case PriorityCritical, PriorityHigh:
		return ImpactHigh
	case PriorityMedium:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// buildReason assembles the justification from whichever findings apply.
func buildReason(record FileHealthRecord, threshold int, complexityRatio, maintainability float64) string {
	var parts []string

	if record.Lines > threshold {
		parts = append(parts, fmt.Sprintf("exceeds the %d-line threshold (%d lines)", threshold, record.Lines))
	}
	if complexityRatio > 1 {
		parts = append(parts, fmt.Sprintf("has high complexity (%.1f)", record.Complexity))
	} else if complexityRatio > 0.8 {
		parts = append(parts, fmt.Sprintf("has moderate complexity (%.1f)", record.Complexity))
	}
	if maintainability < lowMaintainabilityBand {
		parts = append(parts, fmt.Sprintf("has low maintainability index (%.1f)", maintainability))
	}

	if len(parts) == 0 {
		return "File is within healthy limits"
	}
	return "File " + strings.Join(parts, ", ")
}

// suggestActions is a small decision table keyed by file identity and
// complexity band. At most maxSuggestedActions hints are returned, most
// impactful first.
func suggestActions(kind FileKind, complexityRatio float64) []string {
	var actions []string

	// High-complexity files get structural simplification first regardless
	// of kind: it unblocks every other split.
	if complexityRatio > 1 {
		actions = append(actions, "Flatten nested conditionals and extract decision logic into named helpers")
	}

	switch kind {
	case KindComponent:
		actions = append(actions,
			"Extract subcomponents from the render body",
			"Move data fetching and state transitions into a dedicated hook",
			"Extract shared presentational pieces into reusable components")
	case KindHook:
		actions = append(actions,
			"Split into smaller single-purpose hooks",
			"Extract pure computation out of the hook body into utilities")
	case KindUtility:
		actions = append(actions,
			"Group related helpers into focused modules",
			"Extract a shared core and keep thin re-export wrappers")
	case KindPage:
		actions = append(actions,
			"Extract page sections into components",
			"Move orchestration logic into hooks",
			"Defer below-the-fold sections to lazy-loaded modules")
	default:
		actions = append(actions,
			"Split into smaller, focused modules",
			"Extract reusable logic into shared utilities")
	}

	if complexityRatio > 0.8 && complexityRatio <= 1 {
		actions = append(actions, "Table-drive repeated branching before it compounds")
	}

	if len(actions) > maxSuggestedActions {
		actions = actions[:maxSuggestedActions]
	}
	return actions
}

// resolveKind trusts the declared kind and falls back to path inference for
// records from older inventory reports that omit it.
func resolveKind(record FileHealthRecord) FileKind {
	switch record.Kind {
	case KindComponent, KindHook, KindUtility, KindPage:
		return record.Kind
	}

	path := strings.ToLower(record.Path)
	switch {
	case strings.Contains(path, "/hooks/") || strings.HasPrefix(strings.ToLower(baseName(record.Path)), "use"):
		return KindHook
	case strings.Contains(path, "/pages/"):
		return KindPage
	case strings.Contains(path, "/utils/") || strings.Contains(path, "/lib/"):
		return KindUtility
	case strings.Contains(path, "/components/"):
		return KindComponent
	}
	return ""
}

func baseName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
