package console

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/health"
)

// FormatSuggestion renders one suggestion for terminal display.
func FormatSuggestion(s health.RefactoringSuggestion) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s\n", priorityBadge(s.Priority), s.File))
	b.WriteString(fmt.Sprintf("    lines=%d/%d complexity=%.1f mi=%.1f urgency=%.1f",
		s.CurrentLines, s.Threshold, s.Complexity, s.MaintainabilityIndex, s.UrgencyScore))
	if s.AutoRefactor {
		b.WriteString("  " + color.New(color.FgMagenta).Sprint("[auto]"))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    %s\n", s.Reason))
	for _, action := range s.SuggestedActions {
		b.WriteString(fmt.Sprintf("      - %s\n", action))
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatEvent renders one event as a single terminal line.
func FormatEvent(event *events.HealthEvent) string {
	ts := event.Timestamp.Format("15:04:05")
	line := fmt.Sprintf("%s %s %s", color.New(color.FgHiBlack).Sprint(ts),
		severityBadge(event.Severity), event.Type)
	if event.File != "" {
		line += " " + color.New(color.FgCyan).Sprint(event.File)
	}
	if event.Message != "" {
		line += "  " + event.Message
	}
	return line
}

func priorityBadge(priority health.Priority) string {
	switch priority {
	case health.PriorityCritical:
		return color.New(color.FgRed, color.Bold).Sprint("[CRITICAL]")
	case health.PriorityHigh:
		return color.New(color.FgRed).Sprint("[HIGH]")
	case health.PriorityMedium:
		return color.New(color.FgYellow).Sprint("[MEDIUM]")
	default:
		return color.New(color.FgGreen).Sprint("[LOW]")
	}
}

func severityBadge(severity events.EventSeverity) string {
	switch severity {
	case events.SeverityError:
		return color.New(color.FgRed).Sprint("ERR ")
	case events.SeverityWarning:
		return color.New(color.FgYellow).Sprint("WARN")
	default:
		return color.New(color.FgGreen).Sprint("INFO")
	}
}
