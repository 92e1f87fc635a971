package wish

import (
	"fmt"
	"strings"
)

// ParsePriority parses user input to a DisplayPriority.
// Supported: high, medium/normal, low, in either display or wire spelling.
func ParsePriority(input string) (DisplayPriority, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "high", "h":
		return DisplayHigh, nil
	case "medium", "normal", "med", "m":
		return DisplayMedium, nil
	case "low", "l":
		return DisplayLow, nil
	default:
		return "", fmt.Errorf("invalid priority %q (want high|medium|low)", input)
	}
}

// ParseStatus parses user input to a DisplayStatus.
func ParseStatus(input string) (DisplayStatus, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	switch s {
	case "not started", "todo", "new":
		return DisplayNotStarted, nil
	case "in progress", "active", "doing":
		return DisplayInProgress, nil
	case "completed", "done", "complete":
		return DisplayCompleted, nil
	default:
		return "", fmt.Errorf("invalid status %q (want not-started|in-progress|completed)", input)
	}
}
