package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-maryme/pkg/wizard"
)

var (
	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32"))
	emptyStyle  = lipgloss.NewStyle().Faint(true)
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

// ProgressBar renders one cell per step, filled up to the current step, then
// the position and the current step label.
func ProgressBar(segments []wizard.Segment) string {
	if len(segments) == 0 {
		return ""
	}
	var cells strings.Builder
	current := segments[0]
	for _, seg := range segments {
		if seg.Filled {
			cells.WriteString(filledStyle.Render("■"))
		} else {
			cells.WriteString(emptyStyle.Render("□"))
		}
		if seg.Current {
			current = seg
		}
	}
	return fmt.Sprintf("%s %d/%d %s", cells.String(), current.Index+1, len(segments), labelStyle.Render(current.Label))
}
