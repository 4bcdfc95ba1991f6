package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/patchdeck/internal/tui/styles"
)

// maxFeedLines bounds the backlog kept in memory.
const maxFeedLines = 200

// Feed shows the newest telemetry and event lines first.
type Feed struct {
	lines []string
}

// NewFeed creates a new Feed component
func NewFeed() *Feed {
	return &Feed{}
}

// Push adds a line to the top of the feed.
func (f *Feed) Push(line string) {
	f.lines = append([]string{line}, f.lines...)
	if len(f.lines) > maxFeedLines {
		f.lines = f.lines[:maxFeedLines]
	}
}

// Len returns the number of buffered lines.
func (f *Feed) Len() int {
	return len(f.lines)
}

// Render renders the feed panel
func (f *Feed) Render(width, height int, focused bool) string {
	title := styles.PanelTitle("Activity", focused)

	maxLines := height - 4
	if maxLines < 1 {
		maxLines = 1
	}

	var content string
	if len(f.lines) == 0 {
		content = styles.Muted.Render("No activity yet")
	} else {
		n := len(f.lines)
		if n > maxLines {
			n = maxLines
		}
		shown := make([]string, n)
		for i := 0; i < n; i++ {
			shown[i] = styles.Dim.Render(truncate(f.lines[i], width-4))
		}
		content = lipgloss.JoinVertical(lipgloss.Left, shown...)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}
