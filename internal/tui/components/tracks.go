package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/patchdeck/internal/core"
	"github.com/tessro/patchdeck/internal/tui/styles"
)

// Tracks lists the elements on the page with a cursor.
type Tracks struct {
	offset   int
	selected int
}

// NewTracks creates a new Tracks component
func NewTracks() *Tracks {
	return &Tracks{}
}

// SelectNext moves the cursor down.
func (t *Tracks) SelectNext(n int) {
	if t.selected < n-1 {
		t.selected++
	}
}

// SelectPrev moves the cursor up.
func (t *Tracks) SelectPrev() {
	if t.selected > 0 {
		t.selected--
	}
}

// Selected returns the cursor index, clamped to n items.
func (t *Tracks) Selected(n int) int {
	if t.selected >= n {
		t.selected = n - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
	return t.selected
}

// Render renders the track list panel
func (t *Tracks) Render(tracks []core.Track, width, height int, focused bool) string {
	title := styles.PanelTitle("Tracks", focused)

	var content string
	if len(tracks) == 0 {
		content = styles.Muted.Render("No media elements on the page")
	} else {
		content = t.renderTracks(tracks, width-4, height-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (t *Tracks) renderTracks(tracks []core.Track, width, maxLines int) string {
	selected := t.Selected(len(tracks))

	visible := maxLines - 1 // room for the "more" line
	if visible < 1 {
		visible = 1
	}
	if selected < t.offset {
		t.offset = selected
	}
	if selected >= t.offset+visible {
		t.offset = selected - visible + 1
	}

	end := t.offset + visible
	if end > len(tracks) {
		end = len(tracks)
	}

	// "XX. " (4) + icon (2) + loop (3) + " m:ss.t" (8)
	const overhead = 17

	lines := make([]string, 0, end-t.offset+1)
	for i := t.offset; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%2d.", i+1)
		id := truncate(track.ID, width-overhead)

		if track.Playing {
			id = styles.Playing.Render(id)
		}

		line := fmt.Sprintf("%s %s %s %s %s",
			styles.Dim.Render(num),
			styles.StatusIcon(track.Playing),
			styles.LoopIcon(track.Loop),
			id,
			styles.Dim.Render(formatSeconds(track.CurrentTime)))
		if i == selected {
			line = styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	if end < len(tracks) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
