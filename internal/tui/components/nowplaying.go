package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/patchdeck/internal/core"
	"github.com/tessro/patchdeck/internal/tui/styles"
)

// NowPlaying displays the playing track, or the selected one when nothing
// plays.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(track *core.Track, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if track == nil {
		content = styles.Muted.Render("Nothing selected")
	} else {
		content = n.renderTrack(track, width-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (n *NowPlaying) renderTrack(track *core.Track, width int) string {
	icon := styles.StatusIcon(track.Playing)
	name := styles.Title.Width(width - 4).Render(track.ID)

	state := styles.Paused.Render("paused")
	if track.Playing {
		state = styles.Playing.Render("playing")
	}
	loop := styles.Dim.Render("loop off")
	if track.Loop {
		loop = styles.Highlight.Render("loop on")
	}

	// Times on either side take 16 columns.
	barWidth := width - 16
	if barWidth < 10 {
		barWidth = 10
	}
	total := "-:--.-"
	if track.Duration > 0 {
		total = formatSeconds(track.Duration)
	}
	progress := fmt.Sprintf("%s %s %s",
		formatSeconds(track.CurrentTime),
		styles.ProgressBar(track.ProgressPercent(), barWidth),
		total)

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+name,
		"  "+state+"  "+loop,
		"",
		progress,
	)
}

func formatSeconds(s float64) string {
	if s < 0 || math.IsNaN(s) {
		s = 0
	}
	total := int(math.Round(s * 10))
	return fmt.Sprintf("%d:%02d.%d", total/600, (total%600)/10, total%10)
}
