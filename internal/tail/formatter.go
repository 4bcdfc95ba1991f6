package tail

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/patchdeck/internal/core"
)

// Formatter formats events and playhead reports for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
	now           func() time.Time
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	data := f.eventData(e)
	if f.template != nil {
		if s, ok := f.execute(data); ok {
			return s
		}
	}
	return f.line(data)
}

// FormatReport formats a playhead report as a string.
func (f *Formatter) FormatReport(r core.PlayheadReport) string {
	now := f.now()
	data := templateData{
		Type:        "timeupdate",
		Emoji:       "⏱️",
		Timestamp:   now,
		Time:        now.Format("15:04:05"),
		ID:          r.ID,
		Position:    r.Time,
		Description: fmt.Sprintf("%s at %s", r.ID, formatSeconds(r.Time)),
	}
	if f.template != nil {
		if s, ok := f.execute(data); ok {
			return s
		}
	}
	return f.line(data)
}

func (f *Formatter) line(data templateData) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, data.Time)
	}

	if f.showEmoji {
		parts = append(parts, data.Emoji)
	}

	parts = append(parts, data.Description)

	return strings.Join(parts, " ")
}

func (f *Formatter) execute(data templateData) (string, bool) {
	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return "", false
	}
	return buf.String(), true
}

type templateData struct {
	Type        string
	Emoji       string
	Timestamp   time.Time
	Time        string
	ID          string
	Position    float64
	Loop        bool
	Description string
}

func (f *Formatter) eventData(e Event) templateData {
	data := templateData{
		Type:        eventTypeName(e.Type),
		Emoji:       eventEmoji(e.Type),
		Timestamp:   e.Timestamp,
		Time:        e.Timestamp.Format("15:04:05"),
		ID:          e.TrackID(),
		Description: eventDescription(e),
	}
	if e.Current != nil {
		data.Position = e.Current.CurrentTime
		data.Loop = e.Current.Loop
	}
	return data
}

// eventDescription returns a human-readable description of the event.
func eventDescription(e Event) string {
	id := e.TrackID()

	switch e.Type {
	case EventPlay:
		return fmt.Sprintf("Playing: %s", id)

	case EventPause:
		if e.Current != nil {
			return fmt.Sprintf("Paused: %s at %s", id, formatSeconds(e.Current.CurrentTime))
		}
		return "Paused: " + id

	case EventEnded:
		return "Ended: " + id

	case EventSeek:
		if e.Previous != nil && e.Current != nil {
			return fmt.Sprintf("Seek: %s %s → %s", id,
				formatSeconds(e.Previous.CurrentTime),
				formatSeconds(e.Current.CurrentTime))
		}
		return "Seek: " + id

	case EventLoopChange:
		if e.Current != nil && e.Current.Loop {
			return fmt.Sprintf("Loop on: %s", id)
		}
		return fmt.Sprintf("Loop off: %s", id)

	case EventTrackAdded:
		return "Mounted: " + id

	case EventTrackRemoved:
		return "Unmounted: " + id

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventPlay:
		return "▶️"
	case EventPause:
		return "⏸️"
	case EventEnded:
		return "⏹️"
	case EventSeek:
		return "⏩"
	case EventLoopChange:
		return "🔁"
	case EventTrackAdded:
		return "➕"
	case EventTrackRemoved:
		return "➖"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	case EventSeek:
		return "seek"
	case EventLoopChange:
		return "loop_change"
	case EventTrackAdded:
		return "track_added"
	case EventTrackRemoved:
		return "track_removed"
	default:
		return "unknown"
	}
}

// formatSeconds renders a position as m:ss.t.
func formatSeconds(s float64) string {
	if s < 0 {
		s = 0
	}
	total := int(math.Round(s * 10))
	m := total / 600
	sec := (total % 600) / 10
	tenth := total % 10
	return fmt.Sprintf("%d:%02d.%d", m, sec, tenth)
}
