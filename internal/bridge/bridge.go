// Package bridge keeps application playback intents and real media elements
// in step. It routes commands to elements by id, keeps at most one element
// playing, applies the loop flag page-wide, and forwards playhead updates.
package bridge

import (
	"io"
	"log/slog"

	"github.com/tessro/patchdeck/internal/core"
)

// Reporter receives playhead updates. It must not block.
type Reporter func(core.PlayheadReport)

// Bridge is the context object shared by everything that dispatches commands
// or consumes telemetry. It holds no element references between calls.
type Bridge struct {
	elements core.Elements
	viewport core.Viewport
	reporter Reporter
	logger   *slog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithReporter wires the telemetry channel. Without it the bridge never
// subscribes to time-update signals.
func WithReporter(r Reporter) Option {
	return func(b *Bridge) {
		b.reporter = r
	}
}

// WithLogger sets the logger used for dropped commands.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a bridge over the given page collaborators. viewport may be nil
// when the host has no scrollable viewport.
func New(elements core.Elements, viewport core.Viewport, opts ...Option) *Bridge {
	b := &Bridge{
		elements: elements,
		viewport: viewport,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Telemetry reports whether a reporter is wired.
func (b *Bridge) Telemetry() bool {
	return b.reporter != nil
}

// Tracks returns a snapshot of every element currently on the page.
func (b *Bridge) Tracks() []core.Track {
	all := b.elements.All()
	tracks := make([]core.Track, len(all))
	for i, el := range all {
		tracks[i] = core.Snapshot(el)
	}
	return tracks
}

// Track returns a snapshot of one element.
func (b *Bridge) Track(id string) (core.Track, bool) {
	el, ok := b.elements.Lookup(id)
	if !ok {
		return core.Track{}, false
	}
	return core.Snapshot(el), true
}
