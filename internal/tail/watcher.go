package tail

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tessro/patchdeck/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventPlay EventType = iota
	EventPause
	EventEnded
	EventSeek
	EventLoopChange
	EventTrackAdded
	EventTrackRemoved
)

// String returns the event name used in templates and JSON output.
func (t EventType) String() string {
	return eventTypeName(t)
}

// seekTolerance is the slack, in seconds, allowed between expected and
// observed progress before a jump counts as a seek.
const seekTolerance = 0.5

// Event represents a state change on one track.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Track
	Current   *core.Track
}

// TrackID returns the id of the track the event is about.
func (e Event) TrackID() string {
	if e.Current != nil {
		return e.Current.ID
	}
	if e.Previous != nil {
		return e.Previous.ID
	}
	return ""
}

// Source lists the tracks on the page.
type Source interface {
	Tracks() []core.Track
}

// Watcher polls a source for state changes and emits events.
type Watcher struct {
	source   Source
	interval time.Duration
	tracker  *Tracker
	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a new state watcher. Changes are reported relative to
// the source's state at construction.
func NewWatcher(source Source, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		source:   source,
		interval: interval,
		tracker:  NewTracker(source.Tracks()),
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes. It closes the events channel when
// it returns.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case now := <-ticker.C:
			for _, e := range w.tracker.Observe(w.source.Tracks(), now.Sub(last), now) {
				select {
				case w.events <- e:
				default:
					// Drop event if channel is full
				}
			}
			last = now
		}
	}
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// Tracker turns successive snapshots into events. Callers that control the
// clock, such as script replays, feed it directly instead of polling.
type Tracker struct {
	prev map[string]core.Track
}

// NewTracker starts tracking from an initial snapshot.
func NewTracker(initial []core.Track) *Tracker {
	return &Tracker{prev: index(initial)}
}

// Observe diffs tracks against the previous snapshot. elapsed is the
// playback time that passed since then.
func (t *Tracker) Observe(tracks []core.Track, elapsed time.Duration, now time.Time) []Event {
	curr := index(tracks)
	events := diffStates(t.prev, curr, order(tracks), elapsed, now)
	t.prev = curr
	return events
}

func index(tracks []core.Track) map[string]core.Track {
	m := make(map[string]core.Track, len(tracks))
	for _, t := range tracks {
		m[t.ID] = t
	}
	return m
}

func order(tracks []core.Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

// diffStates compares two polls and returns detected events. ids gives the
// current page order so output is deterministic; removed tracks come last.
func diffStates(prev, curr map[string]core.Track, ids []string, elapsed time.Duration, now time.Time) []Event {
	var events []Event

	emit := func(t EventType, p, c *core.Track) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: p, Current: c})
	}

	for _, id := range ids {
		c := curr[id]
		p, existed := prev[id]
		if !existed {
			emit(EventTrackAdded, nil, &c)
			continue
		}

		switch {
		case !p.Playing && c.Playing:
			emit(EventPlay, &p, &c)
		case p.Playing && !c.Playing:
			if ended(c) {
				emit(EventEnded, &p, &c)
			} else {
				emit(EventPause, &p, &c)
			}
		}

		if seeked(p, c, elapsed) {
			emit(EventSeek, &p, &c)
		}

		if p.Loop != c.Loop {
			emit(EventLoopChange, &p, &c)
		}
	}

	for _, id := range removedIDs(prev, curr) {
		p := prev[id]
		emit(EventTrackRemoved, &p, nil)
	}

	return events
}

// ended returns true if the track stopped at the end of its media.
func ended(t core.Track) bool {
	return t.Duration > 0 && t.CurrentTime >= t.Duration
}

// seeked returns true if the playhead moved further than playback explains.
func seeked(p, c core.Track, elapsed time.Duration) bool {
	expected := p.CurrentTime
	if p.Playing {
		expected += elapsed.Seconds()
	}

	if p.Loop && p.Duration > 0 && expected >= p.Duration {
		expected = math.Mod(expected, p.Duration)
	}
	if !p.Loop && p.Duration > 0 && expected > p.Duration {
		expected = p.Duration
	}

	// Play state flipped somewhere between the two polls.
	if p.Playing && !c.Playing && c.CurrentTime >= p.CurrentTime && c.CurrentTime <= expected+seekTolerance {
		return false
	}
	if !p.Playing && c.Playing {
		start := p.CurrentTime
		if ended(p) {
			start = 0
		}
		if c.CurrentTime >= start && c.CurrentTime <= start+elapsed.Seconds()+seekTolerance {
			return false
		}
	}

	return math.Abs(c.CurrentTime-expected) > seekTolerance
}

func removedIDs(prev, curr map[string]core.Track) []string {
	var ids []string
	for id := range prev {
		if _, ok := curr[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
