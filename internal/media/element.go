package media

import (
	"math"

	"github.com/tessro/patchdeck/internal/core"
)

// Element is a simulated audio element. Its state is guarded by the owning
// page's lock.
type Element struct {
	page        *Page
	id          string
	duration    float64
	currentTime float64
	paused      bool
	loop        bool
}

// ID returns the element id.
func (e *Element) ID() string { return e.id }

// Play starts playback. Playing a finished, non-looping element restarts it.
func (e *Element) Play() {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	if e.duration > 0 && e.currentTime >= e.duration {
		e.currentTime = 0
	}
	e.paused = false
}

// Pause stops playback.
func (e *Element) Pause() {
	e.page.mu.Lock()
	e.paused = true
	e.page.mu.Unlock()
}

// Paused reports whether the element is not playing.
func (e *Element) Paused() bool {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.paused
}

// CurrentTime returns the playhead in seconds.
func (e *Element) CurrentTime() float64 {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.currentTime
}

// SetCurrentTime moves the playhead, clamped to [0, duration] when the
// duration is known, and fires a time-update signal. Non-finite positions
// are ignored.
func (e *Element) SetCurrentTime(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return
	}
	e.page.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if e.duration > 0 && seconds > e.duration {
		seconds = e.duration
	}
	e.currentTime = seconds
	e.page.mu.Unlock()

	e.page.emit(e)
}

// Loop reports the loop attribute.
func (e *Element) Loop() bool {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.loop
}

// SetLoop sets or clears the loop attribute.
func (e *Element) SetLoop(enabled bool) {
	e.page.mu.Lock()
	e.loop = enabled
	e.page.mu.Unlock()
}

// Duration returns the media length in seconds, 0 if unknown.
func (e *Element) Duration() float64 {
	return e.duration
}

var _ core.MediaElement = (*Element)(nil)
