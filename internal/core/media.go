package core

// MediaElement is an addressable audio element. Play and Pause return
// immediately; the platform may complete them later.
type MediaElement interface {
	ID() string
	Play()
	Pause()
	Paused() bool
	CurrentTime() float64
	// SetCurrentTime moves the playhead. Out-of-range values are handled by
	// the element.
	SetCurrentTime(seconds float64)
	Loop() bool
	SetLoop(enabled bool)
	// Duration returns the media length in seconds, or 0 when unknown.
	Duration() float64
}

// Elements resolves media elements living on the page. Implementations must
// answer from live state; membership can change between calls.
type Elements interface {
	Lookup(id string) (MediaElement, bool)
	All() []MediaElement
}

// Viewport is the page scroll collaborator.
type Viewport interface {
	ScrollToTop()
}

// TimeSource delivers time-update signals from every media element. The
// returned function removes the subscription.
type TimeSource interface {
	OnTimeUpdate(fn func(MediaElement)) (unsubscribe func())
}
