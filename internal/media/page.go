// Package media provides an in-memory media page: a set of simulated audio
// elements and a scrollable viewport. It backs the terminal deck, the script
// runner, and tests.
package media

import (
	"math"
	"sort"
	"sync"

	"github.com/tessro/patchdeck/internal/core"
)

// Page is a mutable set of audio elements plus a viewport.
type Page struct {
	mu        sync.Mutex
	elements  []*Element
	listeners map[int]func(core.MediaElement)
	nextSub   int
	scrollY   float64
}

// NewPage creates an empty page.
func NewPage() *Page {
	return &Page{
		listeners: make(map[int]func(core.MediaElement)),
	}
}

// Add mounts a new element. A duration of 0 means unknown. Adding an id that
// already exists replaces the old element, as re-rendering would.
func (p *Page) Add(id string, duration float64) *Element {
	el := &Element{page: p, id: id, duration: duration, paused: true}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.elements {
		if existing.id == id {
			p.elements[i] = el
			return el
		}
	}
	p.elements = append(p.elements, el)
	return el
}

// Remove unmounts an element. It reports whether the id was present.
func (p *Page) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, el := range p.elements {
		if el.id == id {
			p.elements = append(p.elements[:i], p.elements[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the element with the given id.
func (p *Page) Lookup(id string) (core.MediaElement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, el := range p.elements {
		if el.id == id {
			return el, true
		}
	}
	return nil, false
}

// All returns the elements in mount order.
func (p *Page) All() []core.MediaElement {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.MediaElement, len(p.elements))
	for i, el := range p.elements {
		out[i] = el
	}
	return out
}

// IDs returns the mounted element ids in mount order.
func (p *Page) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, len(p.elements))
	for i, el := range p.elements {
		ids[i] = el.id
	}
	return ids
}

// OnTimeUpdate registers fn for every time-update signal on the page.
func (p *Page) OnTimeUpdate(fn func(core.MediaElement)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// ScrollTo sets the vertical scroll offset.
func (p *Page) ScrollTo(y float64) {
	p.mu.Lock()
	p.scrollY = math.Max(0, y)
	p.mu.Unlock()
}

// ScrollToTop resets the viewport to the origin.
func (p *Page) ScrollToTop() {
	p.ScrollTo(0)
}

// ScrollY returns the vertical scroll offset.
func (p *Page) ScrollY() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrollY
}

// Advance moves every playing element forward by dt seconds and fires a
// time-update signal for each one. At the end of media a looping element
// wraps to the start and a non-looping element pauses at its duration.
func (p *Page) Advance(dt float64) {
	if dt <= 0 {
		return
	}

	p.mu.Lock()
	var moved []*Element
	for _, el := range p.elements {
		if el.paused {
			continue
		}
		el.currentTime += dt
		if el.duration > 0 && el.currentTime >= el.duration {
			if el.loop {
				el.currentTime = math.Mod(el.currentTime, el.duration)
			} else {
				el.currentTime = el.duration
				el.paused = true
			}
		}
		moved = append(moved, el)
	}
	p.mu.Unlock()

	for _, el := range moved {
		p.emit(el)
	}
}

// emit calls listeners outside the lock so they may query the page.
func (p *Page) emit(el *Element) {
	p.mu.Lock()
	keys := make([]int, 0, len(p.listeners))
	for k := range p.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fns := make([]func(core.MediaElement), len(keys))
	for i, k := range keys {
		fns[i] = p.listeners[k]
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(el)
	}
}

var (
	_ core.Elements   = (*Page)(nil)
	_ core.Viewport   = (*Page)(nil)
	_ core.TimeSource = (*Page)(nil)
)
