package bridge

import (
	"fmt"

	"github.com/tessro/patchdeck/internal/core"
)

// Dispatch applies one command. Commands that target an id with no element
// on the page are dropped: UI rendering may lag behind the command stream.
func (b *Bridge) Dispatch(cmd core.Command) {
	switch c := cmd.(type) {
	case core.Play:
		b.play(c.ID)
	case core.Pause:
		if el, ok := b.resolve(c.ID, c); ok {
			el.Pause()
		}
	case core.Seek:
		// Range checks belong to the element.
		if el, ok := b.resolve(c.ID, c); ok {
			el.SetCurrentTime(c.Time)
		}
	case core.SetLoop:
		b.setLoop(c.Enabled)
	case core.ScrollToTop:
		if b.viewport != nil {
			b.viewport.ScrollToTop()
		}
	default:
		b.logger.Warn("unsupported command", "type", fmt.Sprintf("%T", cmd))
	}
}

func (b *Bridge) play(id string) {
	el, ok := b.resolve(id, core.Play{ID: id})
	if !ok {
		return
	}
	b.StopAllExcept(id)
	el.Play()
}

func (b *Bridge) setLoop(enabled bool) {
	for _, el := range b.elements.All() {
		el.SetLoop(enabled)
	}
}

// resolve looks up the command's target at dispatch time.
func (b *Bridge) resolve(id string, cmd core.Command) (core.MediaElement, bool) {
	el, ok := b.elements.Lookup(id)
	if !ok {
		b.logger.Debug("dropping command for unknown track", "command", cmd.String(), "id", id)
	}
	return el, ok
}
