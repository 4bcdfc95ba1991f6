package bridge

import "github.com/tessro/patchdeck/internal/core"

// Attach forwards every time-update signal from source to the reporter. It
// returns the function that detaches the subscription. Without a reporter it
// subscribes to nothing.
func (b *Bridge) Attach(source core.TimeSource) (detach func()) {
	if b.reporter == nil || source == nil {
		return func() {}
	}
	return source.OnTimeUpdate(b.report)
}

func (b *Bridge) report(el core.MediaElement) {
	b.reporter(core.PlayheadReport{ID: el.ID(), Time: el.CurrentTime()})
}
