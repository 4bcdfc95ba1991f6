//go:build js && wasm

package dom

import (
	"math"
	"syscall/js"

	"github.com/tessro/patchdeck/internal/core"
)

// Element wraps an HTMLMediaElement.
type Element struct {
	v js.Value
}

func (e *Element) ID() string { return e.v.Get("id").String() }

// Play starts playback. The returned promise rejects when the browser blocks
// autoplay; the rejection is swallowed.
func (e *Element) Play() {
	p := e.v.Call("play")
	if p.IsUndefined() || p.IsNull() || p.Get("then").Type() != js.TypeFunction {
		return
	}
	var settle js.Func
	settle = js.FuncOf(func(this js.Value, args []js.Value) any {
		settle.Release()
		return nil
	})
	p.Call("then", settle, settle)
}

func (e *Element) Pause() { e.v.Call("pause") }

func (e *Element) Paused() bool { return e.v.Get("paused").Bool() }

func (e *Element) CurrentTime() float64 { return e.v.Get("currentTime").Float() }

// SetCurrentTime ignores non-finite positions, which the browser rejects
// with a TypeError.
func (e *Element) SetCurrentTime(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return
	}
	e.v.Set("currentTime", seconds)
}

func (e *Element) Loop() bool { return e.v.Get("loop").Bool() }

func (e *Element) SetLoop(enabled bool) { e.v.Set("loop", enabled) }

// Duration returns 0 until metadata has loaded and for live streams.
func (e *Element) Duration() float64 {
	d := e.v.Get("duration").Float()
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return d
}

var _ core.MediaElement = (*Element)(nil)
