//go:build js && wasm

// Package dom exposes the browser page's audio elements to the bridge.
// Every call reads the live DOM; nothing is cached between calls.
package dom

import (
	"syscall/js"

	"github.com/tessro/patchdeck/internal/core"
)

// Document resolves media elements in the current page.
type Document struct {
	doc      js.Value
	win      js.Value
	selector string
}

// NewDocument returns a Document over the global document. selector picks
// the elements SetLoop and exclusivity apply to; empty means "audio".
func NewDocument(selector string) *Document {
	if selector == "" {
		selector = "audio"
	}
	return &Document{
		doc:      js.Global().Get("document"),
		win:      js.Global(),
		selector: selector,
	}
}

// Lookup finds a media element by id.
func (d *Document) Lookup(id string) (core.MediaElement, bool) {
	v := d.doc.Call("getElementById", id)
	if !isMedia(v) {
		return nil, false
	}
	return &Element{v: v}, true
}

// All returns every element matching the selector.
func (d *Document) All() []core.MediaElement {
	list := d.doc.Call("querySelectorAll", d.selector)
	n := list.Length()
	out := make([]core.MediaElement, 0, n)
	for i := 0; i < n; i++ {
		if v := list.Index(i); isMedia(v) {
			out = append(out, &Element{v: v})
		}
	}
	return out
}

// ScrollToTop scrolls the window to the origin.
func (d *Document) ScrollToTop() {
	d.win.Call("scrollTo", 0, 0)
}

// OnTimeUpdate listens for timeupdate during the capture phase on the
// document, which covers elements mounted after the call.
func (d *Document) OnTimeUpdate(fn func(core.MediaElement)) func() {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		if target := args[0].Get("target"); isMedia(target) {
			fn(&Element{v: target})
		}
		return nil
	})
	d.doc.Call("addEventListener", "timeupdate", listener, true)

	return func() {
		d.doc.Call("removeEventListener", "timeupdate", listener, true)
		listener.Release()
	}
}

func isMedia(v js.Value) bool {
	return !v.IsNull() && !v.IsUndefined() && v.Get("play").Type() == js.TypeFunction
}

var (
	_ core.Elements   = (*Document)(nil)
	_ core.Viewport   = (*Document)(nil)
	_ core.TimeSource = (*Document)(nil)
)
