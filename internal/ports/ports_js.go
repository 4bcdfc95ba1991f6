//go:build js && wasm

package ports

import "syscall/js"

// JSApp adapts the value returned by Elm.<Module>.init.
type JSApp struct {
	ports js.Value
}

// NewJSApp wraps an initialized Elm application.
func NewJSApp(app js.Value) *JSApp {
	return &JSApp{ports: app.Get("ports")}
}

// Inbound returns the port if the app declares it with subscribe.
func (a *JSApp) Inbound(name string) (Inbound, bool) {
	p, ok := a.port(name, "subscribe")
	if !ok {
		return nil, false
	}
	return jsInbound{p}, true
}

// Outbound returns the port if the app declares it with send.
func (a *JSApp) Outbound(name string) (Outbound, bool) {
	p, ok := a.port(name, "send")
	if !ok {
		return nil, false
	}
	return jsOutbound{p}, true
}

func (a *JSApp) port(name, method string) (js.Value, bool) {
	if a.ports.IsUndefined() || a.ports.IsNull() {
		return js.Value{}, false
	}
	p := a.ports.Get(name)
	if p.IsUndefined() || p.IsNull() || p.Get(method).Type() != js.TypeFunction {
		return js.Value{}, false
	}
	return p, true
}

type jsInbound struct {
	v js.Value
}

// Subscribe registers fn for the lifetime of the page.
func (p jsInbound) Subscribe(fn func(payload any)) {
	p.v.Call("subscribe", js.FuncOf(func(this js.Value, args []js.Value) any {
		var payload any
		if len(args) > 0 {
			payload = toGo(args[0])
		}
		fn(payload)
		return nil
	}))
}

type jsOutbound struct {
	v js.Value
}

func (p jsOutbound) Send(v any) {
	p.v.Call("send", js.ValueOf(v))
}

// toGo converts the JSON-like values Elm sends through ports.
func toGo(v js.Value) any {
	switch v.Type() {
	case js.TypeString:
		return v.String()
	case js.TypeNumber:
		return v.Float()
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeObject:
		if v.IsNull() {
			return nil
		}
		if js.Global().Get("Array").Call("isArray", v).Bool() {
			out := make([]any, v.Length())
			for i := range out {
				out[i] = toGo(v.Index(i))
			}
			return out
		}
		keys := js.Global().Get("Object").Call("keys", v)
		out := make(map[string]any, keys.Length())
		for i := 0; i < keys.Length(); i++ {
			k := keys.Index(i).String()
			out[k] = toGo(v.Get(k))
		}
		return out
	default:
		return nil
	}
}
