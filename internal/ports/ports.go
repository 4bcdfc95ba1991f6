// Package ports connects an Elm application's ports to the playback bridge.
// Inbound ports carry commands from the UI; the optional outbound port
// carries playhead reports back.
package ports

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/tessro/patchdeck/internal/bridge"
	"github.com/tessro/patchdeck/internal/core"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
)

// Port names used by the audio player UI.
const (
	PortPlay           = "play"
	PortPause          = "pause"
	PortSetCurrentTime = "setCurrentTime"
	PortSetLoop        = "setLoop"
	PortScrollToTop    = "scrollToTop"
	PortCurrentTime    = "currentTime"
)

// LegacyTrackID is the element id used by single-track pages whose ports
// carry no track id.
const LegacyTrackID = "elm-audio-file"

// Inbound is a port the UI sends values on.
type Inbound interface {
	Subscribe(fn func(payload any))
}

// Outbound is a port the UI receives values on.
type Outbound interface {
	Send(v any)
}

// App exposes the ports an application instance declares. Ports the UI does
// not declare are reported absent.
type App interface {
	Inbound(name string) (Inbound, bool)
	Outbound(name string) (Outbound, bool)
}

// Page bundles the collaborators the bridge drives.
type Page interface {
	core.Elements
	core.Viewport
	core.TimeSource
}

// Binding is the result of wiring an app to a page.
type Binding struct {
	Bridge  *bridge.Bridge
	Bound   []string
	Skipped []string

	detach func()
}

// Detach stops forwarding playhead reports.
func (b *Binding) Detach() {
	b.detach()
}

type decoder func(payload any) (core.Command, error)

var inbound = []struct {
	name   string
	decode decoder
}{
	{PortPlay, decodePlay},
	{PortPause, decodePause},
	{PortSetCurrentTime, decodeSeek},
	{PortSetLoop, decodeSetLoop},
	{PortScrollToTop, decodeScrollToTop},
}

// InboundNames lists the command ports in binding order.
func InboundNames() []string {
	names := make([]string, 0, len(inbound))
	for _, p := range inbound {
		names = append(names, p.name)
	}
	return names
}

// Bind resolves the app's ports once and wires them to a new bridge over
// page. Undeclared inbound ports are skipped. Telemetry is enabled only when
// the app declares the currentTime port.
func Bind(app App, page Page, logger *slog.Logger) *Binding {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := []bridge.Option{bridge.WithLogger(logger)}
	if out, ok := app.Outbound(PortCurrentTime); ok {
		opts = append(opts, bridge.WithReporter(func(r core.PlayheadReport) {
			out.Send(map[string]any{"id": r.ID, "time": r.Time})
		}))
	}

	b := bridge.New(page, page, opts...)
	binding := &Binding{Bridge: b, detach: b.Attach(page)}

	if b.Telemetry() {
		binding.Bound = append(binding.Bound, PortCurrentTime)
	} else {
		binding.Skipped = append(binding.Skipped, PortCurrentTime)
	}

	for _, p := range inbound {
		port, ok := app.Inbound(p.name)
		if !ok {
			binding.Skipped = append(binding.Skipped, p.name)
			continue
		}

		name, decode := p.name, p.decode
		port.Subscribe(func(payload any) {
			cmd, err := decode(payload)
			if err != nil {
				logger.Warn("dropping port message", "port", name, "error", err)
				return
			}
			b.Dispatch(cmd)
		})
		binding.Bound = append(binding.Bound, name)
	}

	return binding
}

func decodeID(payload any) (string, error) {
	switch v := payload.(type) {
	case nil:
		return LegacyTrackID, nil
	case string:
		return v, nil
	}
	return "", fmt.Errorf("%w: want track id, got %T", deckerrors.ErrInvalidPayload, payload)
}

func decodePlay(payload any) (core.Command, error) {
	id, err := decodeID(payload)
	if err != nil {
		return nil, err
	}
	return core.Play{ID: id}, nil
}

func decodePause(payload any) (core.Command, error) {
	id, err := decodeID(payload)
	if err != nil {
		return nil, err
	}
	return core.Pause{ID: id}, nil
}

// decodeSeek accepts {id, time} or, from single-track pages, a bare number.
func decodeSeek(payload any) (core.Command, error) {
	switch v := payload.(type) {
	case float64:
		if !finite(v) {
			return nil, fmt.Errorf("%w: seek time must be finite", deckerrors.ErrInvalidPayload)
		}
		return core.Seek{ID: LegacyTrackID, Time: v}, nil
	case map[string]any:
		id, ok := v["id"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: seek needs a string id", deckerrors.ErrInvalidPayload)
		}
		t, ok := v["time"].(float64)
		if !ok || !finite(t) {
			return nil, fmt.Errorf("%w: seek needs a finite numeric time", deckerrors.ErrInvalidPayload)
		}
		return core.Seek{ID: id, Time: t}, nil
	}
	return nil, fmt.Errorf("%w: want seek object, got %T", deckerrors.ErrInvalidPayload, payload)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func decodeSetLoop(payload any) (core.Command, error) {
	enabled, ok := payload.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: want bool, got %T", deckerrors.ErrInvalidPayload, payload)
	}
	return core.SetLoop{Enabled: enabled}, nil
}

func decodeScrollToTop(any) (core.Command, error) {
	return core.ScrollToTop{}, nil
}
