//go:build js && wasm

package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/tessro/patchdeck/internal/dom"
	"github.com/tessro/patchdeck/internal/ports"
)

const (
	mountID  = "elm-audioplayer-w"
	selector = "audio"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	elm := js.Global().Get("Elm")
	if elm.IsUndefined() || elm.Get("AudioPlayer").IsUndefined() {
		logger.Error("Elm.AudioPlayer is not loaded")
		return
	}

	flags := js.Global().Get("Object").New()
	flags.Set("node", js.Global().Get("document").Call("getElementById", mountID))
	app := elm.Get("AudioPlayer").Call("init", flags)

	binding := ports.Bind(ports.NewJSApp(app), dom.NewDocument(selector), logger)
	logger.Info("bridge attached",
		"ports", binding.Bound,
		"missing", binding.Skipped,
		"telemetry", binding.Bridge.Telemetry())

	// Keep the module alive so port callbacks keep firing.
	select {}
}
