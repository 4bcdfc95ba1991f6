package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/patchdeck/internal/tui"
)

var (
	deckRefresh     int
	deckNoTelemetry bool
)

var deckCmd = &cobra.Command{
	Use:     "deck [track-id...]",
	Aliases: []string{"ui", "tui"},
	Short:   "Launch the interactive deck",
	Long: `Launch a terminal deck over a simulated page of audio elements.

Tracks come from the arguments or bridge.tracks. Playback advances in real
time; starting one track pauses the others.

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  :            Command prompt (play <id>, seek <id> <s>, loop on|off, top)
  Space        Play/Pause selected track
  j/k          Select track
  ←/→          Seek 5s
  o            Toggle loop on every track
  g            Scroll to top`,
	RunE: runDeck,
}

func init() {
	deckCmd.Flags().IntVar(&deckRefresh, "refresh", 0, "refresh interval in milliseconds (default from config)")
	deckCmd.Flags().BoolVar(&deckNoTelemetry, "no-telemetry", false, "do not report playhead updates")
	rootCmd.AddCommand(deckCmd)
}

func runDeck(cmd *cobra.Command, args []string) error {
	page, err := newPage(args, cfg.Bridge)
	if err != nil {
		return err
	}

	refresh := cfg.TUI.RefreshInterval
	if deckRefresh > 0 {
		refresh = deckRefresh
	}

	return tui.Run(page, tui.Options{
		RefreshRate: time.Duration(refresh) * time.Millisecond,
		Telemetry:   cfg.Bridge.Telemetry && !deckNoTelemetry,
		Theme:       cfg.TUI.Theme,
		Logger:      logger,
	})
}
