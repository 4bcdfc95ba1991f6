package cli

import (
	"fmt"

	"github.com/tessro/patchdeck/internal/config"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
	"github.com/tessro/patchdeck/internal/media"
)

// newPage builds an in-memory page with one element per id. Explicit ids win
// over bridge.tracks.
func newPage(ids []string, bc config.BridgeConfig) (*media.Page, error) {
	if len(ids) == 0 {
		ids = bc.Tracks
	}
	if len(ids) == 0 {
		return nil, deckerrors.WithSuggestion(
			fmt.Errorf("%w: no tracks to load", deckerrors.ErrTrackNotFound),
			"Pass track ids as arguments or set bridge.tracks in the config")
	}

	page := media.NewPage()
	for _, id := range ids {
		el := page.Add(id, bc.Duration)
		el.SetLoop(bc.Loop)
	}
	return page, nil
}
