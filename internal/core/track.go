package core

// TrackState is the transport state of a single track.
type TrackState string

const (
	StateStopped TrackState = "stopped"
	StatePlaying TrackState = "playing"
)

// Track is a point-in-time snapshot of one media element on the page.
type Track struct {
	ID          string  `json:"id"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Playing     bool    `json:"playing"`
	Loop        bool    `json:"loop"`
}

// State returns Playing or Stopped.
func (t Track) State() TrackState {
	if t.Playing {
		return StatePlaying
	}
	return StateStopped
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (t Track) ProgressPercent() float64 {
	if t.Duration <= 0 {
		return 0
	}
	p := t.CurrentTime / t.Duration * 100
	if p > 100 {
		return 100
	}
	return p
}

// Snapshot reads the current state of a media element.
func Snapshot(el MediaElement) Track {
	return Track{
		ID:          el.ID(),
		CurrentTime: el.CurrentTime(),
		Duration:    el.Duration(),
		Playing:     !el.Paused(),
		Loop:        el.Loop(),
	}
}

// PlayheadReport is a playhead position emitted by a media element.
type PlayheadReport struct {
	ID   string  `json:"id"`
	Time float64 `json:"time"`
}
