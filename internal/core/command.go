package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	deckerrors "github.com/tessro/patchdeck/internal/errors"
)

// CommandKind names a command variant.
type CommandKind string

const (
	KindPlay        CommandKind = "play"
	KindPause       CommandKind = "pause"
	KindSeek        CommandKind = "seek"
	KindSetLoop     CommandKind = "loop"
	KindScrollToTop CommandKind = "top"
)

// Kinds lists every command verb in dispatch order.
func Kinds() []CommandKind {
	return []CommandKind{KindPlay, KindPause, KindSeek, KindSetLoop, KindScrollToTop}
}

// Command is a playback intent issued by the UI layer. The set of
// implementations is closed.
type Command interface {
	Kind() CommandKind
	String() string
	command()
}

// Play starts the track and stops every other one.
type Play struct {
	ID string
}

// Pause stops a single track.
type Pause struct {
	ID string
}

// Seek moves a track's playhead without changing its play state.
type Seek struct {
	ID   string
	Time float64
}

// SetLoop applies the loop flag to every element on the page.
type SetLoop struct {
	Enabled bool
}

// ScrollToTop resets the viewport. It has no playback semantics.
type ScrollToTop struct{}

func (Play) Kind() CommandKind        { return KindPlay }
func (Pause) Kind() CommandKind       { return KindPause }
func (Seek) Kind() CommandKind        { return KindSeek }
func (SetLoop) Kind() CommandKind     { return KindSetLoop }
func (ScrollToTop) Kind() CommandKind { return KindScrollToTop }

func (c Play) String() string  { return "play " + c.ID }
func (c Pause) String() string { return "pause " + c.ID }
func (c Seek) String() string {
	return fmt.Sprintf("seek %s %s", c.ID, strconv.FormatFloat(c.Time, 'f', -1, 64))
}
func (c SetLoop) String() string {
	if c.Enabled {
		return "loop on"
	}
	return "loop off"
}
func (ScrollToTop) String() string { return "top" }

func (Play) command()        {}
func (Pause) command()       {}
func (Seek) command()        {}
func (SetLoop) command()     {}
func (ScrollToTop) command() {}

// ParseCommand parses the text form of a command:
//
//	play <id>
//	pause <id>
//	seek <id> <seconds>
//	loop on|off
//	top
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty line", deckerrors.ErrInvalidCommand)
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch CommandKind(verb) {
	case KindPlay, KindPause:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s takes exactly one track id", deckerrors.ErrInvalidCommand, verb)
		}
		if verb == string(KindPlay) {
			return Play{ID: args[0]}, nil
		}
		return Pause{ID: args[0]}, nil

	case KindSeek:
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: seek takes a track id and a position", deckerrors.ErrInvalidCommand)
		}
		t, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad position %q", deckerrors.ErrInvalidCommand, args[1])
		}
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return nil, fmt.Errorf("%w: position must be a finite non-negative number", deckerrors.ErrInvalidCommand)
		}
		return Seek{ID: args[0], Time: t}, nil

	case KindSetLoop:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: loop takes on or off", deckerrors.ErrInvalidCommand)
		}
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			return SetLoop{Enabled: true}, nil
		case "off", "false", "0":
			return SetLoop{Enabled: false}, nil
		}
		return nil, fmt.Errorf("%w: loop takes on or off, got %q", deckerrors.ErrInvalidCommand, args[0])

	case KindScrollToTop, "scrolltotop":
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: top takes no arguments", deckerrors.ErrInvalidCommand)
		}
		return ScrollToTop{}, nil
	}

	return nil, fmt.Errorf("%w: unknown verb %q", deckerrors.ErrInvalidCommand, fields[0])
}
