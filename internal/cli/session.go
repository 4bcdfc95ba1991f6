package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tessro/patchdeck/internal/bridge"
	"github.com/tessro/patchdeck/internal/core"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
	"github.com/tessro/patchdeck/internal/media"
	"github.com/tessro/patchdeck/internal/tail"
)

// session replays commands against an in-memory page. Time only moves on
// "advance", so a script produces the same output on every run.
type session struct {
	page      *media.Page
	bridge    *bridge.Bridge
	out       io.Writer
	formatter *tail.Formatter
	tracker   *tail.Tracker
	json      bool
	duration  float64
	detach    func()
}

type sessionOptions struct {
	Telemetry bool
	Events    bool
	JSON      bool
	Duration  float64
	Formatter *tail.Formatter
	Logger    *slog.Logger
}

func newSession(page *media.Page, out io.Writer, opts sessionOptions) *session {
	s := &session{
		page:      page,
		out:       out,
		formatter: opts.Formatter,
		json:      opts.JSON,
		duration:  opts.Duration,
	}
	if s.formatter == nil {
		s.formatter = tail.NewFormatter()
	}

	bopts := []bridge.Option{bridge.WithLogger(opts.Logger)}
	if opts.Telemetry {
		bopts = append(bopts, bridge.WithReporter(s.report))
	}
	s.bridge = bridge.New(page, page, bopts...)
	s.detach = s.bridge.Attach(page)

	if opts.Events {
		s.tracker = tail.NewTracker(s.bridge.Tracks())
	}
	return s
}

func (s *session) close() {
	s.detach()
}

func (s *session) report(r core.PlayheadReport) {
	if s.json {
		s.writeJSON(map[string]any{"type": "timeupdate", "id": r.ID, "time": r.Time})
		return
	}
	fmt.Fprintln(s.out, s.formatter.FormatReport(r))
}

func (s *session) writeJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintln(s.out, string(b))
}

// exec runs one line. It reports quit for "quit" and "exit".
func (s *session) exec(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}

	fields := strings.Fields(line)
	var elapsed time.Duration

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true, nil

	case "help":
		s.help()
		return false, nil

	case "status":
		s.status()
		return false, nil

	case "add":
		if len(fields) < 2 || len(fields) > 3 {
			return false, fmt.Errorf("%w: add takes an id and an optional duration", deckerrors.ErrInvalidCommand)
		}
		duration := s.duration
		if len(fields) == 3 {
			d, err := parseSeconds(fields[2])
			if err != nil {
				return false, err
			}
			duration = d
		}
		s.page.Add(fields[1], duration)

	case "remove":
		if len(fields) != 2 {
			return false, fmt.Errorf("%w: remove takes an id", deckerrors.ErrInvalidCommand)
		}
		if !s.page.Remove(fields[1]) {
			return false, fmt.Errorf("%w: %s", deckerrors.ErrTrackNotFound, fields[1])
		}

	case "advance":
		if len(fields) != 2 {
			return false, fmt.Errorf("%w: advance takes a number of seconds", deckerrors.ErrInvalidCommand)
		}
		d, err := parseSeconds(fields[1])
		if err != nil {
			return false, err
		}
		s.page.Advance(d)
		elapsed = time.Duration(d * float64(time.Second))

	default:
		cmd, err := core.ParseCommand(line)
		if err != nil {
			return false, err
		}
		s.bridge.Dispatch(cmd)
	}

	s.observe(elapsed)
	return false, nil
}

func (s *session) observe(elapsed time.Duration) {
	if s.tracker == nil {
		return
	}
	for _, e := range s.tracker.Observe(s.bridge.Tracks(), elapsed, time.Now()) {
		if s.json {
			v := map[string]any{"type": e.Type.String(), "id": e.TrackID()}
			if e.Current != nil {
				v["time"] = e.Current.CurrentTime
			}
			s.writeJSON(v)
			continue
		}
		fmt.Fprintln(s.out, s.formatter.Format(e))
	}
}

func (s *session) status() {
	tracks := s.bridge.Tracks()
	if s.json {
		s.writeJSON(tracks)
		return
	}
	if len(tracks) == 0 {
		fmt.Fprintln(s.out, "No tracks on the page")
		return
	}

	table := NewTableWriter(s.out, "", "ID", "POSITION", "LOOP")
	for _, t := range tracks {
		table.Row(
			StatusIcon(t.Playing),
			TruncateString(t.ID, 32),
			FormatPosition(t.CurrentTime, t.Duration),
			strconv.FormatBool(t.Loop),
		)
	}
	table.Flush()
	if y := s.page.ScrollY(); y != 0 {
		fmt.Fprintf(s.out, "scrolled to %.0f\n", y)
	}
}

func (s *session) help() {
	fmt.Fprint(s.out, `Commands:
  play <id>             start a track, pausing every other one
  pause <id>            pause a track
  seek <id> <seconds>   move a track's playhead
  loop on|off           set looping on every track
  top                   scroll the page to the top
Page:
  add <id> [seconds]    mount a track
  remove <id>           unmount a track
  advance <seconds>     let playback run
  status                list tracks
  quit                  leave
`)
}

func parseSeconds(s string) (float64, error) {
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: bad seconds %q", deckerrors.ErrInvalidCommand, s)
	}
	return d, nil
}
