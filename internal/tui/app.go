package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/patchdeck/internal/bridge"
	"github.com/tessro/patchdeck/internal/core"
	"github.com/tessro/patchdeck/internal/media"
	"github.com/tessro/patchdeck/internal/tail"
	"github.com/tessro/patchdeck/internal/tui/components"
	"github.com/tessro/patchdeck/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelTracks Panel = iota
	PanelNowPlaying
	PanelFeed
)

const (
	seekStep      = 5.0
	reportBacklog = 256
	errorTimeout  = 5 * time.Second
)

// Options configures the deck.
type Options struct {
	RefreshRate time.Duration
	Telemetry   bool
	Theme       string
	Logger      *slog.Logger
}

// App owns the page, the bridge that drives it, the telemetry channel and
// the watcher that turns state changes into feed events.
type App struct {
	page        *media.Page
	bridge      *bridge.Bridge
	reports     chan core.PlayheadReport
	detach      func()
	watcher     *tail.Watcher
	stopWatch   context.CancelFunc
	formatter   *tail.Formatter
	refreshRate time.Duration
}

// NewApp wires a bridge over page. With telemetry enabled every playhead
// update is queued for the feed; a full queue drops updates rather than
// stalling playback.
func NewApp(page *media.Page, opts Options) *App {
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = 250 * time.Millisecond
	}

	a := &App{
		page:        page,
		formatter:   tail.NewFormatter(tail.WithTimestamp(true), tail.WithEmoji(false)),
		refreshRate: opts.RefreshRate,
	}

	bopts := []bridge.Option{bridge.WithLogger(opts.Logger)}
	if opts.Telemetry {
		a.reports = make(chan core.PlayheadReport, reportBacklog)
		bopts = append(bopts, bridge.WithReporter(func(r core.PlayheadReport) {
			select {
			case a.reports <- r:
			default:
			}
		}))
	}

	a.bridge = bridge.New(page, page, bopts...)
	a.detach = a.bridge.Attach(page)

	ctx, cancel := context.WithCancel(context.Background())
	a.watcher = tail.NewWatcher(a.bridge, opts.RefreshRate)
	a.stopWatch = cancel
	go func() { _ = a.watcher.Start(ctx) }()
	return a
}

// Bridge returns the bridge the deck dispatches through.
func (a *App) Bridge() *bridge.Bridge {
	return a.bridge
}

// Close detaches telemetry and stops the event watcher.
func (a *App) Close() {
	if a.detach != nil {
		a.detach()
	}
	if a.stopWatch != nil {
		a.stopWatch()
	}
}

// Model is the main TUI model
type Model struct {
	app          *App
	keys         keyMap
	width        int
	height       int
	focusedPanel Panel

	tracksView *components.Tracks
	nowPlaying *components.NowPlaying
	feed       *components.Feed

	showHelp   bool
	showPrompt bool
	prompt     textinput.Model

	lastTick    time.Time
	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "play <id> | pause <id> | seek <id> <s> | loop on|off | top"
	ti.CharLimit = 120
	ti.Width = 60

	return Model{
		app:        app,
		keys:       defaultKeys(),
		tracksView: components.NewTracks(),
		nowPlaying: components.NewNowPlaying(),
		feed:       components.NewFeed(),
		prompt:     ti,
	}
}

// Messages
type tickMsg time.Time
type reportMsg core.PlayheadReport
type eventMsg tail.Event

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// nextReport waits for the next playhead update. It returns nil once
// telemetry is off so the runtime drops the command.
func (m Model) nextReport() tea.Cmd {
	if m.app.reports == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-m.app.reports
		if !ok {
			return nil
		}
		return reportMsg(r)
	}
}

// nextEvent waits for the next play, pause, seek, loop or mount change.
func (m Model) nextEvent() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.app.watcher.Events()
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.nextReport(), m.nextEvent())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.app.page.Advance(now.Sub(m.lastTick).Seconds())
		}
		m.lastTick = now
		if time.Now().After(m.errorExpiry) {
			m.lastError = nil
		}
		return m, m.tick()

	case reportMsg:
		m.feed.Push(m.app.formatter.FormatReport(core.PlayheadReport(msg)))
		return m, m.nextReport()

	case eventMsg:
		m.feed.Push(m.app.formatter.Format(tail.Event(msg)))
		return m, m.nextEvent()
	}

	if m.showPrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showPrompt {
		return m.handlePromptKeyPress(msg)
	}

	tracks := m.app.bridge.Tracks()
	selected, hasSelection := m.selected(tracks)

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Prompt):
		m.showPrompt = true
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Tab):
		m.focusedPanel = (m.focusedPanel + 1) % 3

	case key.Matches(msg, m.keys.Next):
		m.tracksView.SelectNext(len(tracks))

	case key.Matches(msg, m.keys.Prev):
		m.tracksView.SelectPrev()

	case key.Matches(msg, m.keys.Toggle):
		if hasSelection {
			if selected.Playing {
				m.dispatch(core.Pause{ID: selected.ID})
			} else {
				m.dispatch(core.Play{ID: selected.ID})
			}
		}

	case key.Matches(msg, m.keys.Forward):
		if hasSelection {
			m.dispatch(core.Seek{ID: selected.ID, Time: selected.CurrentTime + seekStep})
		}

	case key.Matches(msg, m.keys.Backward):
		if hasSelection {
			t := selected.CurrentTime - seekStep
			if t < 0 {
				t = 0
			}
			m.dispatch(core.Seek{ID: selected.ID, Time: t})
		}

	case key.Matches(msg, m.keys.Restart):
		if hasSelection {
			m.dispatch(core.Seek{ID: selected.ID, Time: 0})
		}

	case key.Matches(msg, m.keys.Loop):
		m.dispatch(core.SetLoop{Enabled: !(hasSelection && selected.Loop)})

	case key.Matches(msg, m.keys.Top):
		m.dispatch(core.ScrollToTop{})
	}

	return m, nil
}

func (m Model) handlePromptKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showPrompt = false
		m.prompt.Blur()
		return m, nil

	case "enter":
		line := strings.TrimSpace(m.prompt.Value())
		m.showPrompt = false
		m.prompt.Blur()
		if line == "" {
			return m, nil
		}
		cmd, err := core.ParseCommand(line)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.dispatch(cmd)
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) dispatch(cmd core.Command) {
	m.app.bridge.Dispatch(cmd)
}

func (m *Model) setError(err error) {
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorTimeout)
}

func (m Model) selected(tracks []core.Track) (core.Track, bool) {
	if len(tracks) == 0 {
		return core.Track{}, false
	}
	return tracks[m.tracksView.Selected(len(tracks))], true
}

// featured is the playing track, falling back to the selected one.
func (m Model) featured(tracks []core.Track) *core.Track {
	for i := range tracks {
		if tracks[i].Playing {
			return &tracks[i]
		}
	}
	if t, ok := m.selected(tracks); ok {
		return &t
	}
	return nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	tracks := m.app.bridge.Tracks()

	// Left: track list. Right: now playing (top), telemetry (bottom).
	leftWidth := m.width * 45 / 100
	rightWidth := m.width - leftWidth - 2
	bodyHeight := m.height - 3
	topHeight := bodyHeight * 40 / 100
	bottomHeight := bodyHeight - topHeight - 2

	left := m.tracksView.Render(tracks, leftWidth-2, bodyHeight-2, m.focusedPanel == PanelTracks)
	top := m.nowPlaying.Render(m.featured(tracks), rightWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	bottom := m.feed.Render(rightWidth-2, bottomHeight-2, m.focusedPanel == PanelFeed)

	right := lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.showPrompt:
		status = m.prompt.View()
	case m.lastError != nil:
		status = styles.Failure.Render("Error: " + m.lastError.Error())
	default:
		parts := make([]string, 0, len(m.keys.short())+1)
		for _, b := range m.keys.short() {
			parts = append(parts, b.Help().Key+":"+b.Help().Desc)
		}
		if !m.app.bridge.Telemetry() {
			parts = append(parts, "telemetry off")
		}
		status = styles.Dim.Render(strings.Join(parts, "  "))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Patchdeck - Keyboard Shortcuts"

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("═", len(title)) + "\n\n")
	for _, binding := range m.keys.all() {
		h := binding.Help()
		fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
	}
	b.WriteString("\nCommands (after :)\n")
	b.WriteString("  play <id>  pause <id>  seek <id> <seconds>  loop on|off  top\n")
	b.WriteString("\nPress ? or Esc to close")

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(b.String()))
}

// Run starts the TUI application
func Run(page *media.Page, opts Options) error {
	styles.ApplyTheme(opts.Theme)

	app := NewApp(page, opts)
	defer app.Close()

	p := tea.NewProgram(NewModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
