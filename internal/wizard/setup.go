package wizard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/tessro/patchdeck/internal/config"
)

// Answers holds the raw values collected by the setup form.
type Answers struct {
	Port      string
	Upstream  string
	StaticDir string
	Tracks    string
	Telemetry bool
	Theme     string
}

// AnswersFrom seeds the form with the current configuration.
func AnswersFrom(cfg *config.Config) Answers {
	return Answers{
		Port:      strconv.Itoa(cfg.Server.Port),
		Upstream:  cfg.Server.Upstream,
		StaticDir: cfg.Server.StaticDir,
		Tracks:    strings.Join(cfg.Bridge.Tracks, ", "),
		Telemetry: cfg.Bridge.Telemetry,
		Theme:     cfg.TUI.Theme,
	}
}

// Apply writes the answers into cfg.
func (a Answers) Apply(cfg *config.Config) error {
	port, err := validatePort(a.Port)
	if err != nil {
		return err
	}
	if err := validateUpstream(a.Upstream); err != nil {
		return err
	}

	cfg.Server.Port = port
	cfg.Server.Upstream = strings.TrimSpace(a.Upstream)
	if dir := strings.TrimSpace(a.StaticDir); dir != "" {
		cfg.Server.StaticDir = dir
	}
	cfg.Bridge.Tracks = splitTracks(a.Tracks)
	cfg.Bridge.Telemetry = a.Telemetry
	if a.Theme != "" {
		cfg.TUI.Theme = a.Theme
	}
	return nil
}

// RunSetup shows the setup form and applies the answers to cfg.
func RunSetup(cfg *config.Config) error {
	a := AnswersFrom(cfg)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dev server port").
				Value(&a.Port).
				Validate(func(s string) error {
					_, err := validatePort(s)
					return err
				}),
			huh.NewInput().
				Title("API upstream").
				Description("Requests under the proxy paths are forwarded here").
				Value(&a.Upstream).
				Validate(validateUpstream),
			huh.NewInput().
				Title("Static asset directory").
				Value(&a.StaticDir),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Deck tracks").
				Description("Comma-separated element ids for the terminal deck").
				Value(&a.Tracks),
			huh.NewConfirm().
				Title("Report playhead updates?").
				Value(&a.Telemetry),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Auto", "auto"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&a.Theme),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	return a.Apply(cfg)
}

func validatePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("port must be a number")
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port must be between 0 and 65535")
	}
	return port, nil
}

func validateUpstream(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream must be an http(s) URL with a host")
	}
	return nil
}

func splitTracks(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
