package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
	"github.com/tessro/patchdeck/internal/media"
	"github.com/tessro/patchdeck/internal/tail"
	"github.com/tessro/patchdeck/internal/wizard"
)

var (
	runTracks      []string
	runEvents      bool
	runNoTelemetry bool
	runNoEmoji     bool
	runTimestamp   bool
	runFormat      string
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Replay commands against a simulated page",
	Long: `Run playback commands against an in-memory page and print the
playhead reports they produce.

Each line is a command: play <id>, pause <id>, seek <id> <seconds>,
loop on|off, or top. Page lines add <id> [seconds], remove <id>,
advance <seconds>, and status shape the simulation. Lines starting with #
are comments.

With no script and a terminal on stdin, an interactive prompt starts.
Use "-" to read a script from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringSliceVarP(&runTracks, "track", "t", nil, "track ids to mount (default from bridge.tracks)")
	runCmd.Flags().BoolVarP(&runEvents, "events", "e", false, "print state-change events")
	runCmd.Flags().BoolVar(&runNoTelemetry, "no-telemetry", false, "do not print playhead reports")
	runCmd.Flags().BoolVar(&runNoEmoji, "no-emoji", false, "disable emoji output")
	runCmd.Flags().BoolVar(&runTimestamp, "timestamp", false, "show timestamps")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "custom format template")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	page := media.NewPage()
	if len(runTracks) > 0 || len(cfg.Bridge.Tracks) > 0 {
		p, err := newPage(runTracks, cfg.Bridge)
		if err != nil {
			return err
		}
		page = p
	}

	opts := sessionOptions{
		Telemetry: cfg.Bridge.Telemetry && !runNoTelemetry,
		Events:    runEvents,
		JSON:      JSONOutput(),
		Duration:  cfg.Bridge.Duration,
		Logger:    logger,
		Formatter: tail.NewFormatter(
			tail.WithEmoji(!runNoEmoji),
			tail.WithTimestamp(runTimestamp),
			tail.WithTemplate(runFormat),
		),
	}

	if len(args) == 0 && wizard.IsInputTerminal() {
		return runREPL(page, opts)
	}

	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	s := newSession(page, os.Stdout, opts)
	defer s.close()

	result := runScript(s, in)
	if result.HasErrors() {
		fmt.Fprintln(os.Stderr, strings.TrimRight(result.ErrorSummary(), "\n"))
		return fmt.Errorf("%d of %d lines failed", len(result.Errors), result.Data)
	}
	return nil
}

// runScript executes every line and keeps going past failures. Data is the
// number of lines read.
func runScript(s *session, in io.Reader) *deckerrors.PartialResult[int] {
	result := &deckerrors.PartialResult[int]{}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		result.Data++
		quit, err := s.exec(scanner.Text())
		if err != nil {
			result.AddError(fmt.Errorf("line %d: %w", result.Data, err))
		}
		if quit {
			break
		}
	}
	result.AddError(scanner.Err())

	return result
}

func runREPL(page *media.Page, opts sessionOptions) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "patchdeck> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    newCompleter(page),
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s := newSession(page, rl.Stdout(), opts)
	defer s.close()

	fmt.Fprintln(rl.Stdout(), `Type "help" for commands, "quit" to leave.`)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := s.exec(line)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), deckerrors.Format(err))
		}
		if quit {
			return nil
		}
	}
}

func newCompleter(page *media.Page) *readline.PrefixCompleter {
	ids := readline.PcItemDynamic(func(string) []string {
		return page.IDs()
	})
	return readline.NewPrefixCompleter(
		readline.PcItem("play", ids),
		readline.PcItem("pause", ids),
		readline.PcItem("seek", ids),
		readline.PcItem("loop", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("top"),
		readline.PcItem("add"),
		readline.PcItem("remove", ids),
		readline.PcItem("advance"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
