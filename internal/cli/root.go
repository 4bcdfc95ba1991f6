package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessro/patchdeck/internal/config"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
	"github.com/tessro/patchdeck/internal/logging"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg      *config.Config
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "patchdeck",
	Short: "Drive and serve the patch audio player",
	Long: `Patchdeck keeps the audio player's playback intents in step with the
media elements on the page. It serves the player during development, drives
a simulated page from the terminal, and replays command scripts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.patchdeckrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", deckerrors.ErrInvalidConfig, err)
	}

	logCfg := cfg.Log
	if verbose {
		logCfg.Level = "debug"
	}
	l, closer, err := logging.Open(logCfg)
	if err != nil {
		return err
	}
	logger, closeLog = l, closer

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, deckerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
