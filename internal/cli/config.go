package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tessro/patchdeck/internal/config"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
	"github.com/tessro/patchdeck/internal/wizard"
)

var configInitDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing patchdeck configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file. On a terminal a short form asks for
the dev server and deck settings; --defaults writes the defaults as-is.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  server.port              Dev server port
  server.upstream          API upstream URL
  server.static_dir        Static asset directory
  server.proxy_paths       Comma-separated proxied path prefixes
  bridge.tracks            Comma-separated track ids for deck and run
  bridge.duration          Simulated track length in seconds
  bridge.loop              Start tracks looping (true/false)
  bridge.telemetry         Report playhead updates (true/false)
  tui.theme                auto, dark or light
  tui.refresh_interval     Deck refresh interval in milliseconds
  log.level                debug, info, warn or error
  log.file                 Log file path (empty for stderr)

Examples:
  patchdeck config set server.port 9000
  patchdeck config set bridge.tracks "intro,verse,chorus"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "write defaults without prompting")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

var configKeys = map[string]keyKind{
	"server.port":          kindInt,
	"server.upstream":      kindString,
	"server.static_dir":    kindString,
	"server.proxy_paths":   kindList,
	"bridge.tracks":        kindList,
	"bridge.duration":      kindFloat,
	"bridge.loop":          kindBool,
	"bridge.telemetry":     kindBool,
	"tui.theme":            kindString,
	"tui.refresh_interval": kindInt,
	"log.level":            kindString,
	"log.file":             kindString,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"path":   path,
			"exists": exists,
		})
	}

	fmt.Println(path)
	if !exists && Verbose() {
		fmt.Fprintln(os.Stderr, "(file does not exist yet)")
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return deckerrors.WithSuggestion(
			fmt.Errorf("%w: %s", deckerrors.ErrConfigNotFound, configPath),
			"Run 'patchdeck config init' first")
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	newCfg := config.Default()
	if wizard.CanInteract(!configInitDefaults && !JSONOutput()) {
		if err := wizard.RunSetup(newCfg); err != nil {
			return err
		}
	}
	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", deckerrors.ErrInvalidConfig, err)
	}

	if err := writeConfigFile(configPath, newCfg); err != nil {
		return err
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	} else {
		fmt.Printf("Created config file: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Build the player bundle into server.static_dir")
		fmt.Println("  2. Run 'patchdeck serve --open'")
	}

	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if path := config.FindConfigFile(); path != "" {
		return path
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	if err := setConfigValue(configPath, key, value); err != nil {
		return err
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	} else {
		fmt.Printf("Set %s = %s\n", key, value)
	}
	return nil
}

// setConfigValue updates one key in the file at path, leaving other keys
// as written. The result must still validate.
func setConfigValue(path, key, value string) error {
	kind, ok := configKeys[key]
	if !ok {
		return deckerrors.WithSuggestion(
			fmt.Errorf("%w: unknown key %q", deckerrors.ErrInvalidConfig, key),
			"Supported keys: "+strings.Join(supportedKeys(), ", "))
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return deckerrors.WithSuggestion(
			fmt.Errorf("%w: %s", deckerrors.ErrConfigNotFound, path),
			"Run 'patchdeck config init' first")
	}

	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return fmt.Errorf("%w: %s: %v", deckerrors.ErrInvalidConfig, path, err)
	}

	typed, err := parseValue(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", deckerrors.ErrInvalidConfig, key, err)
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = map[string]any{}
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	// Validate the result before touching the file.
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	check := config.Default()
	if _, err := toml.Decode(buf.String(), check); err != nil {
		return fmt.Errorf("%w: %v", deckerrors.ErrInvalidConfig, err)
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %w", deckerrors.ErrInvalidConfig, err)
	}

	return writeConfigFile(path, raw)
}

func parseValue(kind keyKind, value string) (any, error) {
	switch kind {
	case kindInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer")
		}
		return i, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be a number")
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("value must be true or false")
		}
		return b, nil
	case kindList:
		items := []string{}
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		return items, nil
	default:
		return value, nil
	}
}

func supportedKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeConfigFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Patchdeck Configuration")
	_, _ = fmt.Fprintln(f, "# https://github.com/tessro/patchdeck")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
