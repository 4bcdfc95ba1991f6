package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.patchdeckrc, $XDG_CONFIG_HOME/patchdeck/config.toml, ~/.config/patchdeck/config.toml
func Load() (*Config, error) {
	cfg := Default()

	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", deckerrors.ErrInvalidConfig, path, err)
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", deckerrors.ErrConfigNotFound, path)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", deckerrors.ErrInvalidConfig, path, err)
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath returns the path written by 'config init'.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".patchdeckrc"
	}
	return filepath.Join(home, ".patchdeckrc")
}

// FindConfigFile returns the first existing config file path.
func FindConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".patchdeckrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "patchdeck", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Server. PORT is honored for parity with common dev-server setups.
	if v := os.Getenv("PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = i
		}
	}
	if v := os.Getenv("PATCHDECK_SERVER_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = i
		}
	}
	if v := os.Getenv("PATCHDECK_SERVER_UPSTREAM"); v != "" {
		cfg.Server.Upstream = v
	}
	if v := os.Getenv("PATCHDECK_SERVER_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}

	// Bridge
	if v := os.Getenv("PATCHDECK_BRIDGE_TRACKS"); v != "" {
		cfg.Bridge.Tracks = splitList(v)
	}
	if v := os.Getenv("PATCHDECK_BRIDGE_LOOP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Bridge.Loop = b
		}
	}
	if v := os.Getenv("PATCHDECK_BRIDGE_TELEMETRY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Bridge.Telemetry = b
		}
	}

	// TUI
	if v := os.Getenv("PATCHDECK_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("PATCHDECK_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("PATCHDECK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PATCHDECK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
