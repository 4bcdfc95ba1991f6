package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	deckerrors "github.com/tessro/patchdeck/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT",
		"PATCHDECK_SERVER_PORT",
		"PATCHDECK_SERVER_UPSTREAM",
		"PATCHDECK_SERVER_STATIC_DIR",
		"PATCHDECK_BRIDGE_TRACKS",
		"PATCHDECK_BRIDGE_LOOP",
		"PATCHDECK_BRIDGE_TELEMETRY",
		"PATCHDECK_TUI_THEME",
		"PATCHDECK_TUI_REFRESH_INTERVAL",
		"PATCHDECK_LOG_LEVEL",
		"PATCHDECK_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFrom(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
port = 9000
upstream = "http://127.0.0.1:7000/"

[bridge]
tracks = ["a", "b"]
telemetry = false

[log]
level = "debug"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Upstream != "http://127.0.0.1:7000/" {
		t.Errorf("Server.Upstream = %q", cfg.Server.Upstream)
	}
	if cfg.Server.StaticDir != "web/dist" {
		t.Errorf("Server.StaticDir = %q, want default", cfg.Server.StaticDir)
	}
	if !reflect.DeepEqual(cfg.Server.ProxyPaths, []string{"/api", "/uploads"}) {
		t.Errorf("Server.ProxyPaths = %v, want defaults", cfg.Server.ProxyPaths)
	}
	if !reflect.DeepEqual(cfg.Bridge.Tracks, []string{"a", "b"}) {
		t.Errorf("Bridge.Tracks = %v", cfg.Bridge.Tracks)
	}
	if cfg.Bridge.Telemetry {
		t.Error("Bridge.Telemetry = true, want explicit false kept")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadFromMissing(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, deckerrors.ErrConfigNotFound) {
		t.Errorf("LoadFrom() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	path := writeConfig(t, "[server\nport = ")
	_, err := LoadFrom(path)
	if !errors.Is(err, deckerrors.ErrInvalidConfig) {
		t.Errorf("LoadFrom() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadXDG(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	xdg := filepath.Join(home, "xdg")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, "patchdeck")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[tui]\ntheme = \"dark\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TUI.Theme != "dark" {
		t.Errorf("TUI.Theme = %q, want dark", cfg.TUI.Theme)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7777")
	t.Setenv("PATCHDECK_SERVER_UPSTREAM", "http://api.local:81/")
	t.Setenv("PATCHDECK_BRIDGE_TRACKS", "one, two ,,three")
	t.Setenv("PATCHDECK_BRIDGE_LOOP", "true")
	t.Setenv("PATCHDECK_BRIDGE_TELEMETRY", "false")
	t.Setenv("PATCHDECK_LOG_LEVEL", "warn")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777", cfg.Server.Port)
	}
	if cfg.Server.Upstream != "http://api.local:81/" {
		t.Errorf("Server.Upstream = %q", cfg.Server.Upstream)
	}
	if !reflect.DeepEqual(cfg.Bridge.Tracks, []string{"one", "two", "three"}) {
		t.Errorf("Bridge.Tracks = %v", cfg.Bridge.Tracks)
	}
	if !cfg.Bridge.Loop {
		t.Error("Bridge.Loop = false, want true")
	}
	if cfg.Bridge.Telemetry {
		t.Error("Bridge.Telemetry = true, want false")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}

	// The namespaced variable wins over PORT.
	t.Setenv("PATCHDECK_SERVER_PORT", "8888")
	applyEnvOverrides(cfg)
	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad upstream scheme", func(c *Config) { c.Server.Upstream = "ftp://x/" }, true},
		{"upstream without host", func(c *Config) { c.Server.Upstream = "http://" }, true},
		{"relative proxy path", func(c *Config) { c.Server.ProxyPaths = []string{"api"} }, true},
		{"root proxy path", func(c *Config) { c.Server.ProxyPaths = []string{"/"} }, true},
		{"duplicate track", func(c *Config) { c.Bridge.Tracks = []string{"a", "a"} }, true},
		{"blank track", func(c *Config) { c.Bridge.Tracks = []string{" "} }, true},
		{"negative duration", func(c *Config) { c.Bridge.Duration = -1 }, true},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
