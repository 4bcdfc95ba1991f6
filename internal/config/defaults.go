package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       8082,
			Upstream:   "http://localhost:8081/",
			StaticDir:  "web/dist",
			ProxyPaths: []string{"/api", "/uploads"},
		},
		Bridge: BridgeConfig{
			Duration:  30,
			Telemetry: true,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 250,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults. Booleans are
// left alone: false is a valid setting.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Server
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Upstream == "" {
		c.Server.Upstream = d.Server.Upstream
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = d.Server.StaticDir
	}
	if c.Server.ProxyPaths == nil {
		c.Server.ProxyPaths = d.Server.ProxyPaths
	}

	// Bridge
	if c.Bridge.Duration == 0 {
		c.Bridge.Duration = d.Bridge.Duration
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
