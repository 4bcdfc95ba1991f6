package config

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Bridge BridgeConfig `toml:"bridge"`
	TUI    TUIConfig    `toml:"tui"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig holds dev server settings.
type ServerConfig struct {
	Port       int      `toml:"port"`
	Upstream   string   `toml:"upstream"`
	StaticDir  string   `toml:"static_dir"`
	ProxyPaths []string `toml:"proxy_paths"`
}

// BridgeConfig holds playback bridge settings.
type BridgeConfig struct {
	Tracks    []string `toml:"tracks"`
	Duration  float64  `toml:"duration"`
	Loop      bool     `toml:"loop"`
	Telemetry bool     `toml:"telemetry"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
