package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Bridge.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("bridge: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks ServerConfig for errors.
func (c *ServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Upstream != "" {
		u, err := url.Parse(c.Upstream)
		if err != nil {
			return fmt.Errorf("invalid upstream: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid upstream scheme: %q (must be http or https)", u.Scheme)
		}
		if u.Host == "" {
			return errors.New("upstream must include a host")
		}
	}
	for _, p := range c.ProxyPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("proxy path %q must start with /", p)
		}
		if p == "/" {
			return errors.New("proxy path / would shadow the static assets")
		}
	}
	return nil
}

// Validate checks BridgeConfig for errors.
func (c *BridgeConfig) Validate() error {
	if c.Duration < 0 {
		return errors.New("duration must be non-negative")
	}
	seen := make(map[string]bool, len(c.Tracks))
	for _, id := range c.Tracks {
		if strings.TrimSpace(id) == "" {
			return errors.New("track ids must not be empty")
		}
		if seen[id] {
			return fmt.Errorf("duplicate track id: %s", id)
		}
		seen[id] = true
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
