package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent kronos configuration stored as config.toml
// in the .kronos/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int          `toml:"version"`
	API     APIConfig    `toml:"api"`
	Client  ClientConfig `toml:"client"`
	Model   ModelConfig  `toml:"model"`
	Export  ExportConfig `toml:"export"`
	Stream  StreamConfig `toml:"stream"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// API server (e.g. kronos apply, kronos refine). Values are full URLs
// (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// ModelConfig holds LLM provider settings for the timeline agent.
type ModelConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Name     string `toml:"name,omitempty"`
	MaxTurns uint   `toml:"max_turns,omitempty"`
}

// ExportConfig holds cut-list export settings.
type ExportConfig struct {
	FrameRate uint `toml:"frame_rate,omitempty"`
}

// StreamConfig holds session event stream settings. An empty broker list
// disables publishing.
type StreamConfig struct {
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"model.provider": {
		get: func(c *Config) string { return c.Model.Provider },
		set: func(c *Config, v string) error { c.Model.Provider = v; return nil },
	},
	"model.target": {
		get: func(c *Config) string { return c.Model.Target },
		set: func(c *Config, v string) error { c.Model.Target = v; return nil },
	},
	"model.name": {
		get: func(c *Config) string { return c.Model.Name },
		set: func(c *Config, v string) error { c.Model.Name = v; return nil },
	},
	"model.max_turns": {
		get: func(c *Config) string {
			if c.Model.MaxTurns == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Model.MaxTurns), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for model.max_turns: %w", err)
			}
			c.Model.MaxTurns = uint(n)
			return nil
		},
	},
	"export.frame_rate": {
		get: func(c *Config) string {
			if c.Export.FrameRate == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Export.FrameRate), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for export.frame_rate: %w", err)
			}
			c.Export.FrameRate = uint(n)
			return nil
		},
	},
	"stream.brokers": {
		get: func(c *Config) string { return c.Stream.Brokers },
		set: func(c *Config, v string) error { c.Stream.Brokers = v; return nil },
	},
	"stream.topic": {
		get: func(c *Config) string { return c.Stream.Topic },
		set: func(c *Config, v string) error { c.Stream.Topic = v; return nil },
	},
}
