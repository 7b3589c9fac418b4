package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Config represents the persistent sxpeea configuration stored as config.toml
// in the .sxpeea/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Chat        ChatConfig        `toml:"chat"`
	EventStream EventStreamConfig `toml:"eventstream"`
	Client      ClientConfig      `toml:"client"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen    string `toml:"listen,omitempty"`
	UploadDir string `toml:"upload_dir,omitempty"`
}

// StorageConfig selects and configures the content store.
type StorageConfig struct {
	// Driver is one of StorageDrivers.
	Driver      string `toml:"driver,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// ChatConfig holds the upstream chat API settings used by the relay.
type ChatConfig struct {
	APIBase  string `toml:"api_base,omitempty"`
	BotID    string `toml:"bot_id,omitempty"`
	APIToken string `toml:"api_token,omitempty"`

	// IdleTimeout is a Go duration string, e.g. "120s".
	IdleTimeout   string `toml:"idle_timeout,omitempty"`
	DefaultUserID string `toml:"default_user_id,omitempty"`
}

// EventStreamConfig configures where finished chat streams are reported.
type EventStreamConfig struct {
	// Provider is one of EventStreamProviders.
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// server (e.g. sxpeea chat). Values are full URLs (scheme + host + port).
type ClientConfig struct {
	ServerTarget string `toml:"server_target,omitempty"`
}

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Event stream providers.
const (
	EventStreamNop   = "nop"
	EventStreamKafka = "kafka"
)

// StorageDrivers lists the supported storage.driver values.
var StorageDrivers = []string{StorageMemory, StorageSQLite, StoragePostgres}

// EventStreamProviders lists the supported eventstream.provider values.
var EventStreamProviders = []string{EventStreamNop, EventStreamKafka}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"server.upload_dir": {
		get: func(c *Config) string { return c.Server.UploadDir },
		set: func(c *Config, v string) error { c.Server.UploadDir = v; return nil },
	},
	"storage.driver": {
		get: func(c *Config) string { return c.Storage.Driver },
		set: func(c *Config, v string) error {
			if err := oneOf("storage.driver", v, StorageDrivers); err != nil {
				return err
			}
			c.Storage.Driver = v
			return nil
		},
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"chat.api_base": {
		get: func(c *Config) string { return c.Chat.APIBase },
		set: func(c *Config, v string) error { c.Chat.APIBase = v; return nil },
	},
	"chat.bot_id": {
		get: func(c *Config) string { return c.Chat.BotID },
		set: func(c *Config, v string) error { c.Chat.BotID = v; return nil },
	},
	"chat.api_token": {
		get: func(c *Config) string { return c.Chat.APIToken },
		set: func(c *Config, v string) error { c.Chat.APIToken = v; return nil },
	},
	"chat.idle_timeout": {
		get: func(c *Config) string { return c.Chat.IdleTimeout },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid value for chat.idle_timeout: %w", err)
			}
			if d <= 0 {
				return fmt.Errorf("invalid value for chat.idle_timeout: must be positive, got %s", v)
			}
			c.Chat.IdleTimeout = v
			return nil
		},
	},
	"chat.default_user_id": {
		get: func(c *Config) string { return c.Chat.DefaultUserID },
		set: func(c *Config, v string) error { c.Chat.DefaultUserID = v; return nil },
	},
	"eventstream.provider": {
		get: func(c *Config) string { return c.EventStream.Provider },
		set: func(c *Config, v string) error {
			if err := oneOf("eventstream.provider", v, EventStreamProviders); err != nil {
				return err
			}
			c.EventStream.Provider = v
			return nil
		},
	},
	"eventstream.brokers": {
		get: func(c *Config) string { return strings.Join(c.EventStream.Brokers, ",") },
		set: func(c *Config, v string) error { c.EventStream.Brokers = SplitList(v); return nil },
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
	"client.server_target": {
		get: func(c *Config) string { return c.Client.ServerTarget },
		set: func(c *Config, v string) error { c.Client.ServerTarget = v; return nil },
	},
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func oneOf(key, v string, allowed []string) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return fmt.Errorf("invalid value for %s: %q (available: %s)", key, v, strings.Join(allowed, ", "))
}

// IdleTimeoutDuration parses IdleTimeout. An empty value yields zero, which
// callers treat as "use the default".
func (c ChatConfig) IdleTimeoutDuration() (time.Duration, error) {
	if c.IdleTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid value for chat.idle_timeout: %w", err)
	}
	return d, nil
}

// SQLitePathIn returns the configured SQLite path, or sxpeea.db inside dir
// when none is set.
func (s StorageConfig) SQLitePathIn(dir string) string {
	if s.SQLitePath != "" {
		return s.SQLitePath
	}
	return filepath.Join(dir, "sxpeea.db")
}
