package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/sxpeea/sxpeea/pkg/dotdir"
)

// legacyEnv maps config keys to the unprefixed environment variables the
// site has always been deployed with.
var legacyEnv = map[string]string{
	"chat.bot_id":       "COZE_BOT_ID",
	"chat.api_token":    "COZE_API_TOKEN",
	"server.upload_dir": "UPLOAD_DIR",
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the SXPEEA_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (SXPEEA_SERVER_LISTEN, SXPEEA_CHAT_BOT_ID, etc.,
//     then COZE_BOT_ID, COZE_API_TOKEN, UPLOAD_DIR and DATABASE_URL)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: SXPEEA_SERVER_LISTEN, SXPEEA_STORAGE_DRIVER, etc.
	v.SetEnvPrefix("SXPEEA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		_ = v.BindEnv(key, "SXPEEA_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	applyDatabaseURL(v)

	return v, nil
}

// applyDatabaseURL honours DATABASE_URL: a postgres:// URL selects the
// postgres driver, a sqlite:/// URL selects sqlite with that path. Explicit
// SXPEEA_STORAGE_* variables and flags still win.
func applyDatabaseURL(v *viper.Viper) {
	_ = v.BindEnv("database_url", "DATABASE_URL")
	url := strings.TrimSpace(v.GetString("database_url"))
	if url == "" {
		return
	}

	driver, dsn := ParseDatabaseURL(url)
	if driver == "" {
		return
	}

	// SetDefault keeps the config file and SXPEEA_* env above DATABASE_URL
	// for keys they set.
	v.SetDefault("storage.driver", driver)
	switch driver {
	case StoragePostgres:
		v.SetDefault("storage.postgres_dsn", dsn)
	case StorageSQLite:
		v.SetDefault("storage.sqlite_path", dsn)
	}
}

// ParseDatabaseURL maps a database URL to a storage driver and its DSN.
// Unknown schemes return an empty driver.
func ParseDatabaseURL(url string) (driver, dsn string) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return StoragePostgres, url
	case strings.HasPrefix(url, "sqlite:///"):
		return StorageSQLite, strings.TrimPrefix(url, "sqlite:///")
	default:
		return "", ""
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.upload_dir", d.Server.UploadDir)

	// Storage
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)

	// Chat
	v.SetDefault("chat.api_base", d.Chat.APIBase)
	v.SetDefault("chat.bot_id", d.Chat.BotID)
	v.SetDefault("chat.api_token", d.Chat.APIToken)
	v.SetDefault("chat.idle_timeout", d.Chat.IdleTimeout)
	v.SetDefault("chat.default_user_id", d.Chat.DefaultUserID)

	// Event stream
	v.SetDefault("eventstream.provider", d.EventStream.Provider)
	v.SetDefault("eventstream.brokers", d.EventStream.Brokers)
	v.SetDefault("eventstream.topic", d.EventStream.Topic)

	// Client
	v.SetDefault("client.server_target", d.Client.ServerTarget)
}

// StringList reads a list-valued key that may come from a TOML array or a
// comma separated environment variable.
func StringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		out = append(out, SplitList(item)...)
	}
	return out
}

// FromViper assembles the effective configuration from v and validates the
// values a server cannot start without.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Version: v.GetInt("version"),
		Server: ServerConfig{
			Listen:    v.GetString("server.listen"),
			UploadDir: v.GetString("server.upload_dir"),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("storage.driver"),
			SQLitePath:  v.GetString("storage.sqlite_path"),
			PostgresDSN: v.GetString("storage.postgres_dsn"),
		},
		Chat: ChatConfig{
			APIBase:       v.GetString("chat.api_base"),
			BotID:         v.GetString("chat.bot_id"),
			APIToken:      v.GetString("chat.api_token"),
			IdleTimeout:   v.GetString("chat.idle_timeout"),
			DefaultUserID: v.GetString("chat.default_user_id"),
		},
		EventStream: EventStreamConfig{
			Provider: v.GetString("eventstream.provider"),
			Brokers:  StringList(v, "eventstream.brokers"),
			Topic:    v.GetString("eventstream.topic"),
		},
		Client: ClientConfig{
			ServerTarget: v.GetString("client.server_target"),
		},
	}

	if err := oneOf("storage.driver", cfg.Storage.Driver, StorageDrivers); err != nil {
		return nil, err
	}
	if err := oneOf("eventstream.provider", cfg.EventStream.Provider, EventStreamProviders); err != nil {
		return nil, err
	}
	if _, err := cfg.Chat.IdleTimeoutDuration(); err != nil {
		return nil, err
	}

	return cfg, nil
}
