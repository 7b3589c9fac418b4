package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --sqlite
// on both "sxpeea serve" and "sxpeea seed").
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag and BindRegisteredFlags to
// avoid typos or drift from one command to another.
const (
	FlagListen        = "listen"
	FlagUploadDir     = "upload-dir"
	FlagStorage       = "storage"
	FlagSQLite        = "sqlite"
	FlagPostgres      = "postgres"
	FlagChatAPIBase   = "chat-api-base"
	FlagBotID         = "bot-id"
	FlagAPIToken      = "api-token"
	FlagIdleTimeout   = "idle-timeout"
	FlagDefaultUserID = "default-user-id"
	FlagEventStream   = "eventstream"
	FlagKafkaBrokers  = "kafka-brokers"
	FlagKafkaTopic    = "kafka-topic"
	FlagServerTarget  = "server-target"
)

// Flags is the registry of every flag that maps to a config key.
var Flags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "server.listen",
		Description: "Address for the server to listen on",
	},
	FlagUploadDir: {
		Name:        "upload-dir",
		ViperKey:    "server.upload_dir",
		Description: "Directory served under /uploads (empty disables it)",
	},
	FlagStorage: {
		Name:        "storage",
		ViperKey:    "storage.driver",
		Description: "Storage driver (memory, sqlite, postgres)",
	},
	FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to SQLite database (default: sxpeea.db in the config dir)",
	},
	FlagPostgres: {
		Name:        "postgres",
		ViperKey:    "storage.postgres_dsn",
		Description: "PostgreSQL connection string",
	},
	FlagChatAPIBase: {
		Name:        "chat-api-base",
		ViperKey:    "chat.api_base",
		Description: "Upstream chat API base URL",
	},
	FlagBotID: {
		Name:        "bot-id",
		ViperKey:    "chat.bot_id",
		Description: "Upstream chat bot id",
	},
	FlagAPIToken: {
		Name:        "api-token",
		ViperKey:    "chat.api_token",
		Description: "Upstream chat API token",
	},
	FlagIdleTimeout: {
		Name:        "idle-timeout",
		ViperKey:    "chat.idle_timeout",
		Description: "Upstream inactivity timeout (e.g. 120s)",
	},
	FlagDefaultUserID: {
		Name:        "default-user-id",
		ViperKey:    "chat.default_user_id",
		Description: "User id sent upstream when the client omits one",
	},
	FlagEventStream: {
		Name:        "eventstream",
		ViperKey:    "eventstream.provider",
		Description: "Chat stream telemetry publisher (nop, kafka)",
	},
	FlagKafkaBrokers: {
		Name:        "kafka-brokers",
		ViperKey:    "eventstream.brokers",
		Description: "Comma separated Kafka bootstrap brokers",
	},
	FlagKafkaTopic: {
		Name:        "kafka-topic",
		ViperKey:    "eventstream.topic",
		Description: "Kafka topic for chat stream events",
	},
	FlagServerTarget: {
		Name:        "server",
		ViperKey:    "client.server_target",
		Description: "sxpeea server URL",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddStringFlags registers every listed flag. The values are read back
// through viper after BindRegisteredFlags.
func AddStringFlags(cmd *cobra.Command, fs FlagSet, keys []string) {
	for _, key := range keys {
		var sink string
		AddStringFlag(cmd, fs, key, &sink)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
