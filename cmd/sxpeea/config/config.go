// Package configcmder provides the config command for managing persistent
// sxpeea configuration stored in the .sxpeea/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent sxpeea configuration.

Configuration is stored as config.toml in the .sxpeea/ directory and provides
default values for command flags. CLI flags and environment variables always
take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  server.listen, server.upload_dir,
  storage.driver, storage.sqlite_path, storage.postgres_dsn,
  chat.api_base, chat.bot_id, chat.api_token, chat.idle_timeout,
  chat.default_user_id,
  eventstream.provider, eventstream.brokers, eventstream.topic,
  client.server_target

Use subcommands to get, set, or list configuration values:
  sxpeea config set <key> <value>    Set a configuration value
  sxpeea config get <key>            Get a configuration value
  sxpeea config list                 List all configuration values

Examples:
  sxpeea config set chat.bot_id 7400000000000000000
  sxpeea config set storage.driver postgres
  sxpeea config get chat.idle_timeout
  sxpeea config list`

const configShortDesc string = "Manage persistent sxpeea configuration"

// secretKeys are masked when printed.
var secretKeys = map[string]bool{
	"chat.api_token":       true,
	"storage.postgres_dsn": true,
}

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// displayValue masks secrets, keeping a short prefix for recognition.
func displayValue(key, value string) string {
	if !secretKeys[key] || value == "" {
		return value
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "********"
}
