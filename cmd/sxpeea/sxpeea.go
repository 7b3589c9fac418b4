// Package sxpeeacmder is the root of the sxpeea command tree.
package sxpeeacmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/sxpeea/sxpeea/cmd/sxpeea/chat"
	configcmder "github.com/sxpeea/sxpeea/cmd/sxpeea/config"
	seedcmder "github.com/sxpeea/sxpeea/cmd/sxpeea/seed"
	servecmder "github.com/sxpeea/sxpeea/cmd/sxpeea/serve"
	versioncmder "github.com/sxpeea/sxpeea/cmd/version"
)

const sxpeeaLongDesc string = `sxpeea runs the association website backend: the public content API
and the streaming chat relay in front of the upstream chat bot.

Run services using:
  sxpeea serve         Run the API server with the chat relay
  sxpeea seed          Populate the store with the initial site content
  sxpeea chat          Chat with the bot from the terminal
  sxpeea config        Manage persistent configuration`

const sxpeeaShortDesc string = "sxpeea - association website backend"

func NewSxpeeaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sxpeea",
		Short:         sxpeeaShortDesc,
		Long:          sxpeeaLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("log-json", false, "Log JSON lines instead of colorized text")
	cmd.PersistentFlags().String("config-dir", "", "Override the .sxpeea config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
