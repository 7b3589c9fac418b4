// Package servecmder provides the serve command.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sxpeea/sxpeea/api"
	"github.com/sxpeea/sxpeea/pkg/config"
	"github.com/sxpeea/sxpeea/pkg/dotdir"
	eventstreamutils "github.com/sxpeea/sxpeea/pkg/eventstream/utils"
	"github.com/sxpeea/sxpeea/pkg/logger"
	storageutils "github.com/sxpeea/sxpeea/pkg/storage/utils"
	"github.com/sxpeea/sxpeea/proxy"
)

// serveFlags are the registry flags bound on "sxpeea serve".
var serveFlags = []string{
	config.FlagListen,
	config.FlagUploadDir,
	config.FlagStorage,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagChatAPIBase,
	config.FlagBotID,
	config.FlagAPIToken,
	config.FlagIdleTimeout,
	config.FlagDefaultUserID,
	config.FlagEventStream,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

type serveCommander struct {
	configDir   string
	debug       bool
	logJSON     bool
	watchConfig bool
	logFile     string
	logSource   bool

	out    io.Writer
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

const serveLongDesc string = `Run the sxpeea server.

Serves the public content API under /api, uploaded files under /uploads,
and the streaming chat relay under /chat.

Settings come from flags, SXPEEA_* environment variables (plus COZE_BOT_ID,
COZE_API_TOKEN, DATABASE_URL and UPLOAD_DIR), config.toml, then defaults.

With --log-file, records are also appended to the given file as JSON.

With --watch-config, edits to chat.bot_id and chat.api_token in config.toml
apply to new chat streams without a restart.`

const serveShortDesc string = "Run the sxpeea server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)

			cfg, err := config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.v = v
			cmder.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logJSON, err = cmd.Flags().GetBool("log-json")
			if err != nil {
				return fmt.Errorf("could not get log-json flag: %w", err)
			}

			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlags(cmd, config.Flags, serveFlags)
	cmd.Flags().BoolVar(&cmder.watchConfig, "watch-config", false, "Reload chat credentials when config.toml changes")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also append JSON logs to this file")
	cmd.Flags().BoolVar(&cmder.logSource, "log-source", false, "Include source file:line in logs")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	closeLog, err := c.initLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	dir, err := dotdir.NewManager().Target(c.configDir)
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}

	driver, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		DriverType:  c.cfg.Storage.Driver,
		SQLitePath:  c.cfg.Storage.SQLitePathIn(dir),
		PostgresDSN: c.cfg.Storage.PostgresDSN,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}
	defer driver.Close()

	if c.cfg.Server.UploadDir != "" {
		if err := os.MkdirAll(c.cfg.Server.UploadDir, 0o755); err != nil {
			return fmt.Errorf("creating upload dir: %w", err)
		}
	}

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: c.cfg.EventStream.Provider,
		Brokers:      c.cfg.EventStream.Brokers,
		Topic:        c.cfg.EventStream.Topic,
	})
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	idleTimeout, err := c.cfg.Chat.IdleTimeoutDuration()
	if err != nil {
		return err
	}

	p, err := proxy.New(proxy.Config{
		UpstreamURL:   c.cfg.Chat.APIBase,
		BotID:         c.cfg.Chat.BotID,
		APIToken:      c.cfg.Chat.APIToken,
		IdleTimeout:   idleTimeout,
		DefaultUserID: c.cfg.Chat.DefaultUserID,
	}, publisher, c.logger)
	if err != nil {
		return fmt.Errorf("creating chat relay: %w", err)
	}
	defer p.Close()

	if c.cfg.Chat.BotID == "" || c.cfg.Chat.APIToken == "" {
		c.logger.Warn("chat bot is not configured, set chat.bot_id and chat.api_token")
	}

	if c.watchConfig {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		path := filepath.Join(dir, "config.toml")
		go func() {
			err := watchFile(watchCtx, path, c.logger, func() { c.reloadCredentials(p) })
			if err != nil {
				c.logger.Error("config watcher stopped", "error", err)
			}
		}()
	}

	server := api.NewServer(api.Config{
		ListenAddr: c.cfg.Server.Listen,
		UploadDir:  c.cfg.Server.UploadDir,
	}, driver, c.logger, p)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	case <-ctx.Done():
		return errors.Join(ctx.Err(), server.Shutdown())
	}
}

// initLogger builds c.logger. Console output is pretty unless --log-json is
// set. A --log-file always receives JSON: alongside JSON console output the
// two share one handler, otherwise the pretty and JSON loggers are fanned out
// with logger.Multi. The returned func closes the log file.
func (c *serveCommander) initLogger() (func() error, error) {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	common := []logger.Option{
		logger.WithDebug(c.debug),
		logger.WithSource(c.logSource),
	}

	if c.logFile == "" {
		c.logger = logger.New(append(common,
			logger.WithJSON(c.logJSON),
			logger.WithPretty(!c.logJSON),
			logger.WithWriter(out),
		)...)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	if c.logJSON {
		c.logger = logger.New(append(common,
			logger.WithJSON(true),
			logger.WithWriters(out, f),
		)...)
		return f.Close, nil
	}

	c.logger = logger.Multi(
		logger.New(append(common, logger.WithPretty(true), logger.WithWriter(out))...),
		logger.New(append(common, logger.WithJSON(true), logger.WithWriter(f))...),
	)
	return f.Close, nil
}

// reloadCredentials re-reads config.toml and swaps the relay's upstream
// credentials. Environment variables and flags keep their precedence.
func (c *serveCommander) reloadCredentials(p *proxy.Proxy) {
	if err := c.v.ReadInConfig(); err != nil {
		c.logger.Error("reloading config", "error", err)
		return
	}

	botID := c.v.GetString("chat.bot_id")
	token := c.v.GetString("chat.api_token")
	p.SetCredentials(botID, token)

	c.logger.Info("reloaded chat credentials", "bot_configured", botID != "" && token != "")
}
