// Package seedcmder provides the seed command.
package seedcmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sxpeea/sxpeea/pkg/cliui"
	"github.com/sxpeea/sxpeea/pkg/config"
	"github.com/sxpeea/sxpeea/pkg/dotdir"
	"github.com/sxpeea/sxpeea/pkg/logger"
	"github.com/sxpeea/sxpeea/pkg/seed"
	storageutils "github.com/sxpeea/sxpeea/pkg/storage/utils"
)

const seedLongDesc string = `Seed the initial site content: categories, menus, articles, banners
and settings.

A store that already has settings is left untouched unless --force is given,
in which case all existing content is removed first.

Examples:
  sxpeea seed
  sxpeea seed --sqlite ./sxpeea.db
  sxpeea seed --storage postgres --postgres postgres://localhost/sxpeea
  sxpeea seed --force`

const seedShortDesc string = "Seed the initial site content"

var seedFlags = []string{
	config.FlagStorage,
	config.FlagSQLite,
	config.FlagPostgres,
}

type seedCommander struct {
	configDir string
	force     bool
	cfg       *config.Config
	out       io.Writer
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{out: os.Stdout}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, seedFlags)

			cmder.cfg, err = config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlags(cmd, config.Flags, seedFlags)
	cmd.Flags().BoolVarP(&cmder.force, "force", "f", false, "Remove existing content before seeding")

	return cmd
}

func (c *seedCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if c.cfg.Storage.Driver == config.StorageMemory {
		return fmt.Errorf("nothing to seed: storage driver %q does not persist", config.StorageMemory)
	}

	dir, err := dotdir.NewManager().Target(c.configDir)
	if err != nil {
		return fmt.Errorf("resolving config dir: %w", err)
	}

	driver, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		DriverType:  c.cfg.Storage.Driver,
		SQLitePath:  c.cfg.Storage.SQLitePathIn(dir),
		PostgresDSN: c.cfg.Storage.PostgresDSN,
		Logger:      logger.Nop(),
	})
	if err != nil {
		return err
	}
	defer driver.Close()

	var res seed.Result
	if err := cliui.Step(c.out, "Seeding site content", func() error {
		var seedErr error
		res, seedErr = seed.Seed(ctx, driver, c.force, time.Now())
		return seedErr
	}); err != nil {
		return err
	}

	if res.Skipped {
		fmt.Fprintf(c.out, "\n  %s %s\n\n",
			cliui.DimStyle.Render("●"),
			cliui.DimStyle.Render("Store already has content, use --force to reseed"),
		)
		return nil
	}

	fmt.Fprintf(c.out, "\n  %s Seeded %s articles %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(res.Articles)),
		cliui.DimStyle.Render(fmt.Sprintf("(%d categories, %d menus, %d banners, %d settings)",
			res.Categories, res.Menus, res.Banners, res.Settings)),
	)
	return nil
}
