package seedcmder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/config"
	"github.com/sxpeea/sxpeea/pkg/storage/sqlite"
)

var _ = Describe("seedCommander", func() {
	var (
		dir string
		out *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "seed-cmd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
		out = &bytes.Buffer{}
	})

	newCommander := func(force bool) *seedCommander {
		cfg := config.NewDefaultConfig()
		return &seedCommander{configDir: dir, force: force, cfg: cfg, out: out}
	}

	It("seeds the default SQLite database in the config dir", func() {
		Expect(newCommander(false).run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Seeded"))

		d, err := sqlite.NewDriver(context.Background(), filepath.Join(dir, "sxpeea.db"))
		Expect(err).NotTo(HaveOccurred())
		defer d.Close()

		settings, err := d.Settings(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(settings).To(HaveLen(6))
	})

	It("skips an already seeded store without --force", func() {
		Expect(newCommander(false).run(context.Background())).To(Succeed())
		out.Reset()

		Expect(newCommander(false).run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("--force"))
	})

	It("reseeds with --force", func() {
		Expect(newCommander(false).run(context.Background())).To(Succeed())
		out.Reset()

		Expect(newCommander(true).run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Seeded"))
	})

	It("refuses the in-memory driver", func() {
		c := newCommander(false)
		c.cfg.Storage.Driver = config.StorageMemory
		Expect(c.run(context.Background())).To(MatchError(ContainSubstring("does not persist")))
	})
})
