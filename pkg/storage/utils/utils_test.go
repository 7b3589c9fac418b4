package storageutils_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/storage/inmemory"
	"github.com/sxpeea/sxpeea/pkg/storage/sqlite"
	storageutils "github.com/sxpeea/sxpeea/pkg/storage/utils"
)

var _ = Describe("NewDriver", func() {
	ctx := context.Background()

	It("opens an in-memory driver", func() {
		d, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{DriverType: "memory"})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&inmemory.Driver{}))
		Expect(d.Close()).To(Succeed())
	})

	It("opens a SQLite driver and creates the schema", func() {
		dir, err := os.MkdirTemp("", "storageutils-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		d, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
			DriverType: "sqlite",
			SQLitePath: filepath.Join(dir, "sxpeea.db"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&sqlite.Driver{}))
		DeferCleanup(d.Close)

		settings, err := d.Settings(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(settings).To(BeEmpty())
	})

	DescribeTable("rejects incomplete options",
		func(o *storageutils.NewDriverOpts, msg string) {
			_, err := storageutils.NewDriver(ctx, o)
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("sqlite without a path", &storageutils.NewDriverOpts{DriverType: "sqlite"}, "database path"),
		Entry("postgres without a DSN", &storageutils.NewDriverOpts{DriverType: "postgres"}, "connection string"),
		Entry("unknown driver", &storageutils.NewDriverOpts{DriverType: "mysql"}, "unsupported storage driver"),
	)
})
