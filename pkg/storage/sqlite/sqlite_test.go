package sqlite_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/storage"
	"github.com/sxpeea/sxpeea/pkg/storage/sqlite"
	"github.com/sxpeea/sxpeea/pkg/storage/storagetest"
)

var _ = Describe("Driver", func() {
	storagetest.DriverSpecs(func() storage.Driver {
		d, err := sqlite.NewDriver(context.Background(), ":memory:")
		Expect(err).NotTo(HaveOccurred())
		return d
	})

	Describe("NewDriver", func() {
		It("creates a driver with file database", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")

			d, err := sqlite.NewDriver(context.Background(), dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer d.Close()

			// Verify file was created
			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps data across reopen", func() {
			ctx := context.Background()
			dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")

			d, err := sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.PutSetting(ctx, content.Setting{Key: "site_name", Value: content.Ptr("SXPEEA")})).To(Succeed())
			Expect(d.Close()).To(Succeed())

			d, err = sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer d.Close()

			settings, err := d.Settings(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(settings).To(HaveLen(1))
			Expect(*settings[0].Value).To(Equal("SXPEEA"))
		})
	})
})
