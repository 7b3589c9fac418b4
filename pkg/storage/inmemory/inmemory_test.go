package inmemory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/storage"
	"github.com/sxpeea/sxpeea/pkg/storage/inmemory"
	"github.com/sxpeea/sxpeea/pkg/storage/storagetest"
)

var _ = Describe("Driver", func() {
	storagetest.DriverSpecs(func() storage.Driver {
		return inmemory.NewDriver()
	})

	It("rejects duplicate slugs", func() {
		ctx := context.Background()
		d := inmemory.NewDriver()

		Expect(d.CreateCategory(ctx, &content.Category{Name: "News", Slug: "news"})).To(Succeed())
		err := d.CreateCategory(ctx, &content.Category{Name: "News 2", Slug: "news"})
		Expect(err).To(MatchError(storage.ConflictError{Entity: "category", Key: "news"}))
	})

	It("restarts ids after truncation", func() {
		ctx := context.Background()
		d := inmemory.NewDriver()

		b := &content.Banner{Image: "/a.jpg"}
		Expect(d.CreateBanner(ctx, b)).To(Succeed())
		Expect(d.Truncate(ctx)).To(Succeed())

		b = &content.Banner{Image: "/b.jpg"}
		Expect(d.CreateBanner(ctx, b)).To(Succeed())
		Expect(b.ID).To(Equal(1))
	})
})
