package seed_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/seed"
	"github.com/sxpeea/sxpeea/pkg/storage"
	"github.com/sxpeea/sxpeea/pkg/storage/inmemory"
)

var _ = Describe("Seed", func() {
	var (
		ctx    context.Context
		driver *inmemory.Driver
		now    time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
		now = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	})

	It("creates the initial site content", func() {
		res, err := seed.Seed(ctx, driver, false, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(seed.Result{
			Categories: 5,
			Menus:      15,
			Articles:   10,
			Banners:    3,
			Settings:   6,
		}))

		menus, err := driver.VisibleMenus(ctx)
		Expect(err).NotTo(HaveOccurred())
		categories, err := driver.Categories(ctx)
		Expect(err).NotTo(HaveOccurred())

		names := make(map[int]string)
		for _, c := range categories {
			names[c.ID] = c.Name
		}
		tree := content.BuildMenuTree(menus, names)
		Expect(tree).To(HaveLen(7))
		Expect(tree[1].Slug).To(Equal("about"))
		Expect(tree[1].Children).To(HaveLen(4))
		Expect(tree[2].Children[0].Slug).To(Equal("news-industry"))
		Expect(*tree[2].Children[0].CategoryName).To(Equal("行业新闻"))
	})

	It("publishes articles newest first with pinned ones on top", func() {
		_, err := seed.Seed(ctx, driver, false, now)
		Expect(err).NotTo(HaveOccurred())

		articles, total, err := driver.PublishedArticles(ctx, storage.ArticleQuery{Limit: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(10))
		Expect(articles[0].IsTop).To(BeTrue())
		Expect(*articles[0].PublishedAt).To(BeTemporally("==", now))
		Expect(articles[1].IsTop).To(BeTrue())
		Expect(articles[2].IsTop).To(BeFalse())
		Expect(*articles[2].PublishedAt).To(BeTemporally("==", now.Add(-3*24*time.Hour)))
	})

	It("skips a store that already has content", func() {
		_, err := seed.Seed(ctx, driver, false, now)
		Expect(err).NotTo(HaveOccurred())

		res, err := seed.Seed(ctx, driver, false, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Skipped).To(BeTrue())

		_, total, err := driver.PublishedArticles(ctx, storage.ArticleQuery{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(10))
	})

	It("replaces existing content when forced", func() {
		Expect(driver.PutSetting(ctx, content.Setting{Key: "stale", Value: content.Ptr("x")})).To(Succeed())

		res, err := seed.Seed(ctx, driver, true, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Skipped).To(BeFalse())

		settings, err := driver.Settings(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(settings).To(HaveLen(6))
		for _, s := range settings {
			Expect(s.Key).NotTo(Equal("stale"))
		}
	})
})
