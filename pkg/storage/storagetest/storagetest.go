// Package storagetest holds behaviour specs shared by every storage.Driver.
package storagetest

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/storage"
)

// DriverSpecs registers the storage.Driver contract specs. newDriver is called
// before each spec and must return an empty store.
func DriverSpecs(newDriver func() storage.Driver) {
	var (
		ctx    context.Context
		driver storage.Driver
		base   time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = nil
		driver = newDriver()
		base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		if driver != nil {
			Expect(driver.Close()).To(Succeed())
		}
	})

	createCategory := func(name, slug string) *content.Category {
		GinkgoHelper()
		c := &content.Category{Name: name, Slug: slug}
		Expect(driver.CreateCategory(ctx, c)).To(Succeed())
		Expect(c.ID).NotTo(BeZero())
		return c
	}

	createArticle := func(a content.Article) *content.Article {
		GinkgoHelper()
		Expect(driver.CreateArticle(ctx, &a)).To(Succeed())
		Expect(a.ID).NotTo(BeZero())
		return &a
	}

	at := func(hours int) *time.Time {
		t := base.Add(time.Duration(hours) * time.Hour)
		return &t
	}

	Describe("categories", func() {
		It("creates and reads categories", func() {
			news := createCategory("News", "news")
			createCategory("Notices", "notices")

			got, err := driver.Category(ctx, news.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("News"))
			Expect(got.Slug).To(Equal("news"))
			Expect(got.Description).To(BeNil())

			all, err := driver.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
			Expect(all[0].ID).To(Equal(news.ID))
		})

		It("returns a not found error for missing categories", func() {
			_, err := driver.Category(ctx, 404)
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("menus", func() {
		It("only returns visible menus, ordered by sort", func() {
			news := createCategory("News", "news")

			about := &content.Menu{Name: "About", Slug: "about", Type: content.MenuTypePage, Sort: 2, IsVisible: true, PageContent: content.Ptr("<p>about</p>")}
			Expect(driver.CreateMenu(ctx, about)).To(Succeed())

			Expect(driver.CreateMenu(ctx, &content.Menu{
				Name: "News", Slug: "news", Type: content.MenuTypeCategory, Sort: 1, IsVisible: true,
				ParentID: &about.ID, CategoryID: &news.ID,
			})).To(Succeed())
			Expect(driver.CreateMenu(ctx, &content.Menu{
				Name: "Hidden", Slug: "hidden", Type: content.MenuTypePage, Sort: 0, IsVisible: false,
			})).To(Succeed())

			menus, err := driver.VisibleMenus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(menus).To(HaveLen(2))
			Expect(menus[0].Slug).To(Equal("news"))
			Expect(*menus[0].ParentID).To(Equal(about.ID))
			Expect(*menus[0].CategoryID).To(Equal(news.ID))
			Expect(menus[1].Slug).To(Equal("about"))
			Expect(*menus[1].PageContent).To(Equal("<p>about</p>"))
			Expect(menus[1].ParentID).To(BeNil())
		})

		It("finds a visible menu by slug and type", func() {
			Expect(driver.CreateMenu(ctx, &content.Menu{Name: "About", Slug: "about", Type: content.MenuTypePage, IsVisible: true})).To(Succeed())
			Expect(driver.CreateMenu(ctx, &content.Menu{Name: "Hidden", Slug: "hidden", Type: content.MenuTypePage})).To(Succeed())

			m, err := driver.VisibleMenu(ctx, "about", content.MenuTypePage)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Name).To(Equal("About"))

			_, err = driver.VisibleMenu(ctx, "about", content.MenuTypeCategory)
			Expect(storage.IsNotFound(err)).To(BeTrue())

			_, err = driver.VisibleMenu(ctx, "hidden", content.MenuTypePage)
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("articles", func() {
		var news, notices *content.Category

		BeforeEach(func() {
			news = createCategory("News", "news")
			notices = createCategory("Notices", "notices")
		})

		It("orders pinned articles first, then newest first", func() {
			older := createArticle(content.Article{Title: "older", CategoryID: &news.ID, IsPublished: true, PublishedAt: at(1)})
			newer := createArticle(content.Article{Title: "newer", CategoryID: &news.ID, IsPublished: true, PublishedAt: at(5)})
			pinned := createArticle(content.Article{Title: "pinned", CategoryID: &news.ID, IsPublished: true, IsTop: true, PublishedAt: at(0)})
			createArticle(content.Article{Title: "draft", CategoryID: &news.ID, PublishedAt: at(9)})
			other := createArticle(content.Article{Title: "other", CategoryID: &notices.ID, IsPublished: true, PublishedAt: at(3)})

			all, total, err := driver.PublishedArticles(ctx, storage.ArticleQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(4))
			Expect(ids(all)).To(Equal([]int{pinned.ID, newer.ID, other.ID, older.ID}))

			inNews, total, err := driver.PublishedArticles(ctx, storage.ArticleQuery{CategoryID: &news.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(3))
			Expect(ids(inNews)).To(Equal([]int{pinned.ID, newer.ID, older.ID}))
		})

		It("pages through results while reporting the full total", func() {
			for i := range 5 {
				createArticle(content.Article{Title: "a", CategoryID: &news.ID, IsPublished: true, PublishedAt: at(i)})
			}

			page, total, err := driver.PublishedArticles(ctx, storage.ArticleQuery{Offset: 2, Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(5))
			Expect(page).To(HaveLen(2))
			Expect(*page[0].PublishedAt).To(BeTemporally("==", *at(2)))

			past, total, err := driver.PublishedArticles(ctx, storage.ArticleQuery{Offset: 10, Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(5))
			Expect(past).To(BeEmpty())
		})

		It("hides unpublished articles", func() {
			draft := createArticle(content.Article{Title: "draft", CategoryID: &news.ID})

			_, err := driver.PublishedArticle(ctx, draft.ID)
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})

		It("round-trips every field", func() {
			a := createArticle(content.Article{
				Title:       "Annual meeting",
				Slug:        content.Ptr("annual-meeting"),
				Cover:       content.Ptr("/uploads/cover.jpg"),
				Summary:     content.Ptr("summary"),
				Content:     content.Ptr("<p>body</p>"),
				CategoryID:  &news.ID,
				IsPublished: true,
				PublishedAt: at(2),
			})

			got, err := driver.PublishedArticle(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Annual meeting"))
			Expect(*got.Slug).To(Equal("annual-meeting"))
			Expect(*got.Cover).To(Equal("/uploads/cover.jpg"))
			Expect(*got.Summary).To(Equal("summary"))
			Expect(*got.Content).To(Equal("<p>body</p>"))
			Expect(*got.CategoryID).To(Equal(news.ID))
			Expect(*got.PublishedAt).To(BeTemporally("==", *at(2)))
			Expect(got.UpdatedAt).To(BeNil())
			Expect(got.ViewCount).To(BeZero())
		})

		It("counts views", func() {
			a := createArticle(content.Article{Title: "a", IsPublished: true})

			Expect(driver.IncrementViewCount(ctx, a.ID)).To(Equal(1))
			Expect(driver.IncrementViewCount(ctx, a.ID)).To(Equal(2))

			got, err := driver.PublishedArticle(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ViewCount).To(Equal(2))

			_, err = driver.IncrementViewCount(ctx, 404)
			Expect(storage.IsNotFound(err)).To(BeTrue())
		})

		It("finds neighbours within the same category", func() {
			first := createArticle(content.Article{Title: "first", CategoryID: &news.ID, IsPublished: true, PublishedAt: at(1)})
			middle := createArticle(content.Article{Title: "middle", CategoryID: &news.ID, IsPublished: true, PublishedAt: at(2)})
			last := createArticle(content.Article{Title: "last", CategoryID: &news.ID, IsPublished: true, PublishedAt: at(3)})
			createArticle(content.Article{Title: "draft", CategoryID: &news.ID, PublishedAt: at(4)})
			createArticle(content.Article{Title: "elsewhere", CategoryID: &notices.ID, IsPublished: true, PublishedAt: at(0)})

			prev, next, err := driver.AdjacentArticles(ctx, middle)
			Expect(err).NotTo(HaveOccurred())
			Expect(prev.ID).To(Equal(first.ID))
			Expect(next.ID).To(Equal(last.ID))

			prev, next, err = driver.AdjacentArticles(ctx, last)
			Expect(err).NotTo(HaveOccurred())
			Expect(prev.ID).To(Equal(middle.ID))
			Expect(next).To(BeNil())

			prev, next, err = driver.AdjacentArticles(ctx, first)
			Expect(err).NotTo(HaveOccurred())
			Expect(prev).To(BeNil())
			Expect(next.ID).To(Equal(middle.ID))
		})

		It("gives articles without a category or publish time no neighbours", func() {
			createArticle(content.Article{Title: "x", CategoryID: &news.ID, IsPublished: true, PublishedAt: at(1)})
			loose := createArticle(content.Article{Title: "loose", IsPublished: true, PublishedAt: at(2)})
			undated := createArticle(content.Article{Title: "undated", CategoryID: &news.ID, IsPublished: true})

			for _, a := range []*content.Article{loose, undated} {
				prev, next, err := driver.AdjacentArticles(ctx, a)
				Expect(err).NotTo(HaveOccurred())
				Expect(prev).To(BeNil())
				Expect(next).To(BeNil())
			}
		})
	})

	Describe("banners", func() {
		It("returns active banners ordered by sort", func() {
			Expect(driver.CreateBanner(ctx, &content.Banner{Image: "/b.jpg", Sort: 2, IsActive: true})).To(Succeed())
			Expect(driver.CreateBanner(ctx, &content.Banner{Image: "/a.jpg", Sort: 1, IsActive: true, Title: content.Ptr("A")})).To(Succeed())
			Expect(driver.CreateBanner(ctx, &content.Banner{Image: "/off.jpg", Sort: 0})).To(Succeed())

			banners, err := driver.ActiveBanners(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(banners).To(HaveLen(2))
			Expect(banners[0].Image).To(Equal("/a.jpg"))
			Expect(*banners[0].Title).To(Equal("A"))
			Expect(banners[0].Link).To(BeNil())
			Expect(banners[1].Image).To(Equal("/b.jpg"))
		})
	})

	Describe("settings", func() {
		It("inserts and replaces settings", func() {
			Expect(driver.PutSetting(ctx, content.Setting{Key: "site_name", Value: content.Ptr("Old")})).To(Succeed())
			Expect(driver.PutSetting(ctx, content.Setting{Key: "site_name", Value: content.Ptr("New")})).To(Succeed())
			Expect(driver.PutSetting(ctx, content.Setting{Key: "icp", Value: nil})).To(Succeed())

			settings, err := driver.Settings(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(settings).To(HaveLen(2))
			Expect(settings[0].Key).To(Equal("icp"))
			Expect(settings[0].Value).To(BeNil())
			Expect(settings[1].Key).To(Equal("site_name"))
			Expect(*settings[1].Value).To(Equal("New"))
		})

		It("rejects an empty key", func() {
			Expect(driver.PutSetting(ctx, content.Setting{})).NotTo(Succeed())
		})
	})

	Describe("Truncate", func() {
		It("removes all content", func() {
			c := createCategory("News", "news")
			Expect(driver.CreateMenu(ctx, &content.Menu{Name: "News", Slug: "news", Type: content.MenuTypeCategory, CategoryID: &c.ID, IsVisible: true})).To(Succeed())
			createArticle(content.Article{Title: "a", CategoryID: &c.ID, IsPublished: true})
			Expect(driver.CreateBanner(ctx, &content.Banner{Image: "/a.jpg", IsActive: true})).To(Succeed())
			Expect(driver.PutSetting(ctx, content.Setting{Key: "k", Value: content.Ptr("v")})).To(Succeed())

			Expect(driver.Truncate(ctx)).To(Succeed())

			menus, err := driver.VisibleMenus(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(menus).To(BeEmpty())

			_, total, err := driver.PublishedArticles(ctx, storage.ArticleQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())

			categories, err := driver.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(BeEmpty())

			banners, err := driver.ActiveBanners(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(banners).To(BeEmpty())

			settings, err := driver.Settings(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(settings).To(BeEmpty())
		})
	})
}

func ids(articles []content.Article) []int {
	out := make([]int, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}
