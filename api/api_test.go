package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/logger"
	"github.com/sxpeea/sxpeea/pkg/seed"
	"github.com/sxpeea/sxpeea/pkg/storage/inmemory"
)

var seedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// pingRegistrar mounts a single extra route.
type pingRegistrar struct{}

func (pingRegistrar) Register(router fiber.Router) {
	router.Get("/chat/health", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
}

var _ = Describe("Server", func() {
	var (
		server *Server
		driver *inmemory.Driver
		config Config
	)

	get := func(path string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := server.app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, v any) {
		defer resp.Body.Close()
		Expect(json.NewDecoder(resp.Body).Decode(v)).To(Succeed())
	}

	errorOf := func(resp *http.Response) string {
		var body content.ErrorResponse
		decode(resp, &body)
		return body.Error
	}

	BeforeEach(func() {
		config = Config{ListenAddr: ":0"}
		driver = inmemory.NewDriver()
	})

	JustBeforeEach(func() {
		server = NewServer(config, driver, logger.Nop(), pingRegistrar{})
	})

	Describe("service routes", func() {
		It("serves the banner at /", func() {
			resp := get("/")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var body RootResponse
			decode(resp, &body)
			Expect(body.Message).NotTo(BeEmpty())
			Expect(body.Health).To(Equal("/health"))
		})

		It("reports healthy", func() {
			resp := get("/health")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var body HealthResponse
			decode(resp, &body)
			Expect(body.Status).To(Equal("healthy"))
		})

		It("mounts registrars", func() {
			resp := get("/chat/health")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			b, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("pong"))
		})

		It("answers unknown routes with a JSON error", func() {
			resp := get("/api/nope")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(errorOf(resp)).To(Equal("Not Found"))
		})

		It("allows any origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", "https://example.org")
			resp, err := server.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
			Expect(resp.Header.Get("Access-Control-Allow-Credentials")).To(BeEmpty())
		})
	})

	Describe("empty store", func() {
		It("returns an empty menu tree", func() {
			var tree []*content.MenuNode
			resp := get("/api/menus/tree")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			decode(resp, &tree)
			Expect(tree).To(BeEmpty())
		})

		It("returns an empty banner list, not null", func() {
			resp := get("/api/banners")
			b, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("[]"))
		})

		It("returns an empty settings object", func() {
			resp := get("/api/settings")
			b, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("{}"))
		})
	})

	Describe("seeded store", func() {
		BeforeEach(func() {
			_, err := seed.Seed(context.Background(), driver, false, seedTime)
			Expect(err).NotTo(HaveOccurred())
		})

		Describe("GET /api/menus/tree", func() {
			It("nests children under their parents in sort order", func() {
				var tree []*content.MenuNode
				decode(get("/api/menus/tree"), &tree)

				Expect(tree).To(HaveLen(7))
				slugs := make([]string, 0, len(tree))
				for _, n := range tree {
					slugs = append(slugs, n.Slug)
				}
				Expect(slugs).To(Equal([]string{"home", "about", "news", "notice", "member", "policy", "contact"}))

				Expect(tree[1].Children).To(HaveLen(4))
				Expect(tree[1].Children[0].Slug).To(Equal("about-intro"))
				Expect(tree[0].Children).To(BeEmpty())
			})

			It("carries category names", func() {
				var tree []*content.MenuNode
				decode(get("/api/menus/tree"), &tree)
				Expect(tree[3].CategoryName).To(HaveValue(Equal("通知公告")))
				Expect(tree[0].CategoryName).To(BeNil())
			})
		})

		Describe("GET /api/pages/:slug", func() {
			It("returns page content", func() {
				var page content.PageResponse
				resp := get("/api/pages/contact")
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				decode(resp, &page)
				Expect(page.Name).To(Equal("联系我们"))
				Expect(page.Content).To(HaveValue(ContainSubstring("联系方式")))
			})

			It("returns 404 for a missing page", func() {
				resp := get("/api/pages/missing")
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				Expect(errorOf(resp)).To(Equal("page not found"))
			})

			It("does not serve category menus as pages", func() {
				resp := get("/api/pages/notice")
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			})
		})

		Describe("GET /api/categories/:slug", func() {
			It("returns the category with its articles", func() {
				var body content.CategoryArticlesResponse
				resp := get("/api/categories/notice")
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				decode(resp, &body)

				Expect(body.Category.Slug).To(Equal("tongzhi-gonggao"))
				Expect(body.Total).To(Equal(3))
				Expect(body.Page).To(Equal(1))
				Expect(body.PageSize).To(Equal(10))
				Expect(body.TotalPages).To(Equal(1))
				Expect(body.Items).To(HaveLen(3))
				Expect(body.Items[0].IsTop).To(BeTrue())
				Expect(body.Items[1].ID).To(BeNumerically(">", 0))
			})

			It("pages through results", func() {
				var body content.CategoryArticlesResponse
				decode(get("/api/categories/notice?page=2&page_size=2"), &body)
				Expect(body.Total).To(Equal(3))
				Expect(body.TotalPages).To(Equal(2))
				Expect(body.Items).To(HaveLen(1))
			})

			It("returns an empty page past the end", func() {
				var body content.CategoryArticlesResponse
				decode(get("/api/categories/notice?page=9"), &body)
				Expect(body.Items).To(BeEmpty())
				Expect(body.Total).To(Equal(3))
			})

			DescribeTable("rejects invalid paging",
				func(query string) {
					resp := get("/api/categories/notice?" + query)
					Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				},
				Entry("page zero", "page=0"),
				Entry("non-numeric page", "page=abc"),
				Entry("page_size zero", "page_size=0"),
				Entry("page_size too large", "page_size=51"),
			)

			It("returns 404 for a page menu", func() {
				resp := get("/api/categories/about")
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				Expect(errorOf(resp)).To(Equal("category not found"))
			})

			It("returns 404 for an unknown slug", func() {
				Expect(get("/api/categories/missing").StatusCode).To(Equal(http.StatusNotFound))
			})
		})

		Describe("GET /api/articles/latest", func() {
			It("orders pinned articles first, then newest", func() {
				var latest []content.LatestArticle
				decode(get("/api/articles/latest"), &latest)

				Expect(latest).To(HaveLen(10))
				ids := make([]int, 0, len(latest))
				for _, a := range latest {
					ids = append(ids, a.ID)
				}
				Expect(ids).To(Equal([]int{1, 6, 2, 3, 4, 5, 7, 8, 9, 10}))
				Expect(latest[0].CategoryName).To(HaveValue(Equal("行业新闻")))
			})

			It("honours limit and category_id", func() {
				var latest []content.LatestArticle
				decode(get("/api/articles/latest?limit=2&category_id=1"), &latest)
				Expect(latest).To(HaveLen(2))
				for _, a := range latest {
					Expect(a.CategoryID).To(HaveValue(Equal(1)))
				}
			})

			It("treats category_id=0 as no filter", func() {
				var latest []content.LatestArticle
				decode(get("/api/articles/latest?category_id=0"), &latest)
				Expect(latest).To(HaveLen(10))
			})

			DescribeTable("rejects invalid limits",
				func(query string) {
					Expect(get("/api/articles/latest?" + query).StatusCode).To(Equal(http.StatusBadRequest))
				},
				Entry("zero", "limit=0"),
				Entry("too large", "limit=21"),
				Entry("non-numeric category", "category_id=x"),
			)
		})

		Describe("GET /api/articles/:id", func() {
			It("returns the article with its neighbours and counts the view", func() {
				var detail content.ArticleDetail
				resp := get("/api/articles/2")
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				decode(resp, &detail)

				Expect(detail.ID).To(Equal(2))
				Expect(detail.ViewCount).To(Equal(151))
				Expect(detail.CategoryName).To(HaveValue(Equal("行业新闻")))
				Expect(detail.PrevArticle).NotTo(BeNil())
				Expect(detail.PrevArticle.ID).To(Equal(3))
				Expect(detail.NextArticle).NotTo(BeNil())
				Expect(detail.NextArticle.ID).To(Equal(1))

				decode(get("/api/articles/2"), &detail)
				Expect(detail.ViewCount).To(Equal(152))
			})

			It("has no next article for the newest in a category", func() {
				var detail content.ArticleDetail
				decode(get("/api/articles/1"), &detail)
				Expect(detail.NextArticle).To(BeNil())
				Expect(detail.PrevArticle).NotTo(BeNil())
			})

			It("returns 404 for an unpublished article", func() {
				a := content.Article{Title: "draft"}
				Expect(driver.CreateArticle(context.Background(), &a)).To(Succeed())

				resp := get("/api/articles/" + strconv.Itoa(a.ID))
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				Expect(errorOf(resp)).To(Equal("article not found"))
			})

			It("returns 404 for a missing article", func() {
				Expect(get("/api/articles/999").StatusCode).To(Equal(http.StatusNotFound))
			})

			It("returns 400 for a non-numeric id", func() {
				Expect(get("/api/articles/abc").StatusCode).To(Equal(http.StatusBadRequest))
			})
		})

		It("lists active banners in sort order", func() {
			var banners []content.Banner
			decode(get("/api/banners"), &banners)
			Expect(banners).To(HaveLen(3))
			Expect(banners[0].Sort).To(Equal(1))
			Expect(banners[2].Sort).To(Equal(3))
		})

		It("returns settings as an object", func() {
			var settings map[string]*string
			decode(get("/api/settings"), &settings)
			Expect(settings).To(HaveLen(6))
			Expect(settings["site_email"]).To(HaveValue(Equal("contact@sxpeea.cn")))
		})
	})

	Describe("uploads", func() {
		BeforeEach(func() {
			dir, err := os.MkdirTemp("", "sxpeea-uploads-*")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, dir)
			Expect(os.WriteFile(filepath.Join(dir, "banner1.jpg"), []byte("jpeg"), 0o600)).To(Succeed())
			config.UploadDir = dir
		})

		It("serves files from the upload directory", func() {
			resp := get("/uploads/banner1.jpg")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			b, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("jpeg"))
		})

		It("returns 404 for missing files", func() {
			Expect(get("/uploads/missing.jpg").StatusCode).To(Equal(http.StatusNotFound))
		})
	})
})
