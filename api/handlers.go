package api

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/storage"
)

const (
	defaultPageSize    = 10
	maxPageSize        = 50
	defaultLatestLimit = 10
	maxLatestLimit     = 20
)

// RootResponse is the body of GET /.
type RootResponse struct {
	Message string `json:"message"`
	Health  string `json:"health"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(RootResponse{Message: "SXPEEA API is running", Health: "/health"})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}

// handleMenuTree returns the visible navigation tree.
func (s *Server) handleMenuTree(c *fiber.Ctx) error {
	ctx := c.Context()

	menus, err := s.driver.VisibleMenus(ctx)
	if err != nil {
		return s.storageError(c, err, "failed to list menus")
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		return s.storageError(c, err, "failed to list categories")
	}

	return c.JSON(content.BuildMenuTree(menus, names))
}

// handlePage returns a single page menu's content.
func (s *Server) handlePage(c *fiber.Ctx) error {
	menu, err := s.driver.VisibleMenu(c.Context(), c.Params("slug"), content.MenuTypePage)
	if err != nil {
		return s.storageError(c, err, "page not found")
	}

	return c.JSON(content.PageResponse{
		ID:      menu.ID,
		Name:    menu.Name,
		Slug:    menu.Slug,
		Content: menu.PageContent,
	})
}

// handleCategoryArticles returns one page of a category menu's articles.
func (s *Server) handleCategoryArticles(c *fiber.Ctx) error {
	ctx := c.Context()

	page, err := intQuery(c, "page", 1, 1, 0)
	if err != nil {
		return badRequest(c, err)
	}
	pageSize, err := intQuery(c, "page_size", defaultPageSize, 1, maxPageSize)
	if err != nil {
		return badRequest(c, err)
	}

	menu, err := s.driver.VisibleMenu(ctx, c.Params("slug"), content.MenuTypeCategory)
	if err != nil {
		return s.storageError(c, err, "category not found")
	}
	if menu.CategoryID == nil {
		return c.Status(fiber.StatusNotFound).JSON(content.ErrorResponse{Error: "category not found"})
	}

	category, err := s.driver.Category(ctx, *menu.CategoryID)
	if err != nil {
		return s.storageError(c, err, "category not found")
	}

	articles, total, err := s.driver.PublishedArticles(ctx, storage.ArticleQuery{
		CategoryID: &category.ID,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	})
	if err != nil {
		return s.storageError(c, err, "failed to list articles")
	}

	items := make([]content.ArticleListItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, content.ArticleListItem{
			ID:          a.ID,
			Title:       a.Title,
			Slug:        a.Slug,
			Cover:       a.Cover,
			Summary:     a.Summary,
			IsTop:       a.IsTop,
			ViewCount:   a.ViewCount,
			PublishedAt: a.PublishedAt,
			CreatedAt:   a.CreatedAt,
		})
	}

	return c.JSON(content.CategoryArticlesResponse{
		Category: content.CategorySummary{
			ID:          category.ID,
			Name:        category.Name,
			Slug:        category.Slug,
			Description: category.Description,
		},
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: content.TotalPages(total, pageSize),
	})
}

// handleLatestArticles returns the newest published articles.
func (s *Server) handleLatestArticles(c *fiber.Ctx) error {
	ctx := c.Context()

	limit, err := intQuery(c, "limit", defaultLatestLimit, 1, maxLatestLimit)
	if err != nil {
		return badRequest(c, err)
	}

	q := storage.ArticleQuery{Limit: limit}

	// category_id=0 means no filter.
	categoryID, err := intQuery(c, "category_id", 0, 0, 0)
	if err != nil {
		return badRequest(c, err)
	}
	if categoryID > 0 {
		q.CategoryID = &categoryID
	}

	articles, _, err := s.driver.PublishedArticles(ctx, q)
	if err != nil {
		return s.storageError(c, err, "failed to list articles")
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		return s.storageError(c, err, "failed to list categories")
	}

	latest := make([]content.LatestArticle, 0, len(articles))
	for _, a := range articles {
		latest = append(latest, content.LatestArticle{
			ID:           a.ID,
			Title:        a.Title,
			Slug:         a.Slug,
			Cover:        a.Cover,
			Summary:      a.Summary,
			CategoryID:   a.CategoryID,
			CategoryName: lookupName(names, a.CategoryID),
			IsTop:        a.IsTop,
			ViewCount:    a.ViewCount,
			PublishedAt:  a.PublishedAt,
			CreatedAt:    a.CreatedAt,
		})
	}

	return c.JSON(latest)
}

// handleArticle returns a published article, counting the view.
func (s *Server) handleArticle(c *fiber.Ctx) error {
	ctx := c.Context()

	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, errInvalidParam("id"))
	}

	article, err := s.driver.PublishedArticle(ctx, id)
	if err != nil {
		return s.storageError(c, err, "article not found")
	}

	views, err := s.driver.IncrementViewCount(ctx, id)
	if err != nil {
		return s.storageError(c, err, "article not found")
	}
	article.ViewCount = views

	prev, next, err := s.driver.AdjacentArticles(ctx, article)
	if err != nil {
		return s.storageError(c, err, "failed to load adjacent articles")
	}

	detail := content.ArticleDetail{
		ID:          article.ID,
		Title:       article.Title,
		Slug:        article.Slug,
		Cover:       article.Cover,
		Summary:     article.Summary,
		Content:     article.Content,
		CategoryID:  article.CategoryID,
		IsTop:       article.IsTop,
		ViewCount:   article.ViewCount,
		PublishedAt: article.PublishedAt,
		CreatedAt:   article.CreatedAt,
		PrevArticle: articleRef(prev),
		NextArticle: articleRef(next),
	}

	if article.CategoryID != nil {
		category, err := s.driver.Category(ctx, *article.CategoryID)
		switch {
		case err == nil:
			detail.CategoryName = &category.Name
		case !storage.IsNotFound(err):
			return s.storageError(c, err, "failed to load category")
		}
	}

	return c.JSON(detail)
}

// handleBanners returns the active banners.
func (s *Server) handleBanners(c *fiber.Ctx) error {
	banners, err := s.driver.ActiveBanners(c.Context())
	if err != nil {
		return s.storageError(c, err, "failed to list banners")
	}
	if banners == nil {
		banners = []content.Banner{}
	}
	return c.JSON(banners)
}

// handleSettings returns all settings as a key/value object.
func (s *Server) handleSettings(c *fiber.Ctx) error {
	settings, err := s.driver.Settings(c.Context())
	if err != nil {
		return s.storageError(c, err, "failed to list settings")
	}

	out := make(map[string]*string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return c.JSON(out)
}

func (s *Server) categoryNames(ctx context.Context) (map[int]string, error) {
	categories, err := s.driver.Categories(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// storageError maps a not-found error to 404 with msg; anything else is
// logged and reported as a 500.
func (s *Server) storageError(c *fiber.Ctx, err error, msg string) error {
	if storage.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(content.ErrorResponse{Error: msg})
	}

	s.logger.Error("storage request failed",
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(content.ErrorResponse{Error: "internal error"})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(content.ErrorResponse{Error: err.Error()})
}

type errInvalidParam string

func (e errInvalidParam) Error() string {
	return "invalid " + string(e) + " parameter"
}

// intQuery reads an integer query parameter. Missing parameters yield def.
// The value must be at least lo and, when hi is positive, at most hi.
func intQuery(c *fiber.Ctx, key string, def, lo, hi int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || (hi > 0 && v > hi) {
		return 0, errInvalidParam(key)
	}
	return v, nil
}

func lookupName(names map[int]string, id *int) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok {
		return nil
	}
	return &name
}

func articleRef(a *content.Article) *content.ArticleRef {
	if a == nil {
		return nil
	}
	return &content.ArticleRef{ID: a.ID, Title: a.Title}
}
