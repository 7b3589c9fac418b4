// Package storage defines how site content is persisted and queried.
package storage

import (
	"context"

	"github.com/sxpeea/sxpeea/pkg/content"
)

// ArticleQuery selects published articles.
type ArticleQuery struct {
	// CategoryID restricts results to one category when set.
	CategoryID *int

	// Offset and Limit page through the results. A zero Limit returns all
	// matching articles.
	Offset int
	Limit  int
}

// Driver defines the interface for persisting and retrieving site content.
// Implementations order published articles by IsTop descending, then
// PublishedAt descending (articles with no publish time last), then ID
// descending.
type Driver interface {
	Reader
	Writer

	// Close closes the store and releases any resources.
	Close() error
}

// Reader serves the public content API. Every method only returns content
// that is visible to the public.
type Reader interface {
	// VisibleMenus returns all visible menus.
	VisibleMenus(ctx context.Context) ([]content.Menu, error)

	// VisibleMenu returns the visible menu with the given slug and type.
	VisibleMenu(ctx context.Context, slug string, menuType content.MenuType) (*content.Menu, error)

	// Categories returns all categories.
	Categories(ctx context.Context) ([]content.Category, error)

	// Category returns a category by id.
	Category(ctx context.Context, id int) (*content.Category, error)

	// PublishedArticles returns one page of published articles and the total
	// number of matches.
	PublishedArticles(ctx context.Context, q ArticleQuery) ([]content.Article, int, error)

	// PublishedArticle returns a published article by id.
	PublishedArticle(ctx context.Context, id int) (*content.Article, error)

	// AdjacentArticles returns the published articles of the same category
	// published immediately before and after a. Either may be nil. Articles
	// without a category or publish time have no neighbours.
	AdjacentArticles(ctx context.Context, a *content.Article) (prev, next *content.Article, err error)

	// ActiveBanners returns active banners ordered by Sort.
	ActiveBanners(ctx context.Context) ([]content.Banner, error)

	// Settings returns all settings.
	Settings(ctx context.Context) ([]content.Setting, error)
}

// Writer mutates content.
type Writer interface {
	// IncrementViewCount adds one view to an article and returns the new
	// count.
	IncrementViewCount(ctx context.Context, id int) (int, error)

	// CreateCategory inserts c and sets its ID and CreatedAt.
	CreateCategory(ctx context.Context, c *content.Category) error

	// CreateMenu inserts m and sets its ID and CreatedAt.
	CreateMenu(ctx context.Context, m *content.Menu) error

	// CreateArticle inserts a and sets its ID and CreatedAt.
	CreateArticle(ctx context.Context, a *content.Article) error

	// CreateBanner inserts b and sets its ID and CreatedAt.
	CreateBanner(ctx context.Context, b *content.Banner) error

	// PutSetting inserts or replaces a setting.
	PutSetting(ctx context.Context, s content.Setting) error

	// Truncate deletes all content.
	Truncate(ctx context.Context) error
}
