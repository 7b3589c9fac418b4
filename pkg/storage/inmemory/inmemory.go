// Package inmemory provides a map-backed storage driver for tests and
// ephemeral deployments.
package inmemory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/storage"
)

// Driver implements storage.Driver using in-memory maps.
type Driver struct {
	// mu guards every map and id counter below
	mu sync.RWMutex

	menus      map[int]content.Menu
	categories map[int]content.Category
	articles   map[int]content.Article
	banners    map[int]content.Banner
	settings   map[string]content.Setting

	// nextID is the last id handed out per table
	nextID map[string]int

	now func() time.Time
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	d := &Driver{now: time.Now}
	d.reset()
	return d
}

var _ storage.Driver = (*Driver)(nil)

func (d *Driver) reset() {
	d.menus = make(map[int]content.Menu)
	d.categories = make(map[int]content.Category)
	d.articles = make(map[int]content.Article)
	d.banners = make(map[int]content.Banner)
	d.settings = make(map[string]content.Setting)
	d.nextID = make(map[string]int)
}

func (d *Driver) id(table string) int {
	d.nextID[table]++
	return d.nextID[table]
}

// VisibleMenus returns all visible menus ordered by sort.
func (d *Driver) VisibleMenus(_ context.Context) ([]content.Menu, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	menus := make([]content.Menu, 0, len(d.menus))
	for _, m := range d.menus {
		if m.IsVisible {
			menus = append(menus, m)
		}
	}
	slices.SortFunc(menus, func(a, b content.Menu) int {
		return cmp.Or(cmp.Compare(a.Sort, b.Sort), cmp.Compare(a.ID, b.ID))
	})
	return menus, nil
}

// VisibleMenu returns the visible menu with the given slug and type.
func (d *Driver) VisibleMenu(_ context.Context, slug string, menuType content.MenuType) (*content.Menu, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, m := range d.menus {
		if m.Slug == slug && m.Type == menuType && m.IsVisible {
			return &m, nil
		}
	}
	return nil, storage.NotFoundError{Entity: "menu", Key: slug}
}

// Categories returns all categories ordered by id.
func (d *Driver) Categories(_ context.Context) ([]content.Category, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	categories := make([]content.Category, 0, len(d.categories))
	for _, c := range d.categories {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(a, b content.Category) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return categories, nil
}

// Category returns a category by id.
func (d *Driver) Category(_ context.Context, id int) (*content.Category, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.categories[id]
	if !ok {
		return nil, storage.NotFoundError{Entity: "category", Key: strconv.Itoa(id)}
	}
	return &c, nil
}

// PublishedArticles returns one page of published articles and the total
// number of matches.
func (d *Driver) PublishedArticles(_ context.Context, q storage.ArticleQuery) ([]content.Article, int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var matched []content.Article
	for _, a := range d.articles {
		if !a.IsPublished {
			continue
		}
		if q.CategoryID != nil && (a.CategoryID == nil || *a.CategoryID != *q.CategoryID) {
			continue
		}
		matched = append(matched, a)
	}
	slices.SortFunc(matched, compareArticles)

	total := len(matched)
	start := min(max(q.Offset, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}

	return slices.Clone(matched[start:end]), total, nil
}

// compareArticles orders by is_top desc, published_at desc (unset last), id desc.
func compareArticles(a, b content.Article) int {
	if a.IsTop != b.IsTop {
		if a.IsTop {
			return -1
		}
		return 1
	}

	switch {
	case a.PublishedAt == nil && b.PublishedAt != nil:
		return 1
	case a.PublishedAt != nil && b.PublishedAt == nil:
		return -1
	case a.PublishedAt != nil && b.PublishedAt != nil:
		if c := b.PublishedAt.Compare(*a.PublishedAt); c != 0 {
			return c
		}
	}

	return cmp.Compare(b.ID, a.ID)
}

// PublishedArticle returns a published article by id.
func (d *Driver) PublishedArticle(_ context.Context, id int) (*content.Article, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, ok := d.articles[id]
	if !ok || !a.IsPublished {
		return nil, storage.NotFoundError{Entity: "article", Key: strconv.Itoa(id)}
	}
	return &a, nil
}

// AdjacentArticles returns the neighbours of a within its category by
// publish time.
func (d *Driver) AdjacentArticles(_ context.Context, a *content.Article) (*content.Article, *content.Article, error) {
	if a == nil {
		return nil, nil, errors.New("cannot find neighbours of nil article")
	}
	if a.CategoryID == nil || a.PublishedAt == nil {
		return nil, nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var prev, next *content.Article
	for _, other := range d.articles {
		if !other.IsPublished || other.PublishedAt == nil ||
			other.CategoryID == nil || *other.CategoryID != *a.CategoryID {
			continue
		}

		switch {
		case other.PublishedAt.Before(*a.PublishedAt):
			if prev == nil || other.PublishedAt.After(*prev.PublishedAt) ||
				(other.PublishedAt.Equal(*prev.PublishedAt) && other.ID < prev.ID) {
				o := other
				prev = &o
			}
		case other.PublishedAt.After(*a.PublishedAt):
			if next == nil || other.PublishedAt.Before(*next.PublishedAt) ||
				(other.PublishedAt.Equal(*next.PublishedAt) && other.ID < next.ID) {
				o := other
				next = &o
			}
		}
	}

	return prev, next, nil
}

// ActiveBanners returns active banners ordered by sort.
func (d *Driver) ActiveBanners(_ context.Context) ([]content.Banner, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	banners := make([]content.Banner, 0, len(d.banners))
	for _, b := range d.banners {
		if b.IsActive {
			banners = append(banners, b)
		}
	}
	slices.SortFunc(banners, func(a, b content.Banner) int {
		return cmp.Or(cmp.Compare(a.Sort, b.Sort), cmp.Compare(a.ID, b.ID))
	})
	return banners, nil
}

// Settings returns all settings ordered by key.
func (d *Driver) Settings(_ context.Context) ([]content.Setting, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	settings := make([]content.Setting, 0, len(d.settings))
	for _, s := range d.settings {
		settings = append(settings, s)
	}
	slices.SortFunc(settings, func(a, b content.Setting) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return settings, nil
}

// IncrementViewCount adds one view to an article.
func (d *Driver) IncrementViewCount(_ context.Context, id int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.articles[id]
	if !ok {
		return 0, storage.NotFoundError{Entity: "article", Key: strconv.Itoa(id)}
	}
	a.ViewCount++
	d.articles[id] = a
	return a.ViewCount, nil
}

// CreateCategory inserts a category.
func (d *Driver) CreateCategory(_ context.Context, c *content.Category) error {
	if c == nil {
		return errors.New("cannot store nil category")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.categories {
		if existing.Slug == c.Slug {
			return storage.ConflictError{Entity: "category", Key: c.Slug}
		}
	}

	c.ID = d.id("categories")
	c.CreatedAt = d.now().UTC()
	d.categories[c.ID] = *c
	return nil
}

// CreateMenu inserts a menu.
func (d *Driver) CreateMenu(_ context.Context, m *content.Menu) error {
	if m == nil {
		return errors.New("cannot store nil menu")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.menus {
		if existing.Slug == m.Slug {
			return storage.ConflictError{Entity: "menu", Key: m.Slug}
		}
	}

	if m.Type == "" {
		m.Type = content.MenuTypePage
	}
	m.ID = d.id("menus")
	m.CreatedAt = d.now().UTC()
	d.menus[m.ID] = *m
	return nil
}

// CreateArticle inserts an article.
func (d *Driver) CreateArticle(_ context.Context, a *content.Article) error {
	if a == nil {
		return errors.New("cannot store nil article")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	a.ID = d.id("articles")
	a.CreatedAt = d.now().UTC()
	d.articles[a.ID] = *a
	return nil
}

// CreateBanner inserts a banner.
func (d *Driver) CreateBanner(_ context.Context, b *content.Banner) error {
	if b == nil {
		return errors.New("cannot store nil banner")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	b.ID = d.id("banners")
	b.CreatedAt = d.now().UTC()
	d.banners[b.ID] = *b
	return nil
}

// PutSetting inserts or replaces a setting.
func (d *Driver) PutSetting(_ context.Context, s content.Setting) error {
	if s.Key == "" {
		return errors.New("setting key is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.settings[s.Key] = s
	return nil
}

// Truncate deletes all content and restarts id sequences.
func (d *Driver) Truncate(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reset()
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}
