// Package entdriver implements storage.Driver on top of ent's SQL builder. It
// is dialect-agnostic and is embedded by the sqlite and postgres drivers.
package entdriver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	entschema "entgo.io/ent/dialect/sql/schema"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/storage"
	"github.com/sxpeea/sxpeea/pkg/storage/ent/schema"
)

var (
	menuColumns     = []string{"id", "name", "slug", "parent_id", "type", "page_content", "category_id", "sort", "is_visible", "created_at"}
	categoryColumns = []string{"id", "name", "slug", "description", "created_at"}
	articleColumns  = []string{"id", "title", "slug", "cover", "summary", "content", "category_id", "is_published", "is_top", "view_count", "published_at", "created_at", "updated_at"}
	bannerColumns   = []string{"id", "title", "image", "link", "sort", "is_active", "created_at"}
)

// EntDriver provides storage operations over a database/sql connection using
// ent's dialect-aware query builder.
type EntDriver struct {
	DB      *sql.DB
	Dialect string

	now func() time.Time
}

var _ storage.Driver = (*EntDriver)(nil)

// New wraps db and creates or upgrades the content schema. The dialect is one
// of ent's dialect names (dialect.SQLite, dialect.Postgres).
func New(ctx context.Context, db *sql.DB, dialectName string) (*EntDriver, error) {
	migrate, err := entschema.NewMigrate(entsql.OpenDB(dialectName, db))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	// Append-only: creates missing tables, columns and indexes.
	if err := migrate.Create(ctx, schema.Tables...); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &EntDriver{
		DB:      db,
		Dialect: dialectName,
		now:     time.Now,
	}, nil
}

func (ed *EntDriver) builder() *entsql.DialectBuilder {
	return entsql.Dialect(ed.Dialect)
}

// VisibleMenus returns all visible menus ordered by sort.
func (ed *EntDriver) VisibleMenus(ctx context.Context) ([]content.Menu, error) {
	query, args := ed.builder().
		Select(menuColumns...).
		From(entsql.Table(schema.MenusTable.Name)).
		Where(entsql.EQ("is_visible", true)).
		OrderBy("sort", "id").
		Query()

	rows, err := ed.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}
	defer rows.Close()

	var menus []content.Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, *m)
	}
	return menus, rows.Err()
}

// VisibleMenu returns the visible menu with the given slug and type.
func (ed *EntDriver) VisibleMenu(ctx context.Context, slug string, menuType content.MenuType) (*content.Menu, error) {
	query, args := ed.builder().
		Select(menuColumns...).
		From(entsql.Table(schema.MenusTable.Name)).
		Where(entsql.And(
			entsql.EQ("slug", slug),
			entsql.EQ("type", string(menuType)),
			entsql.EQ("is_visible", true),
		)).
		Limit(1).
		Query()

	m, err := scanMenu(ed.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{Entity: "menu", Key: slug}
	}
	return m, err
}

// Categories returns all categories ordered by id.
func (ed *EntDriver) Categories(ctx context.Context) ([]content.Category, error) {
	query, args := ed.builder().
		Select(categoryColumns...).
		From(entsql.Table(schema.CategoriesTable.Name)).
		OrderBy("id").
		Query()

	rows, err := ed.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []content.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// Category returns a category by id.
func (ed *EntDriver) Category(ctx context.Context, id int) (*content.Category, error) {
	query, args := ed.builder().
		Select(categoryColumns...).
		From(entsql.Table(schema.CategoriesTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	c, err := scanCategory(ed.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{Entity: "category", Key: strconv.Itoa(id)}
	}
	return c, err
}

func publishedPredicate(categoryID *int) *entsql.Predicate {
	if categoryID == nil {
		return entsql.EQ("is_published", true)
	}
	return entsql.And(
		entsql.EQ("is_published", true),
		entsql.EQ("category_id", *categoryID),
	)
}

// PublishedArticles returns one page of published articles and the total
// number of matches.
func (ed *EntDriver) PublishedArticles(ctx context.Context, q storage.ArticleQuery) ([]content.Article, int, error) {
	countQuery, countArgs := ed.builder().
		Select(entsql.Count("*")).
		From(entsql.Table(schema.ArticlesTable.Name)).
		Where(publishedPredicate(q.CategoryID)).
		Query()

	var total int
	if err := ed.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	sel := ed.builder().
		Select(articleColumns...).
		From(entsql.Table(schema.ArticlesTable.Name)).
		Where(publishedPredicate(q.CategoryID)).
		OrderBy(entsql.Desc("is_top")).
		// Dialects disagree on where NULLs sort; unpublished-time rows go last.
		OrderExpr(entsql.Expr("published_at IS NULL")).
		OrderBy(entsql.Desc("published_at"), entsql.Desc("id"))

	if q.Limit > 0 {
		sel.Limit(q.Limit)
		if q.Offset > 0 {
			sel.Offset(q.Offset)
		}
	}

	query, args := sel.Query()
	rows, err := ed.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []content.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read articles: %w", err)
	}

	return articles, total, nil
}

// PublishedArticle returns a published article by id.
func (ed *EntDriver) PublishedArticle(ctx context.Context, id int) (*content.Article, error) {
	query, args := ed.builder().
		Select(articleColumns...).
		From(entsql.Table(schema.ArticlesTable.Name)).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("is_published", true),
		)).
		Query()

	a, err := scanArticle(ed.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{Entity: "article", Key: strconv.Itoa(id)}
	}
	return a, err
}

// AdjacentArticles returns the neighbours of a within its category by
// publish time.
func (ed *EntDriver) AdjacentArticles(ctx context.Context, a *content.Article) (*content.Article, *content.Article, error) {
	if a == nil {
		return nil, nil, errors.New("cannot find neighbours of nil article")
	}
	if a.CategoryID == nil || a.PublishedAt == nil {
		return nil, nil, nil
	}

	neighbour := func(cmp *entsql.Predicate, order string) (*content.Article, error) {
		query, args := ed.builder().
			Select(articleColumns...).
			From(entsql.Table(schema.ArticlesTable.Name)).
			Where(entsql.And(
				entsql.EQ("category_id", *a.CategoryID),
				entsql.EQ("is_published", true),
				cmp,
			)).
			OrderBy(order, "id").
			Limit(1).
			Query()

		n, err := scanArticle(ed.DB.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return n, err
	}

	prev, err := neighbour(entsql.LT("published_at", *a.PublishedAt), entsql.Desc("published_at"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query previous article: %w", err)
	}

	next, err := neighbour(entsql.GT("published_at", *a.PublishedAt), entsql.Asc("published_at"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query next article: %w", err)
	}

	return prev, next, nil
}

// ActiveBanners returns active banners ordered by sort.
func (ed *EntDriver) ActiveBanners(ctx context.Context) ([]content.Banner, error) {
	query, args := ed.builder().
		Select(bannerColumns...).
		From(entsql.Table(schema.BannersTable.Name)).
		Where(entsql.EQ("is_active", true)).
		OrderBy("sort", "id").
		Query()

	rows, err := ed.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query banners: %w", err)
	}
	defer rows.Close()

	var banners []content.Banner
	for rows.Next() {
		var (
			b           content.Banner
			title, link sql.NullString
		)
		if err := rows.Scan(&b.ID, &title, &b.Image, &link, &b.Sort, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}
		b.Title = nullString(title)
		b.Link = nullString(link)
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

// Settings returns all settings ordered by key.
func (ed *EntDriver) Settings(ctx context.Context) ([]content.Setting, error) {
	query, args := ed.builder().
		Select("key", "value").
		From(entsql.Table(schema.SettingsTable.Name)).
		OrderBy("key").
		Query()

	rows, err := ed.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var settings []content.Setting
	for rows.Next() {
		var (
			s     content.Setting
			value sql.NullString
		)
		if err := rows.Scan(&s.Key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		s.Value = nullString(value)
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// IncrementViewCount adds one view to an article.
func (ed *EntDriver) IncrementViewCount(ctx context.Context, id int) (int, error) {
	query, args := ed.builder().
		Update(schema.ArticlesTable.Name).
		Add("view_count", 1).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := ed.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to increment view count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, storage.NotFoundError{Entity: "article", Key: strconv.Itoa(id)}
	}

	query, args = ed.builder().
		Select("view_count").
		From(entsql.Table(schema.ArticlesTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var count int
	if err := ed.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to read view count: %w", err)
	}
	return count, nil
}

// CreateCategory inserts a category.
func (ed *EntDriver) CreateCategory(ctx context.Context, c *content.Category) error {
	if c == nil {
		return errors.New("cannot store nil category")
	}

	c.CreatedAt = ed.now().UTC()
	id, err := ed.insert(ctx, ed.builder().
		Insert(schema.CategoriesTable.Name).
		Columns("name", "slug", "description", "created_at").
		Values(c.Name, c.Slug, c.Description, c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create category %q: %w", c.Slug, err)
	}

	c.ID = id
	return nil
}

// CreateMenu inserts a menu.
func (ed *EntDriver) CreateMenu(ctx context.Context, m *content.Menu) error {
	if m == nil {
		return errors.New("cannot store nil menu")
	}

	if m.Type == "" {
		m.Type = content.MenuTypePage
	}
	m.CreatedAt = ed.now().UTC()
	id, err := ed.insert(ctx, ed.builder().
		Insert(schema.MenusTable.Name).
		Columns("name", "slug", "parent_id", "type", "page_content", "category_id", "sort", "is_visible", "created_at").
		Values(m.Name, m.Slug, m.ParentID, string(m.Type), m.PageContent, m.CategoryID, m.Sort, m.IsVisible, m.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create menu %q: %w", m.Slug, err)
	}

	m.ID = id
	return nil
}

// CreateArticle inserts an article.
func (ed *EntDriver) CreateArticle(ctx context.Context, a *content.Article) error {
	if a == nil {
		return errors.New("cannot store nil article")
	}

	a.CreatedAt = ed.now().UTC()
	id, err := ed.insert(ctx, ed.builder().
		Insert(schema.ArticlesTable.Name).
		Columns("title", "slug", "cover", "summary", "content", "category_id", "is_published", "is_top", "view_count", "published_at", "created_at", "updated_at").
		Values(a.Title, a.Slug, a.Cover, a.Summary, a.Content, a.CategoryID, a.IsPublished, a.IsTop, a.ViewCount, utcPtr(a.PublishedAt), a.CreatedAt, utcPtr(a.UpdatedAt)))
	if err != nil {
		return fmt.Errorf("failed to create article %q: %w", a.Title, err)
	}

	a.ID = id
	return nil
}

// CreateBanner inserts a banner.
func (ed *EntDriver) CreateBanner(ctx context.Context, b *content.Banner) error {
	if b == nil {
		return errors.New("cannot store nil banner")
	}

	b.CreatedAt = ed.now().UTC()
	id, err := ed.insert(ctx, ed.builder().
		Insert(schema.BannersTable.Name).
		Columns("title", "image", "link", "sort", "is_active", "created_at").
		Values(b.Title, b.Image, b.Link, b.Sort, b.IsActive, b.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}

	b.ID = id
	return nil
}

// PutSetting inserts or replaces a setting.
func (ed *EntDriver) PutSetting(ctx context.Context, s content.Setting) error {
	if s.Key == "" {
		return errors.New("setting key is required")
	}

	query, args := ed.builder().
		Insert(schema.SettingsTable.Name).
		Columns("key", "value").
		Values(s.Key, s.Value).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := ed.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to put setting %q: %w", s.Key, err)
	}
	return nil
}

// Truncate deletes all content, children before parents.
func (ed *EntDriver) Truncate(ctx context.Context) error {
	tx, err := ed.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range []string{
		schema.ArticlesTable.Name,
		schema.MenusTable.Name,
		schema.BannersTable.Name,
		schema.SettingsTable.Name,
		schema.CategoriesTable.Name,
	} {
		query, args := ed.builder().Delete(t).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", t, err)
		}
	}

	return tx.Commit()
}

// Close closes the underlying database connection.
func (ed *EntDriver) Close() error {
	return ed.DB.Close()
}

// insert runs an insert and returns the generated id. PostgreSQL reports it
// through RETURNING, other dialects through LastInsertId.
func (ed *EntDriver) insert(ctx context.Context, ins *entsql.InsertBuilder) (int, error) {
	if ed.Dialect == dialect.Postgres {
		query, args := ins.Returning("id").Query()
		var id int
		if err := ed.DB.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args := ins.Query()
	res, err := ed.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenu(r rowScanner) (*content.Menu, error) {
	var (
		m                    content.Menu
		parentID, categoryID sql.NullInt64
		pageContent          sql.NullString
		menuType             string
	)
	err := r.Scan(&m.ID, &m.Name, &m.Slug, &parentID, &menuType, &pageContent, &categoryID, &m.Sort, &m.IsVisible, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan menu: %w", err)
	}

	m.Type = content.MenuType(menuType)
	m.ParentID = nullInt(parentID)
	m.CategoryID = nullInt(categoryID)
	m.PageContent = nullString(pageContent)
	return &m, nil
}

func scanCategory(r rowScanner) (*content.Category, error) {
	var (
		c           content.Category
		description sql.NullString
	)
	if err := r.Scan(&c.ID, &c.Name, &c.Slug, &description, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	c.Description = nullString(description)
	return &c, nil
}

func scanArticle(r rowScanner) (*content.Article, error) {
	var (
		a                          content.Article
		slug, cover, summary, body sql.NullString
		categoryID                 sql.NullInt64
		publishedAt, updatedAt     sql.NullTime
	)
	err := r.Scan(&a.ID, &a.Title, &slug, &cover, &summary, &body, &categoryID,
		&a.IsPublished, &a.IsTop, &a.ViewCount, &publishedAt, &a.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}

	a.Slug = nullString(slug)
	a.Cover = nullString(cover)
	a.Summary = nullString(summary)
	a.Content = nullString(body)
	a.CategoryID = nullInt(categoryID)
	a.PublishedAt = nullTime(publishedAt)
	a.UpdatedAt = nullTime(updatedAt)
	return &a, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
