// Package content defines the site's content entities and the response shapes
// of the public content API.
package content

import "time"

// MenuType is what a menu entry links to.
type MenuType string

const (
	// MenuTypePage menus carry their own page content.
	MenuTypePage MenuType = "page"

	// MenuTypeCategory menus list the articles of a category.
	MenuTypeCategory MenuType = "category"
)

// Menu is a navigation entry. Menus form a tree through ParentID.
type Menu struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	ParentID    *int      `json:"parent_id"`
	Type        MenuType  `json:"type"`
	PageContent *string   `json:"page_content"`
	CategoryID  *int      `json:"category_id"`
	Sort        int       `json:"sort"`
	IsVisible   bool      `json:"is_visible"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category groups articles.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Article is a news item or notice.
type Article struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        *string    `json:"slug"`
	Cover       *string    `json:"cover"`
	Summary     *string    `json:"summary"`
	Content     *string    `json:"content"`
	CategoryID  *int       `json:"category_id"`
	IsPublished bool       `json:"is_published"`
	IsTop       bool       `json:"is_top"`
	ViewCount   int        `json:"view_count"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Banner is a home page carousel slide.
type Banner struct {
	ID        int       `json:"id"`
	Title     *string   `json:"title"`
	Image     string    `json:"image"`
	Link      *string   `json:"link"`
	Sort      int       `json:"sort"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Setting is a site-wide key/value pair.
type Setting struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// Ptr returns a pointer to v. It keeps literals of optional fields short.
func Ptr[T any](v T) *T {
	return &v
}
