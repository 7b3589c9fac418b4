package content

import "time"

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MenuNode is a menu with its visible children.
type MenuNode struct {
	Menu
	CategoryName *string     `json:"category_name"`
	Children     []*MenuNode `json:"children"`
}

// PageResponse is a single page.
type PageResponse struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	Content *string `json:"content"`
}

// CategorySummary is the category header of a listing.
type CategorySummary struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// ArticleListItem is an article in a category listing.
type ArticleListItem struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        *string    `json:"slug"`
	Cover       *string    `json:"cover"`
	Summary     *string    `json:"summary"`
	IsTop       bool       `json:"is_top"`
	ViewCount   int        `json:"view_count"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CategoryArticlesResponse is one page of a category listing.
type CategoryArticlesResponse struct {
	Category   CategorySummary   `json:"category"`
	Items      []ArticleListItem `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// LatestArticle is an article in the home page feed.
type LatestArticle struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Slug         *string    `json:"slug"`
	Cover        *string    `json:"cover"`
	Summary      *string    `json:"summary"`
	CategoryID   *int       `json:"category_id"`
	CategoryName *string    `json:"category_name"`
	IsTop        bool       `json:"is_top"`
	ViewCount    int        `json:"view_count"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ArticleRef links to a neighbouring article.
type ArticleRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// ArticleDetail is a full article with its neighbours in the same category.
type ArticleDetail struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Slug         *string     `json:"slug"`
	Cover        *string     `json:"cover"`
	Summary      *string     `json:"summary"`
	Content      *string     `json:"content"`
	CategoryID   *int        `json:"category_id"`
	CategoryName *string     `json:"category_name"`
	IsTop        bool        `json:"is_top"`
	ViewCount    int         `json:"view_count"`
	PublishedAt  *time.Time  `json:"published_at"`
	CreatedAt    time.Time   `json:"created_at"`
	PrevArticle  *ArticleRef `json:"prev_article"`
	NextArticle  *ArticleRef `json:"next_article"`
}
