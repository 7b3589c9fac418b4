// Package seed populates a store with the association site's initial content.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/storage"
)

// Result counts what Seed created.
type Result struct {
	Skipped    bool
	Categories int
	Menus      int
	Articles   int
	Banners    int
	Settings   int
}

// Seed writes the initial site content into driver.
//
// A store that already has settings is considered seeded and is left alone
// unless force is set, in which case all existing content is removed first.
// Article publish times are spread backwards from now.
func Seed(ctx context.Context, driver storage.Driver, force bool, now time.Time) (Result, error) {
	hasData, err := hasExistingData(ctx, driver)
	if err != nil {
		return Result{}, err
	}

	if hasData {
		if !force {
			return Result{Skipped: true}, nil
		}
		if err := driver.Truncate(ctx); err != nil {
			return Result{}, fmt.Errorf("clearing existing content: %w", err)
		}
	}

	var res Result

	categoryIDs := make(map[string]int)
	for _, c := range siteCategories() {
		if err := driver.CreateCategory(ctx, &c); err != nil {
			return res, err
		}
		categoryIDs[c.Slug] = c.ID
		res.Categories++
	}

	menuIDs := make(map[string]int)
	for _, sm := range siteMenus() {
		m := sm.menu
		if sm.parent != "" {
			id, ok := menuIDs[sm.parent]
			if !ok {
				return res, fmt.Errorf("menu %q: unknown parent %q", m.Slug, sm.parent)
			}
			m.ParentID = &id
		}
		if sm.category != "" {
			id, ok := categoryIDs[sm.category]
			if !ok {
				return res, fmt.Errorf("menu %q: unknown category %q", m.Slug, sm.category)
			}
			m.CategoryID = &id
		}
		m.IsVisible = true

		if err := driver.CreateMenu(ctx, &m); err != nil {
			return res, err
		}
		menuIDs[m.Slug] = m.ID
		res.Menus++
	}

	for i, sa := range siteArticles() {
		categoryID, ok := categoryIDs[sa.category]
		if !ok {
			return res, fmt.Errorf("article %q: unknown category %q", sa.title, sa.category)
		}

		publishedAt := now.UTC().Add(-time.Duration(i*3*24) * time.Hour)
		a := content.Article{
			Title:       sa.title,
			Slug:        content.Ptr(fmt.Sprintf("article-%d", i+1)),
			Cover:       content.Ptr("/uploads/default-cover.jpg"),
			Summary:     content.Ptr(fmt.Sprintf("这是《%s》的摘要内容，详细介绍了相关事项的背景、目的和主要内容...", sa.title)),
			Content:     content.Ptr(fmt.Sprintf(articleBody, sa.title)),
			CategoryID:  &categoryID,
			IsPublished: true,
			IsTop:       sa.top,
			ViewCount:   100 + i*50,
			PublishedAt: &publishedAt,
		}
		if err := driver.CreateArticle(ctx, &a); err != nil {
			return res, err
		}
		res.Articles++
	}

	for _, b := range siteBanners() {
		if err := driver.CreateBanner(ctx, &b); err != nil {
			return res, err
		}
		res.Banners++
	}

	for _, s := range siteSettings() {
		if err := driver.PutSetting(ctx, s); err != nil {
			return res, err
		}
		res.Settings++
	}

	return res, nil
}

func hasExistingData(ctx context.Context, driver storage.Driver) (bool, error) {
	settings, err := driver.Settings(ctx)
	if err != nil {
		return false, fmt.Errorf("checking for existing content: %w", err)
	}
	return len(settings) > 0, nil
}
