// Package schema declares the content tables for ent's schema migration.
package schema

import (
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// textSize makes string columns unbounded TEXT.
const textSize = 2147483647

var (
	// CategoriesColumns holds the columns for the "categories" table.
	CategoriesColumns = []*entschema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 100},
		{Name: "slug", Type: field.TypeString, Unique: true, Size: 100},
		{Name: "description", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
	}
	// CategoriesTable holds the schema information for the "categories" table.
	CategoriesTable = &entschema.Table{
		Name:       "categories",
		Columns:    CategoriesColumns,
		PrimaryKey: []*entschema.Column{CategoriesColumns[0]},
	}

	// MenusColumns holds the columns for the "menus" table.
	MenusColumns = []*entschema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 100},
		{Name: "slug", Type: field.TypeString, Unique: true, Size: 100},
		{Name: "type", Type: field.TypeEnum, Enums: []string{"page", "category"}, Default: "page"},
		{Name: "page_content", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "sort", Type: field.TypeInt, Default: 0},
		{Name: "is_visible", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "parent_id", Type: field.TypeInt, Nullable: true},
		{Name: "category_id", Type: field.TypeInt, Nullable: true},
	}
	// MenusTable holds the schema information for the "menus" table.
	MenusTable = &entschema.Table{
		Name:       "menus",
		Columns:    MenusColumns,
		PrimaryKey: []*entschema.Column{MenusColumns[0]},
		ForeignKeys: []*entschema.ForeignKey{
			{
				Symbol:     "menus_menus_children",
				Columns:    []*entschema.Column{MenusColumns[8]},
				RefColumns: []*entschema.Column{MenusColumns[0]},
				OnDelete:   entschema.SetNull,
			},
			{
				Symbol:     "menus_categories_menus",
				Columns:    []*entschema.Column{MenusColumns[9]},
				RefColumns: []*entschema.Column{CategoriesColumns[0]},
				OnDelete:   entschema.SetNull,
			},
		},
		Indexes: []*entschema.Index{
			{
				Name:    "menu_is_visible_sort",
				Unique:  false,
				Columns: []*entschema.Column{MenusColumns[6], MenusColumns[5]},
			},
		},
	}

	// ArticlesColumns holds the columns for the "articles" table.
	ArticlesColumns = []*entschema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "title", Type: field.TypeString, Size: 200},
		{Name: "slug", Type: field.TypeString, Nullable: true, Size: 200},
		{Name: "cover", Type: field.TypeString, Nullable: true, Size: 500},
		{Name: "summary", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "content", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "is_published", Type: field.TypeBool, Default: false},
		{Name: "is_top", Type: field.TypeBool, Default: false},
		{Name: "view_count", Type: field.TypeInt, Default: 0},
		{Name: "published_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime, Nullable: true},
		{Name: "category_id", Type: field.TypeInt, Nullable: true},
	}
	// ArticlesTable holds the schema information for the "articles" table.
	ArticlesTable = &entschema.Table{
		Name:       "articles",
		Columns:    ArticlesColumns,
		PrimaryKey: []*entschema.Column{ArticlesColumns[0]},
		ForeignKeys: []*entschema.ForeignKey{
			{
				Symbol:     "articles_categories_articles",
				Columns:    []*entschema.Column{ArticlesColumns[12]},
				RefColumns: []*entschema.Column{CategoriesColumns[0]},
				OnDelete:   entschema.SetNull,
			},
		},
		Indexes: []*entschema.Index{
			{
				Name:    "article_slug",
				Unique:  false,
				Columns: []*entschema.Column{ArticlesColumns[2]},
			},
			{
				Name:    "article_category_id_is_published_published_at",
				Unique:  false,
				Columns: []*entschema.Column{ArticlesColumns[12], ArticlesColumns[6], ArticlesColumns[9]},
			},
		},
	}

	// BannersColumns holds the columns for the "banners" table.
	BannersColumns = []*entschema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "title", Type: field.TypeString, Nullable: true, Size: 200},
		{Name: "image", Type: field.TypeString, Size: 500},
		{Name: "link", Type: field.TypeString, Nullable: true, Size: 500},
		{Name: "sort", Type: field.TypeInt, Default: 0},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// BannersTable holds the schema information for the "banners" table.
	BannersTable = &entschema.Table{
		Name:       "banners",
		Columns:    BannersColumns,
		PrimaryKey: []*entschema.Column{BannersColumns[0]},
	}

	// SettingsColumns holds the columns for the "settings" table.
	SettingsColumns = []*entschema.Column{
		{Name: "key", Type: field.TypeString, Size: 50},
		{Name: "value", Type: field.TypeString, Nullable: true, Size: textSize},
	}
	// SettingsTable holds the schema information for the "settings" table.
	SettingsTable = &entschema.Table{
		Name:       "settings",
		Columns:    SettingsColumns,
		PrimaryKey: []*entschema.Column{SettingsColumns[0]},
	}

	// Tables holds all the tables in the schema, parents before children.
	Tables = []*entschema.Table{
		CategoriesTable,
		MenusTable,
		ArticlesTable,
		BannersTable,
		SettingsTable,
	}
)

func init() {
	MenusTable.ForeignKeys[0].RefTable = MenusTable
	MenusTable.ForeignKeys[1].RefTable = CategoriesTable
	ArticlesTable.ForeignKeys[0].RefTable = CategoriesTable
}
