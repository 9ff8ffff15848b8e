package query

// Schema describes how a record table is filtered and ordered.
type Schema struct {
	Table string
	// SearchColumns are matched case-insensitively by the search clause.
	SearchColumns []string
	// Tags is nil when records carry no tags.
	Tags *TagJoin
	// OwnerColumn backs the author filter and the followed-by filter.
	OwnerColumn string
	// Follows enables the followed-by filter on OwnerColumn.
	Follows bool
	// Orderings maps public ordering names onto columns of Table.
	Orderings    map[string]string
	DefaultOrder Ordering
}

// TagJoin names the many-to-many join between records and tags.
type TagJoin struct {
	JoinTable string
	RecordKey string
	TagKey    string
	TagTable  string
}

// Posts is the schema of blog/social posts.
var Posts = Schema{
	Table:         "posts",
	SearchColumns: []string{"title", "content"},
	Tags: &TagJoin{
		JoinTable: "post_tags",
		RecordKey: "post_id",
		TagKey:    "tag_id",
		TagTable:  "tags",
	},
	OwnerColumn: "author_id",
	Follows:     true,
	Orderings: map[string]string{
		"title":            "title",
		"created_at":       "created_at",
		"publication_date": "created_at",
		"updated_at":       "updated_at",
	},
	DefaultOrder: Ordering{Column: "created_at", Desc: true},
}

// Books is the schema of the bookshelf.
var Books = Schema{
	Table:         "books",
	SearchColumns: []string{"title"},
	OwnerColumn:   "writer_id",
	Orderings: map[string]string{
		"title":            "title",
		"publication_year": "publication_year",
	},
	DefaultOrder: Ordering{Column: "title"},
}
