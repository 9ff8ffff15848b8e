// Package query turns optional list parameters into a single predicate over a record
// table and materializes it into a distinct, ordered, paginated page.
package query

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/inkwell/internal/apperr"
)

// 分页默认值，启动时可由配置覆盖
var (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SetPageLimits overrides the page size defaults; non-positive values are ignored.
func SetPageLimits(def, maxSize int) {
	if def > 0 {
		DefaultPageSize = def
	}
	if maxSize >= DefaultPageSize {
		MaxPageSize = maxSize
	}
}

// Params are the optional filters of a list request. Nil pointers mean "not given".
type Params struct {
	Search *string
	// SearchOnly marks the dedicated search entry point, where an empty term matches nothing.
	SearchOnly bool
	TagName    *string
	TagSlug    *string
	AuthorID   *string
	FollowedBy *string
	// Ordering is a field name, prefixed with "-" for descending.
	Ordering string
	Page     int
	PageSize int
}

// Ordering is a validated sort key.
type Ordering struct {
	Column string
	Desc   bool
}

// Clause is one AND-ed condition of the predicate.
type Clause func(db *gorm.DB) *gorm.DB

// Spec is a built query: predicate, ordering and page window.
type Spec struct {
	schema   Schema
	clauses  []Clause
	empty    bool
	Order    Ordering
	Page     int
	PageSize int
}

// Build validates p against schema and composes the predicate.
func Build(schema Schema, p Params) (*Spec, error) {
	order, err := ParseOrdering(schema, p.Ordering)
	if err != nil {
		return nil, err
	}
	page, size, err := normalizePage(p.Page, p.PageSize)
	if err != nil {
		return nil, err
	}
	s := &Spec{schema: schema, Order: order, Page: page, PageSize: size}

	term := ""
	if p.Search != nil {
		term = strings.TrimSpace(*p.Search)
	}
	switch {
	case term != "":
		s.clauses = append(s.clauses, searchClause(schema, term))
	case p.SearchOnly:
		s.empty = true
	}

	if p.TagName != nil || p.TagSlug != nil {
		if schema.Tags == nil {
			return nil, apperr.InvalidQuery("%s cannot be filtered by tag", schema.Table)
		}
		if p.TagName != nil {
			s.clauses = append(s.clauses, tagClause(schema, "name", *p.TagName))
		}
		if p.TagSlug != nil {
			s.clauses = append(s.clauses, tagClause(schema, "slug", *p.TagSlug))
		}
	}

	if p.AuthorID != nil {
		if schema.OwnerColumn == "" {
			return nil, apperr.InvalidQuery("%s cannot be filtered by author", schema.Table)
		}
		col := schema.col(schema.OwnerColumn)
		id := *p.AuthorID
		s.clauses = append(s.clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where(col+" = ?", id)
		})
	}

	if p.FollowedBy != nil {
		if !schema.Follows {
			return nil, apperr.InvalidQuery("%s cannot be filtered by followed users", schema.Table)
		}
		col := schema.col(schema.OwnerColumn)
		actor := *p.FollowedBy
		s.clauses = append(s.clauses, func(db *gorm.DB) *gorm.DB {
			return db.Where(col+" IN (SELECT followee_id FROM follows WHERE follower_id = ?)", actor)
		})
	}
	return s, nil
}

// MatchesNothing reports whether the predicate is the empty set.
func (s *Spec) MatchesNothing() bool { return s.empty }

// Offset of the first record on the requested page.
func (s *Spec) Offset() int { return Offset(s.Page, s.PageSize) }

// maxOffset 超出即视为越界空页，避免 (page-1)*size 溢出为负数
const maxOffset = math.MaxInt32

// Offset returns (page-1)*size, saturated at maxOffset so that a huge page number lands
// past the end instead of wrapping around to a negative offset.
func Offset(page, size int) int {
	if page <= 1 || size <= 0 {
		return 0
	}
	if page-1 > maxOffset/size {
		return maxOffset
	}
	return (page - 1) * size
}

// Where applies the AND of all clauses. It is a gorm scope.
func (s *Spec) Where(db *gorm.DB) *gorm.DB {
	for _, c := range s.clauses {
		db = c(db)
	}
	return db
}

// OrderBy applies the ordering with id ascending as tie breaker. It is a gorm scope.
func (s *Spec) OrderBy(db *gorm.DB) *gorm.DB {
	cols := []clause.OrderByColumn{
		{Column: clause.Column{Table: s.schema.Table, Name: s.Order.Column}, Desc: s.Order.Desc},
	}
	if s.Order.Column != "id" {
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Table: s.schema.Table, Name: "id"}})
	}
	return db.Clauses(clause.OrderBy{Columns: cols})
}

// ParseOrdering resolves "field" or "-field" against the schema allow-list.
// An empty value yields the schema default.
func ParseOrdering(schema Schema, raw string) (Ordering, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return schema.DefaultOrder, nil
	}
	desc := strings.HasPrefix(raw, "-")
	key := strings.ToLower(strings.TrimPrefix(raw, "-"))
	col, ok := schema.Orderings[key]
	if !ok {
		return Ordering{}, apperr.InvalidQuery("ordering %q not allowed, use one of %s",
			raw, strings.Join(allowedOrderings(schema), ", "))
	}
	return Ordering{Column: col, Desc: desc}, nil
}

// ParsePaging parses raw page and page_size values; empty strings take defaults.
func ParsePaging(rawPage, rawSize string) (page, size int, err error) {
	if rawPage != "" {
		if page, err = strconv.Atoi(rawPage); err != nil {
			return 0, 0, apperr.InvalidQuery("page %q is not a number", rawPage)
		}
		if page < 1 {
			return 0, 0, apperr.InvalidQuery("page must be >= 1")
		}
	}
	if rawSize != "" {
		if size, err = strconv.Atoi(rawSize); err != nil {
			return 0, 0, apperr.InvalidQuery("page_size %q is not a number", rawSize)
		}
		if size < 1 {
			return 0, 0, apperr.InvalidQuery("page_size must be >= 1")
		}
	}
	return normalizePage(page, size)
}

func normalizePage(page, size int) (int, int, error) {
	if page < 0 || size < 0 {
		return 0, 0, apperr.InvalidQuery("page and page_size must be positive")
	}
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		return 0, 0, apperr.InvalidQuery("page_size must be <= %d", MaxPageSize)
	}
	return page, size, nil
}

func searchClause(schema Schema, term string) Clause {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	parts := make([]string, 0, len(schema.SearchColumns)+1)
	args := make([]any, 0, len(schema.SearchColumns)+1)
	for _, c := range schema.SearchColumns {
		parts = append(parts, "LOWER("+schema.col(c)+") LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	if t := schema.Tags; t != nil {
		parts = append(parts, "EXISTS (SELECT 1 FROM "+t.JoinTable+
			" JOIN "+t.TagTable+" ON "+t.TagTable+".id = "+t.JoinTable+"."+t.TagKey+
			" WHERE "+t.JoinTable+"."+t.RecordKey+" = "+schema.col("id")+
			" AND LOWER("+t.TagTable+".name) LIKE ? ESCAPE '\\')")
		args = append(args, pattern)
	}
	expr := "(" + strings.Join(parts, " OR ") + ")"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(expr, args...)
	}
}

func tagClause(schema Schema, field, value string) Clause {
	t := schema.Tags
	expr := schema.col("id") + " IN (SELECT " + t.JoinTable + "." + t.RecordKey +
		" FROM " + t.JoinTable + " JOIN " + t.TagTable + " ON " + t.TagTable + ".id = " + t.JoinTable + "." + t.TagKey +
		" WHERE " + t.TagTable + "." + field + " = ?)"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(expr, value)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s Schema) col(name string) string { return s.Table + "." + name }

func allowedOrderings(schema Schema) []string {
	keys := make([]string, 0, len(schema.Orderings))
	for k := range schema.Orderings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
