package query

import (
	"context"

	"gorm.io/gorm"
)

// Page is one window of a materialized result.
type Page[T any] struct {
	Items       []T
	Total       int64
	Page        int
	PageSize    int
	HasNext     bool
	HasPrevious bool
}

// Materialize runs spec against the table of T.
//
// Tag and follow clauses are semi-joins, so every record is counted and returned at most
// once. Count and fetch share one transaction. A page past the end is empty, not an error.
func Materialize[T any](ctx context.Context, db *gorm.DB, spec *Spec, preloads ...string) (*Page[T], error) {
	page := &Page[T]{
		Items:       []T{},
		Page:        spec.Page,
		PageSize:    spec.PageSize,
		HasPrevious: spec.Page > 1,
	}
	if spec.MatchesNothing() {
		return page, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m T
		if err := tx.Model(&m).Scopes(spec.Where).Count(&page.Total).Error; err != nil {
			return err
		}
		if int64(spec.Offset()) >= page.Total {
			return nil
		}
		q := tx.Model(&m).Scopes(spec.Where, spec.OrderBy)
		for _, p := range preloads {
			q = q.Preload(p)
		}
		return q.Offset(spec.Offset()).Limit(spec.PageSize).Find(&page.Items).Error
	})
	if err != nil {
		return nil, err
	}
	page.HasNext = int64(spec.Offset()+len(page.Items)) < page.Total
	return page, nil
}

// WithItems returns a page with the window of p and the given items.
func WithItems[T, U any](p *Page[T], items []U) *Page[U] {
	return &Page[U]{
		Items:       items,
		Total:       p.Total,
		Page:        p.Page,
		PageSize:    p.PageSize,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}
