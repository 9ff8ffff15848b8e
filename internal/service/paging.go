package service

import "github.com/d60-Lab/inkwell/internal/query"

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = query.DefaultPageSize
	}
	if pageSize > query.MaxPageSize {
		pageSize = query.MaxPageSize
	}
	return page, pageSize
}

func pageOf[T any](items []T, total int64, page, pageSize int) *query.Page[T] {
	if items == nil {
		items = []T{}
	}
	offset := query.Offset(page, pageSize)
	return &query.Page[T]{
		Items:       items,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		HasNext:     int64(offset+len(items)) < total,
		HasPrevious: page > 1,
	}
}
