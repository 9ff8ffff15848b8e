package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
)

type WriterRepository interface {
	WithTx(tx *gorm.DB) WriterRepository
	Create(ctx context.Context, w *model.Writer) error
	Get(ctx context.Context, id string, withBooks bool) (*model.Writer, error)
	Update(ctx context.Context, w *model.Writer) error
	// Delete removes the writer together with their books.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*model.Writer, int64, error)
}

type BookRepository interface {
	WithTx(tx *gorm.DB) BookRepository
	Create(ctx context.Context, b *model.Book) error
	Get(ctx context.Context, id string) (*model.Book, error)
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, spec *query.Spec) (*query.Page[model.Book], error)
}

type writerRepository struct{ db *gorm.DB }

func NewWriterRepository(db *gorm.DB) WriterRepository { return &writerRepository{db: db} }

func (r *writerRepository) WithTx(tx *gorm.DB) WriterRepository { return &writerRepository{db: tx} }

func (r *writerRepository) Create(ctx context.Context, w *model.Writer) error {
	return r.db.WithContext(ctx).Omit("Books").Create(w).Error
}

func (r *writerRepository) Get(ctx context.Context, id string, withBooks bool) (*model.Writer, error) {
	q := r.db.WithContext(ctx)
	if withBooks {
		q = q.Preload("Books", func(db *gorm.DB) *gorm.DB { return db.Order("publication_year").Order("id") })
	}
	var w model.Writer
	if err := q.Where("id = ?", id).First(&w).Error; err != nil {
		return nil, notFound(err, "writer", id)
	}
	return &w, nil
}

func (r *writerRepository) Update(ctx context.Context, w *model.Writer) error {
	return r.db.WithContext(ctx).Model(w).Select("name").Updates(w).Error
}

func (r *writerRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("writer_id = ?", id).Delete(&model.Book{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Writer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "writer", id)
	}
	return nil
}

func (r *writerRepository) List(ctx context.Context, offset, limit int) ([]*model.Writer, int64, error) {
	offset, limit = window(offset, limit)
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Writer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	res := []*model.Writer{}
	err := r.db.WithContext(ctx).Order("name").Order("id").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

type bookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) BookRepository { return &bookRepository{db: db} }

func (r *bookRepository) WithTx(tx *gorm.DB) BookRepository { return &bookRepository{db: tx} }

func (r *bookRepository) Create(ctx context.Context, b *model.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookRepository) Get(ctx context.Context, id string) (*model.Book, error) {
	var b model.Book
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, notFound(err, "book", id)
	}
	return &b, nil
}

func (r *bookRepository) Update(ctx context.Context, b *model.Book) error {
	return r.db.WithContext(ctx).Model(b).Select("title", "publication_year", "writer_id").Updates(b).Error
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Book{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "book", id)
	}
	return nil
}

func (r *bookRepository) Query(ctx context.Context, spec *query.Spec) (*query.Page[model.Book], error) {
	return query.Materialize[model.Book](ctx, r.db, spec)
}
