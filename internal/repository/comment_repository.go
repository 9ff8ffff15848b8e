package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/model"
)

type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	Create(ctx context.Context, c *model.Comment) error
	Get(ctx context.Context, id string) (*model.Comment, error)
	Update(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, int64, error)
	DeleteByAuthor(ctx context.Context, authorID string) error
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository { return &commentRepository{db: tx} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepository) Get(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &c, nil
}

func (r *commentRepository) Update(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Model(c).Select("content", "updated_at").Updates(c).Error
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error
}

// ListByPost 按创建时间正序分页
func (r *commentRepository) ListByPost(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, int64, error) {
	offset, limit = window(offset, limit)
	db := r.db.WithContext(ctx)
	var total int64
	if err := db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	res := []*model.Comment{}
	if int64(offset) >= total {
		return res, total, nil
	}
	err := db.Where("post_id = ?", postID).
		Order("created_at").Order("id").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, total, err
}

func (r *commentRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	return r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&model.Comment{}).Error
}
