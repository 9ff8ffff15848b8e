package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
)

type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository
	Create(ctx context.Context, p *model.Post) error
	Get(ctx context.Context, id string) (*model.Post, error)
	// Update saves title and content; tags are replaced when replaceTags is set.
	Update(ctx context.Context, p *model.Post, replaceTags bool) error
	Delete(ctx context.Context, id string) error
	IDsByAuthor(ctx context.Context, authorID string) ([]string, error)
	Query(ctx context.Context, spec *query.Spec) (*query.Page[model.Post], error)
	CommentCounts(ctx context.Context, postIDs []string) (map[string]int64, error)
	LikeCounts(ctx context.Context, postIDs []string) (map[string]int64, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository { return &postRepository{db: tx} }

// Create 写入 post 与 post_tags，标签需已存在
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepository) Get(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, "post", id)
	}
	return &p, nil
}

func (r *postRepository) Update(ctx context.Context, p *model.Post, replaceTags bool) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(p).Select("title", "content", "updated_at").Updates(p).Error; err != nil {
		return err
	}
	if !replaceTags {
		return nil
	}
	return db.Model(p).Association("Tags").Replace(p.Tags)
}

// Delete removes the post and everything hanging off it. Call it inside a transaction.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", id).Delete(&model.Like{}).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Where("target_type = ? AND target_id = ?", model.TargetPost, id).
		Delete(&model.Notification{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "post", id)
	}
	return nil
}

func (r *postRepository) IDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (r *postRepository) Query(ctx context.Context, spec *query.Spec) (*query.Page[model.Post], error) {
	return query.Materialize[model.Post](ctx, r.db, spec, "Tags")
}

type postCount struct {
	PostID string
	N      int64
}

func (r *postRepository) CommentCounts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return r.countBy(ctx, &model.Comment{}, postIDs)
}

func (r *postRepository) LikeCounts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return r.countBy(ctx, &model.Like{}, postIDs)
}

func (r *postRepository) countBy(ctx context.Context, m any, postIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []postCount
	err := r.db.WithContext(ctx).Model(m).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.N
	}
	return out, nil
}
