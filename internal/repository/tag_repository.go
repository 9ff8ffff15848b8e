package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/inkwell/internal/apperr"
	"github.com/d60-Lab/inkwell/internal/model"
)

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	// GetOrCreate returns the tag with exactly this name, creating it on first use.
	GetOrCreate(ctx context.Context, name string) (*model.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tag, error)
	ListWithCounts(ctx context.Context) ([]model.TagCount, error)
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository { return &tagRepository{db: tx} }

func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	db := r.db.WithContext(ctx)
	var t model.Tag
	err := db.Where("name = ?", name).First(&t).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 两次尝试：并发写入可能抢占同名记录，也可能抢占同一个 slug
	for attempt := 0; attempt < 2; attempt++ {
		s, err := r.freeSlug(ctx, name)
		if err != nil {
			return nil, err
		}
		t = model.Tag{ID: uuid.New().String(), Name: name, Slug: s}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&t).Error; err != nil {
			return nil, err
		}
		var stored model.Tag
		err = db.Where("name = ?", name).First(&stored).Error
		if err == nil {
			return &stored, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, apperr.Conflict("tag %q: slug taken concurrently", name)
}

// slugLimit 与 Tag.Slug 列宽一致
const (
	slugLimit  = 80
	suffixSize = 7 // "-" + 6 位摘要
)

// freeSlug 由名称生成 slug，冲突或为空时追加名称摘要
func (r *tagRepository) freeSlug(ctx context.Context, name string) (string, error) {
	base := truncateSlug(slug.Make(name), slugLimit-suffixSize)
	if base != "" {
		var cnt int64
		if err := r.db.WithContext(ctx).Model(&model.Tag{}).Where("slug = ?", base).Count(&cnt).Error; err != nil {
			return "", err
		}
		if cnt == 0 {
			return base, nil
		}
	}
	sum := sha1.Sum([]byte(name))
	suffix := hex.EncodeToString(sum[:])[:suffixSize-1]
	if base == "" {
		return "tag-" + suffix, nil
	}
	return base + "-" + suffix, nil
}

// truncateSlug cuts s to at most n bytes without leaving a trailing separator.
// slug.Make output is ASCII, so byte and rune lengths agree.
func truncateSlug(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimRight(s[:n], "-")
}

func (r *tagRepository) GetBySlug(ctx context.Context, s string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&t).Error; err != nil {
		return nil, notFound(err, "tag", s)
	}
	return &t, nil
}

func (r *tagRepository) ListWithCounts(ctx context.Context) ([]model.TagCount, error) {
	var res []model.TagCount
	err := r.db.WithContext(ctx).Model(&model.Tag{}).
		Select("tags.id, tags.name, tags.slug, tags.created_at, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id, tags.name, tags.slug, tags.created_at").
		Order("tags.name").
		Scan(&res).Error
	return res, err
}
