package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/inkwell/internal/apperr"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/repository"
)

type TagService interface {
	List(ctx context.Context) ([]model.TagCount, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tag, error)
	GetOrCreate(ctx context.Context, name string) (*model.Tag, error)
}

type tagService struct{ repo repository.TagRepository }

func NewTagService(repo repository.TagRepository) TagService { return &tagService{repo: repo} }

func (s *tagService) List(ctx context.Context) ([]model.TagCount, error) {
	tags, err := s.repo.ListWithCounts(ctx)
	if tags == nil {
		tags = []model.TagCount{}
	}
	return tags, err
}

func (s *tagService) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *tagService) GetOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 64 {
		return nil, apperr.Validation("tag name must be 1 to 64 characters")
	}
	return s.repo.GetOrCreate(ctx, name)
}
