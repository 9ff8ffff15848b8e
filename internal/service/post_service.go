package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/apperr"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/internal/validate"
)

type PostInput struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"max=20,dive,max=64"`
}

// PostPatch carries the fields to change; nil means unchanged.
type PostPatch struct {
	Title   *string   `json:"title" validate:"omitempty,max=200"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags" validate:"omitempty,max=20,dive,max=64"`
}

// PostView is a post with its interaction counters.
type PostView struct {
	model.Post
	CommentCount int64 `json:"comment_count"`
	LikeCount    int64 `json:"like_count"`
}

type PostService interface {
	Create(ctx context.Context, actorID string, in PostInput) (*PostView, error)
	Get(ctx context.Context, id string) (*PostView, error)
	Update(ctx context.Context, actorID, id string, patch PostPatch) (*PostView, error)
	Delete(ctx context.Context, actorID, id string) error
	// List applies every filter in p. A missing search term means "no search".
	List(ctx context.Context, p query.Params) (*query.Page[PostView], error)
	// Search is the search-only entry point: an empty term matches nothing.
	Search(ctx context.Context, term string, p query.Params) (*query.Page[PostView], error)
	ByTag(ctx context.Context, slug string, p query.Params) (*query.Page[PostView], error)
	// Feed lists posts by the users actorID follows.
	Feed(ctx context.Context, actorID string, p query.Params) (*query.Page[PostView], error)
}

type postService struct {
	tx       *repository.TxManager
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
}

func NewPostService(tx *repository.TxManager, postRepo repository.PostRepository, tagRepo repository.TagRepository) PostService {
	return &postService{tx: tx, postRepo: postRepo, tagRepo: tagRepo}
}

// Create 在一个事务内写入 post、新标签与 post_tags
func (s *postService) Create(ctx context.Context, actorID string, in PostInput) (*PostView, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Tags = cleanTags(in.Tags)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &model.Post{
		ID:        uuid.New().String(),
		AuthorID:  actorID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		tags, err := s.resolveTags(ctx, tx, in.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags
		return s.postRepo.WithTx(tx).Create(ctx, post)
	})
	if err != nil {
		return nil, err
	}
	return &PostView{Post: *post}, nil
}

func (s *postService) Get(ctx context.Context, id string) (*PostView, error) {
	p, err := s.postRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.withCounts(ctx, []model.Post{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *postService) Update(ctx context.Context, actorID, id string, patch PostPatch) (*PostView, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if patch.Content != nil {
		c := strings.TrimSpace(*patch.Content)
		patch.Content = &c
	}
	if patch.Tags != nil {
		tags := cleanTags(*patch.Tags)
		patch.Tags = &tags
	}
	if err := validate.Struct(patch); err != nil {
		return nil, err
	}
	if (patch.Title != nil && *patch.Title == "") || (patch.Content != nil && *patch.Content == "") {
		return nil, apperr.Validation("title and content must not be blank")
	}

	err := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		post, err := posts.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actorID, post.AuthorID, "post"); err != nil {
			return err
		}
		if patch.Title != nil {
			post.Title = *patch.Title
		}
		if patch.Content != nil {
			post.Content = *patch.Content
		}
		if patch.Tags != nil {
			if post.Tags, err = s.resolveTags(ctx, tx, *patch.Tags); err != nil {
				return err
			}
		}
		post.UpdatedAt = time.Now().UTC()
		return posts.Update(ctx, post, patch.Tags != nil)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *postService) Delete(ctx context.Context, actorID, id string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)
		post, err := posts.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actorID, post.AuthorID, "post"); err != nil {
			return err
		}
		return posts.Delete(ctx, id)
	})
}

func (s *postService) List(ctx context.Context, p query.Params) (*query.Page[PostView], error) {
	spec, err := query.Build(query.Posts, p)
	if err != nil {
		return nil, err
	}
	page, err := s.postRepo.Query(ctx, spec)
	if err != nil {
		return nil, err
	}
	views, err := s.withCounts(ctx, page.Items)
	if err != nil {
		return nil, err
	}
	return query.WithItems(page, views), nil
}

func (s *postService) Search(ctx context.Context, term string, p query.Params) (*query.Page[PostView], error) {
	p.Search = &term
	p.SearchOnly = true
	return s.List(ctx, p)
}

func (s *postService) ByTag(ctx context.Context, slug string, p query.Params) (*query.Page[PostView], error) {
	p.TagSlug = &slug
	return s.List(ctx, p)
}

func (s *postService) Feed(ctx context.Context, actorID string, p query.Params) (*query.Page[PostView], error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	p.FollowedBy = &actorID
	return s.List(ctx, p)
}

func (s *postService) resolveTags(ctx context.Context, tx *gorm.DB, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	repo := s.tagRepo.WithTx(tx)
	for _, name := range names {
		t, err := repo.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, nil
}

func (s *postService) withCounts(ctx context.Context, posts []model.Post) ([]PostView, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	comments, err := s.postRepo.CommentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	likes, err := s.postRepo.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{Post: p, CommentCount: comments[p.ID], LikeCount: likes[p.ID]}
	}
	return views, nil
}

// cleanTags trims names, drops blanks and keeps the first of each duplicate.
func cleanTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
