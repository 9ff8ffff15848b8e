package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/internal/validate"
)

type CommentInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type CommentService interface {
	Create(ctx context.Context, actorID, postID string, in CommentInput) (*model.Comment, error)
	List(ctx context.Context, postID string, page, pageSize int) (*query.Page[*model.Comment], error)
	Update(ctx context.Context, actorID, id string, in CommentInput) (*model.Comment, error)
	Delete(ctx context.Context, actorID, id string) error
}

type commentService struct {
	tx          *repository.TxManager
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	notifier    *Notifier
}

func NewCommentService(tx *repository.TxManager, postRepo repository.PostRepository, commentRepo repository.CommentRepository, notifier *Notifier) CommentService {
	return &commentService{tx: tx, postRepo: postRepo, commentRepo: commentRepo, notifier: notifier}
}

func (s *commentService) Create(ctx context.Context, actorID, postID string, in CommentInput) (*model.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    post.ID,
		AuthorID:  actorID,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, Event{
			RecipientID: post.AuthorID,
			ActorID:     actorID,
			Verb:        model.VerbCommented,
			TargetType:  model.TargetPost,
			TargetID:    post.ID,
		})
	}
	return c, nil
}

// List 评论按时间正序
func (s *commentService) List(ctx context.Context, postID string, page, pageSize int) (*query.Page[*model.Comment], error) {
	page, pageSize = normalizePaging(page, pageSize)
	if _, err := s.postRepo.Get(ctx, postID); err != nil {
		return nil, err
	}
	items, total, err := s.commentRepo.ListByPost(ctx, postID, query.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return pageOf(items, total, page, pageSize), nil
}

func (s *commentService) Update(ctx context.Context, actorID, id string, in CommentInput) (*model.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var out *model.Comment
	err := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		comments := s.commentRepo.WithTx(tx)
		c, err := comments.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actorID, c.AuthorID, "comment"); err != nil {
			return err
		}
		c.Content = in.Content
		c.UpdatedAt = time.Now().UTC()
		out = c
		return comments.Update(ctx, c)
	})
	return out, err
}

func (s *commentService) Delete(ctx context.Context, actorID, id string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(tx *gorm.DB) error {
		comments := s.commentRepo.WithTx(tx)
		c, err := comments.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actorID, c.AuthorID, "comment"); err != nil {
			return err
		}
		return comments.Delete(ctx, id)
	})
}
