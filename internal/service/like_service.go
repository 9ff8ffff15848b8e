package service

import (
	"context"

	"github.com/d60-Lab/inkwell/internal/apperr"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/repository"
)

type LikeService interface {
	Like(ctx context.Context, actorID, postID string) error
	Unlike(ctx context.Context, actorID, postID string) error
}

type likeService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	notifier *Notifier
}

func NewLikeService(postRepo repository.PostRepository, likeRepo repository.LikeRepository, notifier *Notifier) LikeService {
	return &likeService{postRepo: postRepo, likeRepo: likeRepo, notifier: notifier}
}

func (s *likeService) Like(ctx context.Context, actorID, postID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		return err
	}
	created, err := s.likeRepo.Create(ctx, post.ID, actorID)
	if err != nil {
		return err
	}
	if !created {
		return apperr.Conflict("post %s already liked", postID)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, Event{
			RecipientID: post.AuthorID,
			ActorID:     actorID,
			Verb:        model.VerbLiked,
			TargetType:  model.TargetPost,
			TargetID:    post.ID,
		})
	}
	return nil
}

func (s *likeService) Unlike(ctx context.Context, actorID, postID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if _, err := s.postRepo.Get(ctx, postID); err != nil {
		return err
	}
	removed, err := s.likeRepo.Delete(ctx, postID, actorID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.InvalidOperation("post %s is not liked", postID)
	}
	return nil
}
