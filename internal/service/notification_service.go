package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/pkg/logger"
)

type NotificationService interface {
	List(ctx context.Context, actorID string, page, pageSize int) (*query.Page[*model.Notification], error)
	Get(ctx context.Context, actorID, id string) (*model.Notification, error)
	MarkRead(ctx context.Context, actorID, id string) error
	MarkAllRead(ctx context.Context, actorID string) (int64, error)
	UnreadCount(ctx context.Context, actorID string) (int64, error)
	// PurgeRead deletes read notifications older than retention.
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

type notificationService struct {
	repo   repository.NotificationRepository
	unread *cache.Counter
}

func NewNotificationService(repo repository.NotificationRepository, unread *cache.Counter) NotificationService {
	if unread == nil {
		unread = cache.NewCounter(nil, "unread", 0)
	}
	return &notificationService{repo: repo, unread: unread}
}

func (s *notificationService) List(ctx context.Context, actorID string, page, pageSize int) (*query.Page[*model.Notification], error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	page, pageSize = normalizePaging(page, pageSize)
	items, total, err := s.repo.List(ctx, actorID, query.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return pageOf(items, total, page, pageSize), nil
}

func (s *notificationService) Get(ctx context.Context, actorID, id string) (*model.Notification, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, actorID, id)
}

func (s *notificationService) MarkRead(ctx context.Context, actorID, id string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, actorID, id); err != nil {
		return err
	}
	s.unread.Forget(ctx, actorID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actorID string) (int64, error) {
	if err := requireActor(actorID); err != nil {
		return 0, err
	}
	n, err := s.repo.MarkAllRead(ctx, actorID)
	if err != nil {
		return 0, err
	}
	s.unread.Forget(ctx, actorID)
	return n, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, actorID string) (int64, error) {
	if err := requireActor(actorID); err != nil {
		return 0, err
	}
	return s.unread.Get(ctx, actorID, func(ctx context.Context) (int64, error) {
		return s.repo.UnreadCount(ctx, actorID)
	})
}

func (s *notificationService) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	n, err := s.repo.PurgeRead(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		return 0, err
	}
	logger.Info("purged read notifications", zap.Int64("count", n), zap.Duration("retention", retention))
	return n, nil
}
