package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/apperr"
	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/repository"
)

// RelationshipService 关系链服务
type RelationshipService interface {
	// Follow adds the edge actor -> target. Following twice is a no-op.
	Follow(ctx context.Context, actorID, targetID string) error
	// Unfollow removes the edge actor -> target if present.
	Unfollow(ctx context.Context, actorID, targetID string) error
	IsFollowing(ctx context.Context, actorID, targetID string) (bool, error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) (*query.Page[*model.User], error)
	ListFans(ctx context.Context, userID string, page, pageSize int) (*query.Page[*model.User], error)
	Counts(ctx context.Context, userID string) (followers, following int64, err error)
}

type relationshipService struct {
	tx         *repository.TxManager
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	fanRepo    repository.FanRepository
	index      *cache.FollowIndex
	notifier   *Notifier
}

func NewRelationshipService(
	tx *repository.TxManager,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	fanRepo repository.FanRepository,
	index *cache.FollowIndex,
	notifier *Notifier,
) RelationshipService {
	if index == nil {
		index = cache.NewFollowIndex(nil, 0)
	}
	return &relationshipService{
		tx:         tx,
		userRepo:   userRepo,
		followRepo: followRepo,
		fanRepo:    fanRepo,
		index:      index,
		notifier:   notifier,
	}
}

func (s *relationshipService) Follow(ctx context.Context, actorID, targetID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if actorID == targetID {
		return apperr.InvalidOperation("cannot follow yourself")
	}
	ok, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("user %s", targetID)
	}

	var created bool
	err = s.tx.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		if created, err = s.followRepo.WithTx(tx).Create(ctx, actorID, targetID); err != nil {
			return err
		}
		return s.fanRepo.WithTx(tx).Create(ctx, targetID, actorID)
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	s.index.Invalidate(ctx, actorID, targetID)
	if s.notifier != nil {
		s.notifier.Notify(ctx, Event{
			RecipientID: targetID,
			ActorID:     actorID,
			Verb:        model.VerbFollowed,
			TargetType:  model.TargetUser,
			TargetID:    actorID,
		})
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	var removed bool
	err := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		if removed, err = s.followRepo.WithTx(tx).Delete(ctx, actorID, targetID); err != nil {
			return err
		}
		return s.fanRepo.WithTx(tx).Delete(ctx, targetID, actorID)
	})
	if err != nil {
		return err
	}
	if removed {
		s.index.Invalidate(ctx, actorID, targetID)
	}
	return nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	return s.followRepo.Exists(ctx, actorID, targetID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) (*query.Page[*model.User], error) {
	return s.listEdge(ctx, cache.Following, userID, page, pageSize, s.followRepo.FolloweeIDs, s.followingWindow)
}

func (s *relationshipService) ListFans(ctx context.Context, userID string, page, pageSize int) (*query.Page[*model.User], error) {
	return s.listEdge(ctx, cache.Fans, userID, page, pageSize, s.fanRepo.FanIDs, s.fansWindow)
}

// idWindow 直接从数据库取一页 id 及总数
type idWindow func(ctx context.Context, userID string, offset, limit int) ([]string, int64, error)

func (s *relationshipService) followingWindow(ctx context.Context, userID string, offset, limit int) ([]string, int64, error) {
	total, err := s.followRepo.CountFollowings(ctx, userID)
	if err != nil || int64(offset) >= total {
		return []string{}, total, err
	}
	rows, err := s.followRepo.ListFollowings(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, len(rows))
	for i, f := range rows {
		ids[i] = f.FolloweeID
	}
	return ids, total, nil
}

func (s *relationshipService) fansWindow(ctx context.Context, userID string, offset, limit int) ([]string, int64, error) {
	total, err := s.fanRepo.CountFans(ctx, userID)
	if err != nil || int64(offset) >= total {
		return []string{}, total, err
	}
	rows, err := s.fanRepo.ListFans(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, len(rows))
	for i, f := range rows {
		ids[i] = f.FanID
	}
	return ids, total, nil
}

// listEdge pages one side of the graph: through the Redis index when it is enabled,
// otherwise straight from the edge table without loading the whole list.
func (s *relationshipService) listEdge(ctx context.Context, edge cache.Edge, userID string, page, pageSize int,
	load cache.Loader, direct idWindow) (*query.Page[*model.User], error) {
	page, pageSize = normalizePaging(page, pageSize)
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user %s", userID)
	}

	var (
		ids   []string
		total int64
	)
	offset := query.Offset(page, pageSize)
	if s.index.Enabled() {
		ids, total, err = s.index.Page(ctx, edge, userID, offset, pageSize, load)
	} else {
		ids, total, err = direct(ctx, userID, offset, pageSize)
	}
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	items := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			items = append(items, u)
		}
	}
	p := pageOf(items, total, page, pageSize)
	p.HasNext = int64(offset)+int64(pageSize) < total
	return p, nil
}

func (s *relationshipService) Counts(ctx context.Context, userID string) (followers, following int64, err error) {
	if followers, err = s.followRepo.CountFollowers(ctx, userID); err != nil {
		return 0, 0, err
	}
	if following, err = s.followRepo.CountFollowings(ctx, userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
