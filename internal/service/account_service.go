package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/apperr"
	"github.com/d60-Lab/inkwell/internal/auth"
	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/internal/validate"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Bio      string `json:"bio" validate:"max=500"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfilePatch struct {
	Email *string `json:"email" validate:"omitempty,email,max=254"`
	Bio   *string `json:"bio" validate:"omitempty,max=500"`
}

// Session is the result of a successful register or login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// Profile is a user with follow counters.
type Profile struct {
	*model.User
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Get(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, actorID string, patch ProfilePatch) (*Profile, error)
	List(ctx context.Context, page, pageSize int) (*query.Page[*model.User], error)
	// Delete removes the account and everything it owns.
	Delete(ctx context.Context, actorID string) error
}

type Repos struct {
	Users         repository.UserRepository
	Follows       repository.FollowRepository
	Fans          repository.FanRepository
	Posts         repository.PostRepository
	Tags          repository.TagRepository
	Comments      repository.CommentRepository
	Likes         repository.LikeRepository
	Notifications repository.NotificationRepository
	Writers       repository.WriterRepository
	Books         repository.BookRepository
}

// NewRepos builds every repository on db.
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Users:         repository.NewUserRepository(db),
		Follows:       repository.NewFollowRepository(db),
		Fans:          repository.NewFanRepository(db),
		Posts:         repository.NewPostRepository(db),
		Tags:          repository.NewTagRepository(db),
		Comments:      repository.NewCommentRepository(db),
		Likes:         repository.NewLikeRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Writers:       repository.NewWriterRepository(db),
		Books:         repository.NewBookRepository(db),
	}
}

type accountService struct {
	tx    *repository.TxManager
	repos Repos
	jwt   auth.JWT
	index *cache.FollowIndex
}

func NewAccountService(tx *repository.TxManager, repos Repos, jwt auth.JWT, index *cache.FollowIndex) AccountService {
	if index == nil {
		index = cache.NewFollowIndex(nil, 0)
	}
	return &accountService{tx: tx, repos: repos, jwt: jwt, index: index}
}

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Bio = strings.TrimSpace(in.Bio)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	taken, err := s.repos.Users.Taken(ctx, in.Username, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("username or email already registered")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Bio:          in.Bio,
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *accountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.repos.Users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *accountService) session(u *model.User) (*Session, error) {
	tok, exp, err := s.jwt.Sign(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

func (s *accountService) Get(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: u}
	if p.Followers, err = s.repos.Follows.CountFollowers(ctx, userID); err != nil {
		return nil, err
	}
	if p.Following, err = s.repos.Follows.CountFollowings(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, actorID string, patch ProfilePatch) (*Profile, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if patch.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &e
	}
	if patch.Bio != nil {
		b := strings.TrimSpace(*patch.Bio)
		patch.Bio = &b
	}
	if err := validate.Struct(patch); err != nil {
		return nil, err
	}
	u, err := s.repos.Users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if patch.Email != nil && *patch.Email != "" && *patch.Email != u.Email {
		taken, err := s.repos.Users.Taken(ctx, "", *patch.Email, u.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("email already registered")
		}
		u.Email = *patch.Email
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	u.UpdatedAt = time.Now().UTC()
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.Get(ctx, actorID)
}

func (s *accountService) List(ctx context.Context, page, pageSize int) (*query.Page[*model.User], error) {
	page, pageSize = normalizePaging(page, pageSize)
	items, total, err := s.repos.Users.List(ctx, query.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return pageOf(items, total, page, pageSize), nil
}

// Delete 级联删除：帖子(含评论/点赞/标签关联)、评论、点赞、关注、粉丝、通知
func (s *accountService) Delete(ctx context.Context, actorID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	followees, err := s.repos.Follows.FolloweeIDs(ctx, actorID)
	if err != nil {
		return err
	}
	fans, err := s.repos.Fans.FanIDs(ctx, actorID)
	if err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(tx *gorm.DB) error {
		users := s.repos.Users.WithTx(tx)
		if _, err := users.GetByID(ctx, actorID); err != nil {
			return err
		}
		posts := s.repos.Posts.WithTx(tx)
		ids, err := posts.IDsByAuthor(ctx, actorID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := posts.Delete(ctx, id); err != nil {
				return err
			}
		}
		steps := []func(context.Context, string) error{
			s.repos.Comments.WithTx(tx).DeleteByAuthor,
			s.repos.Likes.WithTx(tx).DeleteByUser,
			s.repos.Follows.WithTx(tx).DeleteByUser,
			s.repos.Fans.WithTx(tx).DeleteByUser,
			s.repos.Notifications.WithTx(tx).DeleteByUser,
			users.Delete,
		}
		for _, step := range steps {
			if err := step(ctx, actorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.index.Forget(ctx, actorID)
	for _, id := range followees {
		s.index.Invalidate(ctx, actorID, id)
	}
	for _, id := range fans {
		s.index.Invalidate(ctx, id, actorID)
	}
	return nil
}
