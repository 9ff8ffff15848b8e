package service

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/auth"
	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/repository"
)

type Options struct {
	JWT auth.JWT
	// Redis may be nil; caches then fall through to the database.
	Redis     *redis.Client
	CacheTTL  time.Duration
	QueueSize int
}

// Services 所有业务服务，供 HTTP 与命令行共用
type Services struct {
	Repos         Repos
	Notifier      *Notifier
	Index         *cache.FollowIndex
	Accounts      AccountService
	Relations     RelationshipService
	Posts         PostService
	Comments      CommentService
	Likes         LikeService
	Notifications NotificationService
	Tags          TagService
	Bookshelf     BookshelfService
}

func NewServices(db *gorm.DB, opt Options) *Services {
	repos := NewRepos(db)
	tx := repository.NewTxManager(db)
	index := cache.NewFollowIndex(opt.Redis, opt.CacheTTL)
	unread := cache.NewCounter(opt.Redis, "unread", opt.CacheTTL)
	notifier := NewNotifier(repos.Notifications, unread, opt.QueueSize)

	return &Services{
		Repos:         repos,
		Notifier:      notifier,
		Index:         index,
		Accounts:      NewAccountService(tx, repos, opt.JWT, index),
		Relations:     NewRelationshipService(tx, repos.Users, repos.Follows, repos.Fans, index, notifier),
		Posts:         NewPostService(tx, repos.Posts, repos.Tags),
		Comments:      NewCommentService(tx, repos.Posts, repos.Comments, notifier),
		Likes:         NewLikeService(repos.Posts, repos.Likes, notifier),
		Notifications: NewNotificationService(repos.Notifications, unread),
		Tags:          NewTagService(repos.Tags),
		Bookshelf:     NewBookshelfService(tx, repos.Writers, repos.Books),
	}
}
