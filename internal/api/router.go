// Package api assembles the HTTP surface.
package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/config"
	"github.com/d60-Lab/inkwell/internal/api/handler"
	"github.com/d60-Lab/inkwell/internal/api/middleware"
	"github.com/d60-Lab/inkwell/internal/auth"
	"github.com/d60-Lab/inkwell/internal/service"
)

type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	JWT      auth.JWT
	Services *service.Services
}

// NewRouter 注册中间件与全部路由
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestLogger())
	if cfg.Server.Gzip {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	(&handler.HealthHandler{DB: d.DB, Redis: d.Redis}).Register(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h := handler.New(d.Services)
	authed := middleware.Auth(d.JWT)

	v1 := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}
	v1.Use(middleware.OptionalAuth(d.JWT))

	v1.POST("/auth/register", h.Register)
	v1.POST("/auth/login", h.Login)

	v1.GET("/users", h.ListUsers)
	v1.GET("/users/:id", h.GetUser)
	v1.GET("/profile", authed, h.Profile)
	v1.PATCH("/profile", authed, h.UpdateProfile)
	v1.DELETE("/profile", authed, h.DeleteProfile)

	rel := v1.Group("/relations")
	{
		rel.POST("/follow/:user_id", authed, h.Follow)
		rel.POST("/unfollow/:user_id", authed, h.Unfollow)
		rel.GET("/:user_id/status", authed, h.FollowStatus)
		rel.GET("/:user_id/following", h.ListFollowing)
		rel.GET("/:user_id/fans", h.ListFans)
	}

	posts := v1.Group("/posts")
	{
		posts.GET("", h.ListPosts)
		posts.POST("", authed, h.CreatePost)
		posts.GET("/search", h.SearchPosts)
		posts.GET("/:id", h.GetPost)
		posts.PATCH("/:id", authed, h.UpdatePost)
		posts.DELETE("/:id", authed, h.DeletePost)
		posts.POST("/:id/like", authed, h.LikePost)
		posts.POST("/:id/unlike", authed, h.UnlikePost)
		posts.GET("/:id/comments", h.ListComments)
		posts.POST("/:id/comments", authed, h.CreateComment)
	}
	v1.GET("/feed", authed, h.Feed)
	v1.PATCH("/comments/:id", authed, h.UpdateComment)
	v1.DELETE("/comments/:id", authed, h.DeleteComment)

	v1.GET("/tags", h.ListTags)
	v1.POST("/tags", authed, h.CreateTag)
	v1.GET("/tags/:slug", h.GetTag)
	v1.GET("/tags/:slug/posts", h.PostsByTag)

	notes := v1.Group("/notifications", authed)
	{
		notes.GET("", h.ListNotifications)
		notes.GET("/unread-count", h.UnreadCount)
		notes.POST("/mark-all-read", h.MarkAllNotificationsRead)
		notes.GET("/:id", h.GetNotification)
		notes.POST("/:id/read", h.MarkNotificationRead)
	}

	v1.GET("/writers", h.ListWriters)
	v1.POST("/writers", authed, h.CreateWriter)
	v1.GET("/writers/:id", h.GetWriter)
	v1.PUT("/writers/:id", authed, h.UpdateWriter)
	v1.DELETE("/writers/:id", authed, h.DeleteWriter)
	v1.GET("/books", h.ListBooks)
	v1.POST("/books", authed, h.CreateBook)
	v1.GET("/books/:id", h.GetBook)
	v1.PUT("/books/:id", authed, h.UpdateBook)
	v1.DELETE("/books/:id", authed, h.DeleteBook)

	return r
}
