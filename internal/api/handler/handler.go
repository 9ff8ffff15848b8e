package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/api/middleware"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/response"
)

// Handler 聚合所有 HTTP 处理函数
type Handler struct {
	accounts      service.AccountService
	relService    service.RelationshipService
	posts         service.PostService
	comments      service.CommentService
	likes         service.LikeService
	notifications service.NotificationService
	tags          service.TagService
	shelf         service.BookshelfService
}

func New(s *service.Services) *Handler {
	return &Handler{
		accounts:      s.Accounts,
		relService:    s.Relations,
		posts:         s.Posts,
		comments:      s.Comments,
		likes:         s.Likes,
		notifications: s.Notifications,
		tags:          s.Tags,
		shelf:         s.Bookshelf,
	}
}

func actor(c *gin.Context) string { return middleware.CurrentUserID(c) }

// paging reads page and page_size; malformed values are rejected.
func paging(c *gin.Context) (int, int, error) {
	return query.ParsePaging(strings.TrimSpace(c.Query("page")), strings.TrimSpace(c.Query("page_size")))
}

// listParams reads the shared list filters: search, tag, author, ordering, page, page_size.
func listParams(c *gin.Context) (query.Params, error) {
	page, size, err := paging(c)
	if err != nil {
		return query.Params{}, err
	}
	return query.Params{
		Search:   strQueryPtr(c, "search"),
		TagName:  strQueryPtr(c, "tag"),
		AuthorID: strQueryPtr(c, "author"),
		Ordering: strings.TrimSpace(c.Query("ordering")),
		Page:     page,
		PageSize: size,
	}, nil
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func paged[T any](c *gin.Context, p *query.Page[T]) {
	response.Paged(c, p.Items, response.Meta{
		Page:        p.Page,
		PageSize:    p.PageSize,
		Total:       p.Total,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	})
}

// bind decodes the JSON body; validation happens in the services.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
