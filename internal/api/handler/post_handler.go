package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/response"
)

// ListPosts 帖子列表：search / tag / author / ordering 任意组合
// @Summary 帖子列表
// @Tags 帖子
// @Param search query string false "标题/正文/标签 模糊匹配"
// @Param tag query string false "标签名（精确）"
// @Param author query string false "作者ID"
// @Param ordering query string false "title | created_at | updated_at，前缀 - 表示倒序"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]service.PostView}
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	p, err := listParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.posts.List(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// SearchPosts 搜索：q 为空时返回空结果
// @Summary 搜索帖子
// @Tags 帖子
// @Param q query string false "关键词"
// @Success 200 {object} response.Response{data=[]service.PostView}
// @Router /api/v1/posts/search [get]
func (h *Handler) SearchPosts(c *gin.Context) {
	p, err := listParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.posts.Search(c.Request.Context(), c.Query("q"), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// Feed 关注的人发的帖子
// @Summary 关注流
// @Tags 帖子
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.PostView}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	p, err := listParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.posts.Feed(c.Request.Context(), actor(c), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// PostsByTag
// @Summary 按标签 slug 列出帖子
// @Tags 标签
// @Param slug path string true "标签 slug"
// @Success 200 {object} response.Response{data=[]service.PostView}
// @Router /api/v1/tags/{slug}/posts [get]
func (h *Handler) PostsByTag(c *gin.Context) {
	p, err := listParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.posts.ByTag(c.Request.Context(), c.Param("slug"), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// CreatePost
// @Summary 发帖
// @Tags 帖子
// @Accept json
// @Security BearerAuth
// @Param request body service.PostInput true "帖子"
// @Success 201 {object} response.Response{data=service.PostView}
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var in service.PostInput
	if !bind(c, &in) {
		return
	}
	p, err := h.posts.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// GetPost
// @Summary 帖子详情
// @Tags 帖子
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=service.PostView}
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// UpdatePost 仅作者可修改
// @Summary 修改帖子
// @Tags 帖子
// @Accept json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param request body service.PostPatch true "修改内容"
// @Success 200 {object} response.Response{data=service.PostView}
// @Failure 403 {object} response.Response
// @Router /api/v1/posts/{id} [patch]
func (h *Handler) UpdatePost(c *gin.Context) {
	var patch service.PostPatch
	if !bind(c, &patch) {
		return
	}
	p, err := h.posts.Update(c.Request.Context(), actor(c), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePost 仅作者可删除
// @Summary 删除帖子
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// LikePost
// @Summary 点赞
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	if err := h.likes.Like(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"liked": true})
}

// UnlikePost
// @Summary 取消点赞
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts/{id}/unlike [post]
func (h *Handler) UnlikePost(c *gin.Context) {
	if err := h.likes.Unlike(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"liked": false})
}

// ListTags 标签及帖子数
// @Summary 标签列表
// @Tags 标签
// @Success 200 {object} response.Response{data=[]model.TagCount}
// @Router /api/v1/tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

// GetTag
// @Summary 标签详情
// @Tags 标签
// @Param slug path string true "标签 slug"
// @Success 200 {object} response.Response{data=model.Tag}
// @Failure 404 {object} response.Response
// @Router /api/v1/tags/{slug} [get]
func (h *Handler) GetTag(c *gin.Context) {
	t, err := h.tags.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, t)
}

type tagRequest struct {
	Name string `json:"name"`
}

// CreateTag 同名标签直接返回已有记录
// @Summary 新建标签
// @Tags 标签
// @Accept json
// @Security BearerAuth
// @Param request body tagRequest true "标签名"
// @Success 200 {object} response.Response{data=model.Tag}
// @Failure 400 {object} response.Response
// @Router /api/v1/tags [post]
func (h *Handler) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.tags.GetOrCreate(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, t)
}
