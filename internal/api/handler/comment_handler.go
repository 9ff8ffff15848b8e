package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/response"
)

// ListComments
// @Summary 评论列表（时间正序）
// @Tags 评论
// @Param id path string true "帖子ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]model.Comment}
// @Router /api/v1/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	page, size, err := paging(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.comments.List(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// CreateComment
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param request body service.CommentInput true "评论"
// @Success 201 {object} response.Response{data=model.Comment}
// @Router /api/v1/posts/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var in service.CommentInput
	if !bind(c, &in) {
		return
	}
	cm, err := h.comments.Create(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cm)
}

// UpdateComment
// @Summary 修改评论
// @Tags 评论
// @Accept json
// @Security BearerAuth
// @Param id path string true "评论ID"
// @Param request body service.CommentInput true "评论"
// @Success 200 {object} response.Response{data=model.Comment}
// @Failure 403 {object} response.Response
// @Router /api/v1/comments/{id} [patch]
func (h *Handler) UpdateComment(c *gin.Context) {
	var in service.CommentInput
	if !bind(c, &in) {
		return
	}
	cm, err := h.comments.Update(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cm)
}

// DeleteComment
// @Summary 删除评论
// @Tags 评论
// @Security BearerAuth
// @Param id path string true "评论ID"
// @Success 204
// @Router /api/v1/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
