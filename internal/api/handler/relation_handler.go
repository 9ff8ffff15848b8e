package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/pkg/response"
)

// Follow 关注用户（关注表 + 粉丝表同一事务写入）
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/follow/{user_id} [post]
func (h *Handler) Follow(c *gin.Context) {
	if err := h.relService.Follow(c.Request.Context(), actor(c), c.Param("user_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"following": true})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/relations/unfollow/{user_id} [post]
func (h *Handler) Unfollow(c *gin.Context) {
	if err := h.relService.Unfollow(c.Request.Context(), actor(c), c.Param("user_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"following": false})
}

// FollowStatus reports whether the current user follows user_id.
// @Summary 查询关注状态
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/relations/{user_id}/status [get]
func (h *Handler) FollowStatus(c *gin.Context) {
	ok, err := h.relService.IsFollowing(c.Request.Context(), actor(c), c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"following": ok})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]model.User}
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, size, err := paging(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.relService.ListFollowing(c.Request.Context(), c.Param("user_id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// ListFans 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]model.User}
// @Router /api/v1/relations/{user_id}/fans [get]
func (h *Handler) ListFans(c *gin.Context) {
	page, size, err := paging(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.relService.ListFans(c.Request.Context(), c.Param("user_id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}
