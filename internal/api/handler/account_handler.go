package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/service"
	"github.com/d60-Lab/inkwell/pkg/response"
)

// Register 注册并返回 token
// @Summary 注册
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 201 {object} response.Response{data=service.Session}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if !bind(c, &in) {
		return
	}
	s, err := h.accounts.Register(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, s)
}

// Login 登录
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "登录信息"
// @Success 200 {object} response.Response{data=service.Session}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in service.LoginInput
	if !bind(c, &in) {
		return
	}
	s, err := h.accounts.Login(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s)
}

// ListUsers
// @Summary 用户列表
// @Tags 账号
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]model.User}
// @Router /api/v1/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, size, err := paging(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.accounts.List(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// GetUser
// @Summary 用户详情（含关注/粉丝数）
// @Tags 账号
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	p, err := h.accounts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// Profile 当前用户资料
// @Summary 当前用户资料
// @Tags 账号
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.Profile}
// @Router /api/v1/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	p, err := h.accounts.Get(c.Request.Context(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// UpdateProfile
// @Summary 修改资料
// @Tags 账号
// @Accept json
// @Security BearerAuth
// @Param request body service.ProfilePatch true "资料"
// @Success 200 {object} response.Response{data=service.Profile}
// @Router /api/v1/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var patch service.ProfilePatch
	if !bind(c, &patch) {
		return
	}
	p, err := h.accounts.UpdateProfile(c.Request.Context(), actor(c), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// DeleteProfile 注销账号
// @Summary 注销账号（级联删除）
// @Tags 账号
// @Security BearerAuth
// @Success 204
// @Router /api/v1/profile [delete]
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), actor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
