package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/pkg/response"
)

// ListNotifications
// @Summary 通知列表（倒序）
// @Tags 通知
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]model.Notification}
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	page, size, err := paging(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.notifications.List(c.Request.Context(), actor(c), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, list)
}

// GetNotification
// @Summary 通知详情
// @Tags 通知
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} response.Response{data=model.Notification}
// @Failure 404 {object} response.Response
// @Router /api/v1/notifications/{id} [get]
func (h *Handler) GetNotification(c *gin.Context) {
	n, err := h.notifications.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, n)
}

// MarkNotificationRead
// @Summary 标记已读
// @Tags 通知
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"read": true})
}

// MarkAllNotificationsRead
// @Summary 全部标记已读
// @Tags 通知
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/mark-all-read [post]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"marked": n})
}

// UnreadCount
// @Summary 未读数
// @Tags 通知
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.notifications.UnreadCount(c.Request.Context(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"unread": n})
}
